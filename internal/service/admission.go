package service

import "github.com/iliyamo/hotel-backoffice/internal/model"

// RoomRequest asks for Count rooms of the room type named RoomType.
type RoomRequest struct {
	RoomType string
	Count    int
}

// MergeRoomRequests folds repeated room types into one request with the
// summed count, keeping first-seen order.
func MergeRoomRequests(reqs []RoomRequest) []RoomRequest {
	idx := make(map[string]int, len(reqs))
	out := make([]RoomRequest, 0, len(reqs))
	for _, r := range reqs {
		if i, ok := idx[r.RoomType]; ok {
			out[i].Count += r.Count
			continue
		}
		idx[r.RoomType] = len(out)
		out = append(out, r)
	}
	return out
}

// CheckAdmission admits reqs against the availability map of the stay
// window.  It fails fast: the first unknown room type yields a
// RoomTypeNotFoundError and the first under-capacity type an
// InsufficientAvailabilityError.  reqs must already be merged.
func CheckAdmission(avail map[string]model.Availability, reqs []RoomRequest) error {
	for _, r := range reqs {
		a, ok := avail[r.RoomType]
		if !ok {
			return &RoomTypeNotFoundError{Name: r.RoomType}
		}
		if a.AvailableRooms < r.Count {
			return &InsufficientAvailabilityError{RoomType: r.RoomType, Requested: r.Count, Available: a.AvailableRooms}
		}
	}
	return nil
}
