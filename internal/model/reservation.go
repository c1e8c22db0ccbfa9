package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reservation is the aggregate root of a booking.  It owns its room-type
// lines (how many rooms of each type were requested) and, once assigned,
// the concrete rooms.  Dates are calendar dates in UTC; the stay is the
// half-open range [StartDate, EndDate).
type Reservation struct {
	Entity
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	GuestsCount       int               `json:"guestsCount"`
	Status            ReservationStatus `json:"status"`
	AccommodationCost decimal.Decimal   `json:"accommodationCost"`
	StartDate         time.Time         `json:"-"`
	EndDate           time.Time         `json:"-"`
	Deleted           bool              `json:"-"`
	CreatedAt         time.Time         `json:"createdDateTime"`
	CreatedBy         *uuid.UUID        `json:"createdBy,omitempty"`
	UpdatedAt         time.Time         `json:"updatedDateTime"`
	UpdatedBy         *uuid.UUID        `json:"updatedBy,omitempty"`
	Lines             []RoomTypeLine    `json:"roomTypes"`
	RoomIDs           []uuid.UUID       `json:"rooms"`
}

// Nights is the number of whole nights between start and end.
func (r Reservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

// RoomTypeLine is one (reservation, room type) pair with the number of
// rooms requested.  It is created with the reservation and never changes.
type RoomTypeLine struct {
	ReservationID uuid.UUID `json:"-"`
	RoomTypeID    uuid.UUID `json:"roomTypeId"`
	RoomTypeName  string    `json:"roomTypeName"`
	RoomsCount    int       `json:"roomsCount"`
}
