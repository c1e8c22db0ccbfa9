package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomType is a category of rooms sharing a nightly price and capacity.
// Availability is computed per room type, never per physical room.
type RoomType struct {
	Entity
	Name              string          `json:"name"`
	BasePricePerNight decimal.Decimal `json:"basePricePerNight"`
	Capacity          int             `json:"capacity"`
	Description       *string         `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"createdDateTime"`
	CreatedBy         *uuid.UUID      `json:"createdBy,omitempty"`
	UpdatedAt         time.Time       `json:"updatedDateTime"`
	UpdatedBy         *uuid.UUID      `json:"updatedBy,omitempty"`
}

// RoomTypePreview is the short form used by booking forms.
type RoomTypePreview struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Capacity          int             `json:"capacity"`
	BasePricePerNight decimal.Decimal `json:"basePricePerNight"`
}

// Availability is the per-room-type occupancy for one date window.
type Availability struct {
	TotalRooms     int `json:"totalRooms"`
	BookedRooms    int `json:"bookedRooms"`
	AvailableRooms int `json:"availableRooms"`
}
