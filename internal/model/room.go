package model

import (
	"time"

	"github.com/google/uuid"
)

// Room is a physical, numbered room of some RoomType.
type Room struct {
	Entity
	RoomNumber   string     `json:"roomNumber"`
	RoomTypeID   uuid.UUID  `json:"roomTypeId"`
	RoomTypeName string     `json:"roomTypeName,omitempty"`
	BedTypes     []BedType  `json:"bedTypes"`
	Status       RoomStatus `json:"roomStatus"`
	CreatedAt    time.Time  `json:"createdDateTime"`
	CreatedBy    *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedAt    time.Time  `json:"updatedDateTime"`
}
