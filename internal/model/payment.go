package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a monetary movement tied to a reservation and, for room
// consumption, optionally to a room.
type Payment struct {
	Entity
	Amount        decimal.Decimal `json:"amount"`
	Type          PaymentType     `json:"paymentType"`
	Reason        PaymentReason   `json:"reason"`
	Status        PaymentStatus   `json:"status"`
	Notes         *string         `json:"notes,omitempty"`
	ReservationID uuid.UUID       `json:"reservationId"`
	RoomID        *uuid.UUID      `json:"roomId,omitempty"`
	CreatedAt     time.Time       `json:"createdDateTime"`
	UpdatedAt     time.Time       `json:"updatedDateTime"`
}
