// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// ReservationCreatedQueue is the durable queue every committed
// reservation is announced on.
const ReservationCreatedQueue = "reservation.created"

// ReservationCreatedRetryQueue parks events whose derivation failed for a
// transient reason.  Messages expire back into ReservationCreatedQueue
// through the default exchange.
const ReservationCreatedRetryQueue = ReservationCreatedQueue + ".retry"

// ReservationCreatedEvent is published once the reservation transaction
// has committed.  It carries everything the payment derivation needs, so
// the consumer can repair a missing payment without re-reading the
// request.
type ReservationCreatedEvent struct {
	ReservationID     uuid.UUID         `json:"reservation_id"`
	PaymentPlan       model.PaymentPlan `json:"payment_plan"`
	AccommodationCost decimal.Decimal   `json:"accommodation_cost"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	CreatedBy         uuid.UUID         `json:"created_by"`
	CreatedAt         string            `json:"created_at"`
}
