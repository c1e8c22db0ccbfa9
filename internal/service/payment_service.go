package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
)

// PaymentStore persists payments.  *repository.PaymentRepo implements it.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	CreateTx(ctx context.Context, q repository.DBTX, p *model.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	HasReservationPaymentTx(ctx context.Context, q repository.DBTX, reservationID uuid.UUID, reason model.PaymentReason) (bool, error)
}

// ReservationLocker checks and locks reservations for payment writes.
type ReservationLocker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	LockTx(ctx context.Context, q repository.DBTX, id uuid.UUID) error
}

// CreatePaymentInput is a staff-entered payment.
type CreatePaymentInput struct {
	Amount        decimal.Decimal
	Type          model.PaymentType
	Reason        model.PaymentReason
	Status        model.PaymentStatus
	Notes         *string
	ReservationID uuid.UUID
	RoomID        *uuid.UUID
}

// PaymentMenus lists the enumerations a payment form offers.
type PaymentMenus struct {
	PaymentTypes    []model.PaymentType   `json:"paymentTypes"`
	PaymentReasons  []model.PaymentReason `json:"paymentReasons"`
	PaymentStatuses []model.PaymentStatus `json:"paymentStatuses"`
}

type PaymentService struct {
	tx           TxRunner
	payments     PaymentStore
	reservations ReservationLocker
	rooms        RoomCounter
	logger       *zap.Logger
	now          func() time.Time
}

func NewPaymentService(tx TxRunner, payments PaymentStore, reservations ReservationLocker, rooms RoomCounter, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		tx:           tx,
		payments:     payments,
		reservations: reservations,
		rooms:        rooms,
		logger:       logger.Named("payments"),
		now:          time.Now,
	}
}

// planPayment maps a payment plan onto the amount, type and reason of the
// payment it implies.
func planPayment(plan model.PaymentPlan, cost decimal.Decimal) (decimal.Decimal, model.PaymentType, model.PaymentReason, error) {
	switch plan {
	case model.PlanFullPrepay:
		return cost, model.PaymentCard, model.ReasonAccommodationPrepaid, nil
	case model.PlanReservationDeposit:
		return DepositAmount(cost), model.PaymentCard, model.ReasonDeposit, nil
	case model.PlanPayAtProperty:
		return cost, model.PaymentNotSpecified, model.ReasonPayAtProperty, nil
	}
	return decimal.Zero, "", "", &InvalidPaymentPlanError{Plan: string(plan)}
}

// DeriveReservationPayment records the pending payment implied by plan for
// a committed reservation.  It is idempotent: when the reservation already
// carries a reservation-level payment with the plan's reason nothing is
// written.  The reservation row is locked while checking, so the request
// path and the queue consumer cannot both insert.
func (s *PaymentService) DeriveReservationPayment(ctx context.Context, reservationID uuid.UUID, plan model.PaymentPlan, cost decimal.Decimal) error {
	amount, ptype, reason, err := planPayment(plan, cost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	p := &model.Payment{
		Entity:        model.NewEntity(),
		Amount:        amount,
		Type:          ptype,
		Reason:        reason,
		Status:        model.PaymentPending,
		ReservationID: reservationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created := false
	err = s.tx.InTx(ctx, nil, func(tx *sql.Tx) error {
		if err := s.reservations.LockTx(ctx, tx, reservationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		exists, err := s.payments.HasReservationPaymentTx(ctx, tx, reservationID, reason)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		created = true
		return s.payments.CreateTx(ctx, tx, p)
	})
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("reservation payment derived",
			zap.String("reservation_id", reservationID.String()),
			zap.String("payment_id", p.ID.String()),
			zap.String("reason", string(reason)),
			zap.String("amount", amount.StringFixed(2)))
	} else {
		s.logger.Debug("reservation payment already present", zap.String("reservation_id", reservationID.String()))
	}
	return nil
}

// Create records a staff-entered payment.
func (s *PaymentService) Create(ctx context.Context, in CreatePaymentInput) (uuid.UUID, error) {
	ok, err := s.reservations.Exists(ctx, in.ReservationID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, ErrReservationNotFound
	}
	if in.RoomID != nil {
		n, err := s.rooms.CountExisting(ctx, []uuid.UUID{*in.RoomID})
		if err != nil {
			return uuid.Nil, err
		}
		if n == 0 {
			return uuid.Nil, ErrRoomNotFound
		}
	}
	status := in.Status
	if status == "" {
		status = model.PaymentPending
	}
	now := s.now().UTC()
	p := &model.Payment{
		Entity:        model.NewEntity(),
		Amount:        in.Amount.Round(2),
		Type:          in.Type,
		Reason:        in.Reason,
		Status:        status,
		Notes:         in.Notes,
		ReservationID: in.ReservationID,
		RoomID:        in.RoomID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// Get returns a payment by id.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// Menus returns the payment enumerations.
func (s *PaymentService) Menus() PaymentMenus {
	return PaymentMenus{
		PaymentTypes:    model.PaymentTypes,
		PaymentReasons:  model.PaymentReasons,
		PaymentStatuses: model.PaymentStatuses,
	}
}
