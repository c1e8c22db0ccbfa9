package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// RoomTypeAvailability is the slice of the room-type store that admission
// needs.
type RoomTypeAvailability interface {
	LockByNamesTx(ctx context.Context, q repository.DBTX, names []string) ([]model.RoomType, error)
	AvailabilityTx(ctx context.Context, q repository.DBTX, start, end time.Time) (map[string]model.Availability, error)
	Availability(ctx context.Context, start, end time.Time) (map[string]model.Availability, error)
}

// ReservationStore persists reservations.  *repository.ReservationRepo
// implements it.
type ReservationStore interface {
	CreateTx(ctx context.Context, q repository.DBTX, res *model.Reservation) error
	CreateLinesTx(ctx context.Context, q repository.DBTX, reservationID uuid.UUID, lines []model.RoomTypeLine) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	LockTx(ctx context.Context, q repository.DBTX, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus, actor uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID, actor uuid.UUID) error
	ReplaceRoomsTx(ctx context.Context, q repository.DBTX, id uuid.UUID, roomIDs []uuid.UUID) error
	TouchTx(ctx context.Context, q repository.DBTX, id uuid.UUID, actor uuid.UUID) error
}

// ReservationPayments lists the payments booked against a reservation.
type ReservationPayments interface {
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]model.Payment, error)
}

// RoomCounter tells how many of the given room ids exist.
type RoomCounter interface {
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
}

// PaymentDeriver creates the payment implied by a reservation's plan.
type PaymentDeriver interface {
	DeriveReservationPayment(ctx context.Context, reservationID uuid.UUID, plan model.PaymentPlan, cost decimal.Decimal) error
}

// EventPublisher announces committed reservations.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, evt queue.ReservationCreatedEvent) error
}

// CreateReservationInput is a validated booking request.  Dates are
// calendar dates with StartDate before EndDate.
type CreateReservationInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	GuestsCount int
	StartDate   time.Time
	EndDate     time.Time
	PaymentPlan model.PaymentPlan
	Rooms       []RoomRequest
}

// ReservationDetails is a reservation with its payments and the amounts
// derived from them.
type ReservationDetails struct {
	Reservation     model.Reservation
	Payments        []model.Payment
	ReservationCost decimal.Decimal
	PayedAmount     decimal.Decimal
	PendingAmount   decimal.Decimal
}

// ListReservationsInput filters and orders a reservation listing.  From
// and To select stays overlapping [From, To).
type ListReservationsInput struct {
	Status *model.ReservationStatus
	From   *time.Time
	To     *time.Time
	SortBy string
	Desc   bool
	PageRequest
}

// ReservationService owns the reservation aggregate.
type ReservationService struct {
	tx           TxRunner
	roomTypes    RoomTypeAvailability
	reservations ReservationStore
	payments     ReservationPayments
	rooms        RoomCounter
	deriver      PaymentDeriver
	publisher    EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewReservationService(tx TxRunner, roomTypes RoomTypeAvailability, reservations ReservationStore,
	payments ReservationPayments, rooms RoomCounter, deriver PaymentDeriver, publisher EventPublisher,
	logger *zap.Logger) *ReservationService {
	return &ReservationService{
		tx:           tx,
		roomTypes:    roomTypes,
		reservations: reservations,
		payments:     payments,
		rooms:        rooms,
		deriver:      deriver,
		publisher:    publisher,
		logger:       logger.Named("reservations"),
		now:          time.Now,
	}
}

// Availability returns the per-room-type availability of [start, end).
func (s *ReservationService) Availability(ctx context.Context, start, end time.Time) (map[string]model.Availability, error) {
	return s.roomTypes.Availability(ctx, utils.TruncateDay(start), utils.TruncateDay(end))
}

// Create admits and persists a reservation on behalf of actor and returns
// its id.
//
// The requested room-type rows are locked first, then availability is read
// inside the same transaction, so two concurrent bookings for the same type
// cannot both pass admission.  The reservation and its lines commit
// together or not at all.  The payment is derived after the commit; a
// derivation failure is logged and repaired by the reservation.created
// consumer, it never undoes the reservation.
func (s *ReservationService) Create(ctx context.Context, actor uuid.UUID, in CreateReservationInput) (uuid.UUID, error) {
	if !in.PaymentPlan.Valid() {
		return uuid.Nil, &InvalidPaymentPlanError{Plan: string(in.PaymentPlan)}
	}
	reqs := MergeRoomRequests(in.Rooms)
	start, end := utils.TruncateDay(in.StartDate), utils.TruncateDay(in.EndDate)
	now := s.now().UTC()

	res := &model.Reservation{
		Entity:      model.NewEntity(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		GuestsCount: in.GuestsCount,
		Status:      model.ReservationRequest,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		CreatedBy:   &actor,
		UpdatedAt:   now,
		UpdatedBy:   &actor,
	}

	err := s.tx.InTx(ctx, admissionTx, func(tx *sql.Tx) error {
		names := make([]string, 0, len(reqs))
		for _, r := range reqs {
			names = append(names, r.RoomType)
		}
		sort.Strings(names)
		locked, err := s.roomTypes.LockByNamesTx(ctx, tx, names)
		if err != nil {
			return fmt.Errorf("lock room types: %w", err)
		}
		byName := make(map[string]model.RoomType, len(locked))
		for _, rt := range locked {
			byName[rt.Name] = rt
		}

		avail, err := s.roomTypes.AvailabilityTx(ctx, tx, start, end)
		if err != nil {
			return fmt.Errorf("availability: %w", err)
		}
		if err := CheckAdmission(avail, reqs); err != nil {
			return err
		}

		lines := make([]model.RoomTypeLine, 0, len(reqs))
		costLines := make([]CostLine, 0, len(reqs))
		for _, r := range reqs {
			rt, ok := byName[r.RoomType]
			if !ok {
				return &RoomTypeNotFoundError{Name: r.RoomType}
			}
			lines = append(lines, model.RoomTypeLine{ReservationID: res.ID, RoomTypeID: rt.ID, RoomTypeName: rt.Name, RoomsCount: r.Count})
			costLines = append(costLines, CostLine{PricePerNight: rt.BasePricePerNight, Count: r.Count})
		}
		res.AccommodationCost = AccommodationCost(utils.DaysBetween(start, end), costLines)
		res.Lines = lines

		if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		if err := s.reservations.CreateLinesTx(ctx, tx, res.ID, lines); err != nil {
			return fmt.Errorf("insert reservation lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("actor", actor.String()),
		zap.Int("lines", len(res.Lines)),
		zap.String("accommodation_cost", res.AccommodationCost.StringFixed(2)))

	s.afterCommit(ctx, res, in.PaymentPlan)
	return res.ID, nil
}

// afterCommit derives the payment and publishes the reconciliation event.
// Both run detached from the request's cancellation: the reservation is
// already committed and the client is owed its id.
func (s *ReservationService) afterCommit(ctx context.Context, res *model.Reservation, plan model.PaymentPlan) {
	bg := context.WithoutCancel(ctx)
	log := s.logger.With(zap.String("reservation_id", res.ID.String()))

	dctx, cancel := context.WithTimeout(bg, 5*time.Second)
	err := s.deriver.DeriveReservationPayment(dctx, res.ID, plan, res.AccommodationCost)
	cancel()
	if err != nil {
		log.Error("payment derivation failed, left to reconciliation", zap.Error(err))
	}

	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(bg, 3*time.Second)
	defer cancel()
	evt := queue.ReservationCreatedEvent{
		ReservationID:     res.ID,
		PaymentPlan:       plan,
		AccommodationCost: res.AccommodationCost,
		StartDate:         res.StartDate.Format(utils.DateLayout),
		EndDate:           res.EndDate.Format(utils.DateLayout),
		CreatedAt:         res.CreatedAt.Format(time.RFC3339),
	}
	if res.CreatedBy != nil {
		evt.CreatedBy = *res.CreatedBy
	}
	if err := s.publisher.PublishReservationCreated(pctx, evt); err != nil {
		log.Warn("publish reservation.created failed", zap.Error(err))
	}
}

// Get returns a reservation with its payments.  ReservationCost is the
// accommodation cost plus every accepted or pending payment; PayedAmount
// and PendingAmount split those payments by status.
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*ReservationDetails, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	payments, err := s.payments.ListByReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &ReservationDetails{
		Reservation:   *res,
		Payments:      payments,
		PayedAmount:   decimal.Zero,
		PendingAmount: decimal.Zero,
	}
	for _, p := range payments {
		switch p.Status {
		case model.PaymentAccepted:
			d.PayedAmount = d.PayedAmount.Add(p.Amount)
		case model.PaymentPending:
			d.PendingAmount = d.PendingAmount.Add(p.Amount)
		}
	}
	d.ReservationCost = res.AccommodationCost.Add(d.PayedAmount).Add(d.PendingAmount)
	return d, nil
}

// List returns one page of live reservations.
func (s *ReservationService) List(ctx context.Context, in ListReservationsInput) (Page[model.Reservation], error) {
	req := in.PageRequest.normalize()
	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = "startDate"
	}
	items, total, err := s.reservations.List(ctx, repository.ReservationFilter{
		Status: in.Status,
		From:   in.From,
		To:     in.To,
		SortBy: sortBy,
		Desc:   in.Desc,
		Page:   req.Page,
		Size:   req.Size,
	})
	if err != nil {
		return Page[model.Reservation]{}, err
	}
	return newPage(items, req, total)
}

// UpdateStatus moves a reservation to status.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor, id uuid.UUID, status model.ReservationStatus) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if err := s.reservations.UpdateStatus(ctx, id, status, actor); err != nil {
		return err
	}
	s.logger.Info("reservation status changed",
		zap.String("reservation_id", id.String()), zap.String("status", string(status)), zap.String("actor", actor.String()))
	return nil
}

// Delete soft-deletes a reservation.  Its rooms become available again.
func (s *ReservationService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if err := s.reservations.SoftDelete(ctx, id, actor); err != nil {
		return err
	}
	s.logger.Info("reservation deleted", zap.String("reservation_id", id.String()), zap.String("actor", actor.String()))
	return nil
}

// AssignRooms replaces the concrete rooms assigned to a reservation.
func (s *ReservationService) AssignRooms(ctx context.Context, actor, id uuid.UUID, roomIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(roomIDs))
	unique := make([]uuid.UUID, 0, len(roomIDs))
	for _, rid := range roomIDs {
		if !seen[rid] {
			seen[rid] = true
			unique = append(unique, rid)
		}
	}
	n, err := s.rooms.CountExisting(ctx, unique)
	if err != nil {
		return err
	}
	if n != len(unique) {
		return ErrRoomNotFound
	}
	return s.tx.InTx(ctx, nil, func(tx *sql.Tx) error {
		if err := s.reservations.LockTx(ctx, tx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if err := s.reservations.ReplaceRoomsTx(ctx, tx, id, unique); err != nil {
			return err
		}
		return s.reservations.TouchTx(ctx, tx, id, actor)
	})
}

func (s *ReservationService) mustExist(ctx context.Context, id uuid.UUID) error {
	ok, err := s.reservations.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReservationNotFound
	}
	return nil
}
