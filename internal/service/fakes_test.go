package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
)

// fakeTx runs fn without a real transaction and records the options.
// Fakes below ignore the DBTX argument.
type fakeTx struct {
	calls int
	opts  []*sql.TxOptions
}

func (f *fakeTx) InTx(_ context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	f.calls++
	f.opts = append(f.opts, opts)
	return fn(nil)
}

type fakeRoomTypes struct {
	types  map[string]model.RoomType
	avail  map[string]model.Availability
	locked []string
	err    error
}

func (f *fakeRoomTypes) LockByNamesTx(_ context.Context, _ repository.DBTX, names []string) ([]model.RoomType, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked = append(f.locked, names...)
	out := make([]model.RoomType, 0, len(names))
	for _, n := range names {
		if rt, ok := f.types[n]; ok {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeRoomTypes) AvailabilityTx(ctx context.Context, _ repository.DBTX, start, end time.Time) (map[string]model.Availability, error) {
	return f.Availability(ctx, start, end)
}

func (f *fakeRoomTypes) Availability(_ context.Context, _, _ time.Time) (map[string]model.Availability, error) {
	out := make(map[string]model.Availability, len(f.avail))
	for k, v := range f.avail {
		out[k] = v
	}
	return out, nil
}

type fakeReservations struct {
	created   []model.Reservation
	lines     map[uuid.UUID][]model.RoomTypeLine
	byID      map[uuid.UUID]*model.Reservation
	listItems []model.Reservation
	listTotal int
	lastList  repository.ReservationFilter
	rooms     map[uuid.UUID][]uuid.UUID
	statuses  map[uuid.UUID]model.ReservationStatus
	deleted   map[uuid.UUID]bool
	createErr error
	linesErr  error
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{
		lines:    map[uuid.UUID][]model.RoomTypeLine{},
		byID:     map[uuid.UUID]*model.Reservation{},
		rooms:    map[uuid.UUID][]uuid.UUID{},
		statuses: map[uuid.UUID]model.ReservationStatus{},
		deleted:  map[uuid.UUID]bool{},
	}
}

func (f *fakeReservations) CreateTx(_ context.Context, _ repository.DBTX, res *model.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *res)
	cp := *res
	f.byID[res.ID] = &cp
	return nil
}

func (f *fakeReservations) CreateLinesTx(_ context.Context, _ repository.DBTX, id uuid.UUID, lines []model.RoomTypeLine) error {
	if f.linesErr != nil {
		return f.linesErr
	}
	f.lines[id] = append(f.lines[id], lines...)
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	if r, ok := f.byID[id]; ok && !f.deleted[id] {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservations) List(_ context.Context, flt repository.ReservationFilter) ([]model.Reservation, int, error) {
	f.lastList = flt
	return f.listItems, f.listTotal, nil
}

func (f *fakeReservations) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.byID[id]
	return ok && !f.deleted[id], nil
}

func (f *fakeReservations) LockTx(ctx context.Context, _ repository.DBTX, id uuid.UUID) error {
	if ok, _ := f.Exists(ctx, id); !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeReservations) UpdateStatus(_ context.Context, id uuid.UUID, status model.ReservationStatus, _ uuid.UUID) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeReservations) SoftDelete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	f.deleted[id] = true
	return nil
}

func (f *fakeReservations) ReplaceRoomsTx(_ context.Context, _ repository.DBTX, id uuid.UUID, roomIDs []uuid.UUID) error {
	f.rooms[id] = roomIDs
	return nil
}

func (f *fakeReservations) TouchTx(context.Context, repository.DBTX, uuid.UUID, uuid.UUID) error { return nil }

type fakePayments struct {
	created []model.Payment
	byRes   map[uuid.UUID][]model.Payment
	byID    map[uuid.UUID]*model.Payment
}

func newFakePayments() *fakePayments {
	return &fakePayments{byRes: map[uuid.UUID][]model.Payment{}, byID: map[uuid.UUID]*model.Payment{}}
}

func (f *fakePayments) Create(ctx context.Context, p *model.Payment) error {
	return f.CreateTx(ctx, nil, p)
}

func (f *fakePayments) CreateTx(_ context.Context, _ repository.DBTX, p *model.Payment) error {
	f.created = append(f.created, *p)
	f.byRes[p.ReservationID] = append(f.byRes[p.ReservationID], *p)
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePayments) GetByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePayments) HasReservationPaymentTx(_ context.Context, _ repository.DBTX, id uuid.UUID, reason model.PaymentReason) (bool, error) {
	for _, p := range f.byRes[id] {
		if p.Reason == reason && p.RoomID == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayments) ListByReservation(_ context.Context, id uuid.UUID) ([]model.Payment, error) {
	return f.byRes[id], nil
}

type fakeRooms struct {
	existing map[uuid.UUID]bool
}

func (f *fakeRooms) CountExisting(_ context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if f.existing[id] {
			n++
		}
	}
	return n, nil
}

type derivation struct {
	ReservationID uuid.UUID
	Plan          model.PaymentPlan
	Cost          decimal.Decimal
}

type fakeDeriver struct {
	calls []derivation
	err   error
}

func (f *fakeDeriver) DeriveReservationPayment(_ context.Context, id uuid.UUID, plan model.PaymentPlan, cost decimal.Decimal) error {
	f.calls = append(f.calls, derivation{id, plan, cost})
	return f.err
}

type fakePublisher struct {
	events []queue.ReservationCreatedEvent
	err    error
}

func (f *fakePublisher) PublishReservationCreated(_ context.Context, evt queue.ReservationCreatedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}
