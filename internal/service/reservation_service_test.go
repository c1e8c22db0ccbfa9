package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

type reservationFixture struct {
	tx           *fakeTx
	roomTypes    *fakeRoomTypes
	reservations *fakeReservations
	payments     *fakePayments
	rooms        *fakeRooms
	deriver      *fakeDeriver
	publisher    *fakePublisher
	svc          *ReservationService
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		tx: &fakeTx{},
		roomTypes: &fakeRoomTypes{
			types: map[string]model.RoomType{
				"STANDARD_DOUBLE_ROOM": {Entity: model.NewEntity(), Name: "STANDARD_DOUBLE_ROOM", BasePricePerNight: d("100.00"), Capacity: 2},
				"SINGLE_ROOM":          {Entity: model.NewEntity(), Name: "SINGLE_ROOM", BasePricePerNight: d("50.00"), Capacity: 1},
			},
			avail: map[string]model.Availability{
				"STANDARD_DOUBLE_ROOM": {TotalRooms: 1, BookedRooms: 0, AvailableRooms: 1},
				"SINGLE_ROOM":          {TotalRooms: 4, BookedRooms: 1, AvailableRooms: 3},
			},
		},
		reservations: newFakeReservations(),
		payments:     newFakePayments(),
		rooms:        &fakeRooms{existing: map[uuid.UUID]bool{}},
		deriver:      &fakeDeriver{},
		publisher:    &fakePublisher{},
	}
	f.svc = NewReservationService(f.tx, f.roomTypes, f.reservations, f.payments, f.rooms, f.deriver, f.publisher, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

func bookingInput(plan model.PaymentPlan, rooms ...RoomRequest) CreateReservationInput {
	return CreateReservationInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+44 20 0000",
		GuestsCount: 2, StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 4),
		PaymentPlan: plan, Rooms: rooms,
	}
}

func TestCreate_ScenarioA(t *testing.T) {
	f := newReservationFixture()
	actor := uuid.New()

	id, err := f.svc.Create(context.Background(), actor, bookingInput(model.PlanFullPrepay, RoomRequest{"STANDARD_DOUBLE_ROOM", 1}))
	require.NoError(t, err)
	require.Len(t, f.reservations.created, 1)

	res := f.reservations.created[0]
	assert.Equal(t, id, res.ID)
	assert.Equal(t, "300.00", res.AccommodationCost.StringFixed(2))
	assert.Equal(t, model.ReservationRequest, res.Status)
	require.NotNil(t, res.CreatedBy)
	assert.Equal(t, actor, *res.CreatedBy)
	require.Len(t, f.reservations.lines[id], 1)
	assert.Equal(t, 1, f.reservations.lines[id][0].RoomsCount)
	assert.Equal(t, f.roomTypes.types["STANDARD_DOUBLE_ROOM"].ID, f.reservations.lines[id][0].RoomTypeID)

	require.Len(t, f.tx.opts, 1)
	assert.Equal(t, sql.LevelRepeatableRead, f.tx.opts[0].Isolation)
	assert.Equal(t, []string{"STANDARD_DOUBLE_ROOM"}, f.roomTypes.locked)

	// The only room of the type is now booked for an overlapping window.
	f.roomTypes.avail["STANDARD_DOUBLE_ROOM"] = model.Availability{TotalRooms: 1, BookedRooms: 1, AvailableRooms: 0}
	in := bookingInput(model.PlanFullPrepay, RoomRequest{"STANDARD_DOUBLE_ROOM", 1})
	in.StartDate, in.EndDate = day(2025, 3, 2), day(2025, 3, 5)
	_, err = f.svc.Create(context.Background(), actor, in)
	require.ErrorIs(t, err, ErrInsufficientAvailability)
	var ia *InsufficientAvailabilityError
	require.True(t, errors.As(err, &ia))
	assert.Equal(t, "STANDARD_DOUBLE_ROOM", ia.RoomType)
	assert.Len(t, f.reservations.created, 1)
	assert.Len(t, f.deriver.calls, 1)
}

func TestCreate_DerivesAndPublishesAfterCommit(t *testing.T) {
	f := newReservationFixture()
	actor := uuid.New()

	id, err := f.svc.Create(context.Background(), actor, bookingInput(model.PlanReservationDeposit,
		RoomRequest{"SINGLE_ROOM", 1}, RoomRequest{"STANDARD_DOUBLE_ROOM", 1}))
	require.NoError(t, err)

	require.Len(t, f.deriver.calls, 1)
	call := f.deriver.calls[0]
	assert.Equal(t, id, call.ReservationID)
	assert.Equal(t, model.PlanReservationDeposit, call.Plan)
	assert.Equal(t, "450.00", call.Cost.StringFixed(2))

	require.Len(t, f.publisher.events, 1)
	evt := f.publisher.events[0]
	assert.Equal(t, id, evt.ReservationID)
	assert.Equal(t, "2025-03-01", evt.StartDate)
	assert.Equal(t, "2025-03-04", evt.EndDate)
	assert.Equal(t, actor, evt.CreatedBy)
	assert.Len(t, f.reservations.lines[id], 2)
}

func TestCreate_DerivationFailureKeepsReservation(t *testing.T) {
	f := newReservationFixture()
	f.deriver.err = errors.New("payments table locked")
	f.publisher.err = errors.New("broker down")

	id, err := f.svc.Create(context.Background(), uuid.New(), bookingInput(model.PlanPayAtProperty, RoomRequest{"SINGLE_ROOM", 2}))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Len(t, f.reservations.created, 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestCreate_MergesDuplicateRoomTypes(t *testing.T) {
	f := newReservationFixture()
	id, err := f.svc.Create(context.Background(), uuid.New(), bookingInput(model.PlanFullPrepay,
		RoomRequest{"SINGLE_ROOM", 1}, RoomRequest{"SINGLE_ROOM", 2}))
	require.NoError(t, err)
	require.Len(t, f.reservations.lines[id], 1)
	assert.Equal(t, 3, f.reservations.lines[id][0].RoomsCount)
	assert.Equal(t, "450.00", f.reservations.created[0].AccommodationCost.StringFixed(2))

	_, err = f.svc.Create(context.Background(), uuid.New(), bookingInput(model.PlanFullPrepay,
		RoomRequest{"SINGLE_ROOM", 2}, RoomRequest{"SINGLE_ROOM", 2}))
	assert.ErrorIs(t, err, ErrInsufficientAvailability)
}

func TestCreate_Rejections(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), bookingInput("CRYPTO", RoomRequest{"SINGLE_ROOM", 1}))
	assert.ErrorIs(t, err, ErrInvalidPaymentPlan)
	assert.Zero(t, f.tx.calls)

	_, err = f.svc.Create(context.Background(), uuid.New(), bookingInput(model.PlanFullPrepay, RoomRequest{"PENTHOUSE", 1}))
	var nf *RoomTypeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "PENTHOUSE", nf.Name)

	f.reservations.createErr = errors.New("disk full")
	_, err = f.svc.Create(context.Background(), uuid.New(), bookingInput(model.PlanFullPrepay, RoomRequest{"SINGLE_ROOM", 1}))
	assert.Error(t, err)

	assert.Empty(t, f.reservations.created)
	assert.Empty(t, f.reservations.lines)
	assert.Empty(t, f.deriver.calls)
	assert.Empty(t, f.publisher.events)
}

func TestCreate_LinesFailureAbortsAggregate(t *testing.T) {
	f := newReservationFixture()
	f.reservations.linesErr = errors.New("lock wait timeout")

	id, err := f.svc.Create(context.Background(), uuid.New(), bookingInput(model.PlanFullPrepay, RoomRequest{"SINGLE_ROOM", 1}))
	assert.ErrorIs(t, err, f.reservations.linesErr)
	assert.Equal(t, uuid.Nil, id)
	assert.Equal(t, 1, f.tx.calls)
	assert.Len(t, f.reservations.created, 1, "row written inside the failed transaction")
	assert.Empty(t, f.reservations.lines)
	assert.Empty(t, f.deriver.calls)
	assert.Empty(t, f.publisher.events)
}

func TestGet_ScenarioD(t *testing.T) {
	f := newReservationFixture()
	res := &model.Reservation{Entity: model.NewEntity(), AccommodationCost: d("300.00")}
	f.reservations.byID[res.ID] = res
	for _, p := range []model.Payment{
		{Entity: model.NewEntity(), Amount: d("40.00"), Status: model.PaymentAccepted, ReservationID: res.ID},
		{Entity: model.NewEntity(), Amount: d("10.00"), Status: model.PaymentPending, ReservationID: res.ID},
		{Entity: model.NewEntity(), Amount: d("99.00"), Status: model.PaymentRejected, ReservationID: res.ID},
	} {
		f.payments.byRes[res.ID] = append(f.payments.byRes[res.ID], p)
	}

	got, err := f.svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "350.00", got.ReservationCost.StringFixed(2))
	assert.Equal(t, "40.00", got.PayedAmount.StringFixed(2))
	assert.Equal(t, "10.00", got.PendingAmount.StringFixed(2))
	assert.Len(t, got.Payments, 3)

	_, err = f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestList_ScenarioC(t *testing.T) {
	f := newReservationFixture()
	f.reservations.listTotal = 10

	_, err := f.svc.List(context.Background(), ListReservationsInput{PageRequest: PageRequest{Page: 5, Size: 5}})
	assert.ErrorIs(t, err, ErrPageOutOfBounds)

	page, err := f.svc.List(context.Background(), ListReservationsInput{PageRequest: PageRequest{Page: 1, Size: 5}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "startDate", f.reservations.lastList.SortBy)
	assert.Equal(t, 5, f.reservations.lastList.Size)
}

func TestList_EmptyIsNotOutOfBounds(t *testing.T) {
	f := newReservationFixture()
	page, err := f.svc.List(context.Background(), ListReservationsInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, DefaultPageSize, page.Size)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	f := newReservationFixture()
	res := &model.Reservation{Entity: model.NewEntity()}
	f.reservations.byID[res.ID] = res
	actor := uuid.New()

	require.NoError(t, f.svc.UpdateStatus(context.Background(), actor, res.ID, model.ReservationConfirmed))
	assert.Equal(t, model.ReservationConfirmed, f.reservations.statuses[res.ID])

	require.NoError(t, f.svc.Delete(context.Background(), actor, res.ID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), actor, res.ID), ErrReservationNotFound)
	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), actor, uuid.New(), model.ReservationCanceled), ErrReservationNotFound)
}

func TestAssignRooms(t *testing.T) {
	f := newReservationFixture()
	res := &model.Reservation{Entity: model.NewEntity()}
	f.reservations.byID[res.ID] = res
	r1, r2 := uuid.New(), uuid.New()
	f.rooms.existing[r1] = true

	assert.ErrorIs(t, f.svc.AssignRooms(context.Background(), uuid.New(), res.ID, []uuid.UUID{r1, r2}), ErrRoomNotFound)

	f.rooms.existing[r2] = true
	require.NoError(t, f.svc.AssignRooms(context.Background(), uuid.New(), res.ID, []uuid.UUID{r1, r2, r1}))
	assert.Equal(t, []uuid.UUID{r1, r2}, f.reservations.rooms[res.ID])

	assert.ErrorIs(t, f.svc.AssignRooms(context.Background(), uuid.New(), uuid.New(), []uuid.UUID{r1}), ErrReservationNotFound)
}
