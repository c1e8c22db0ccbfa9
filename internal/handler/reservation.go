package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/service"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// Reservations is implemented by *service.ReservationService.
type Reservations interface {
	Availability(ctx context.Context, start, end time.Time) (map[string]model.Availability, error)
	Create(ctx context.Context, actor uuid.UUID, in service.CreateReservationInput) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*service.ReservationDetails, error)
	List(ctx context.Context, in service.ListReservationsInput) (service.Page[model.Reservation], error)
	UpdateStatus(ctx context.Context, actor, id uuid.UUID, status model.ReservationStatus) error
	Delete(ctx context.Context, actor, id uuid.UUID) error
	AssignRooms(ctx context.Context, actor, id uuid.UUID, roomIDs []uuid.UUID) error
}

type ReservationHandler struct {
	svc    Reservations
	logger *zap.Logger
}

func NewReservationHandler(svc Reservations, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{svc: svc, logger: logger.Named("reservations")}
}

// ----- DTOs -----

type reservationRoomReq struct {
	RoomTypeName string `json:"roomTypeName" validate:"required,max=50"`
	RoomsCount   int    `json:"roomsCount" validate:"min=1"`
}

type createReservationReq struct {
	FirstName   string               `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string               `json:"lastName" validate:"required,min=2,max=50"`
	Email       string               `json:"email" validate:"required,email,max=255"`
	Phone       string               `json:"phone" validate:"required,max=30"`
	GuestsCount int                  `json:"guestsCount" validate:"min=1"`
	StartDate   string               `json:"startDate" validate:"required,date"`
	EndDate     string               `json:"endDate" validate:"required,date"`
	PaymentPlan string               `json:"reservationPaymentType" validate:"required"`
	Rooms       []reservationRoomReq `json:"rooms" validate:"required,min=1,dive"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

type assignRoomsReq struct {
	RoomIDs []uuid.UUID `json:"roomIds" validate:"required,min=1"`
}

type reservationView struct {
	model.Reservation
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Nights    int    `json:"nights"`
}

func viewReservation(r model.Reservation) reservationView {
	return reservationView{
		Reservation: r,
		StartDate:   r.StartDate.Format(utils.DateLayout),
		EndDate:     r.EndDate.Format(utils.DateLayout),
		Nights:      r.Nights(),
	}
}

type reservationDetailsView struct {
	reservationView
	Payments        []model.Payment `json:"payments"`
	ReservationCost decimal.Decimal `json:"reservationCost"`
	PayedAmount     decimal.Decimal `json:"payedAmount"`
	PendingAmount   decimal.Decimal `json:"pendingAmount"`
}

// toInput checks what the validator cannot: date order and the plan enum.
func (r createReservationReq) toInput() (service.CreateReservationInput, error) {
	start, _ := utils.ParseDate(r.StartDate)
	end, _ := utils.ParseDate(r.EndDate)
	if !start.Before(end) {
		return service.CreateReservationInput{}, newValidationError("endDate", "must be after startDate")
	}
	if start.Before(utils.Today()) {
		return service.CreateReservationInput{}, newValidationError("startDate", "must not be in the past")
	}
	plan := model.PaymentPlan(strings.ToUpper(strings.TrimSpace(r.PaymentPlan)))
	if !plan.Valid() {
		return service.CreateReservationInput{}, &service.InvalidPaymentPlanError{Plan: r.PaymentPlan}
	}
	rooms := make([]service.RoomRequest, 0, len(r.Rooms))
	for _, rr := range r.Rooms {
		rooms = append(rooms, service.RoomRequest{RoomType: strings.TrimSpace(rr.RoomTypeName), Count: rr.RoomsCount})
	}
	return service.CreateReservationInput{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:       strings.TrimSpace(r.Phone),
		GuestsCount: r.GuestsCount,
		StartDate:   start,
		EndDate:     end,
		PaymentPlan: plan,
		Rooms:       rooms,
	}, nil
}

// Create admits a reservation and answers 201 with its id.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, h.logger, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.svc.Create(ctx, actor(c), in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/reservations/"+id.String())
	return c.JSON(http.StatusCreated, idResp{ID: id})
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	d, err := h.svc.Get(ctx, id)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, reservationDetailsView{
		reservationView: viewReservation(d.Reservation),
		Payments:        d.Payments,
		ReservationCost: d.ReservationCost,
		PayedAmount:     d.PayedAmount,
		PendingAmount:   d.PendingAmount,
	})
}

// List: GET /v1/reservations?status&fromDate&toDate&sortBy&direction&page&size
func (h *ReservationHandler) List(c echo.Context) error {
	in, err := listReservationsInput(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	page, err := h.svc.List(ctx, in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, mapPage(page, viewReservation))
}

func listReservationsInput(c echo.Context) (service.ListReservationsInput, error) {
	var in service.ListReservationsInput
	pr, err := pageRequest(c)
	if err != nil {
		return in, err
	}
	in.PageRequest = pr

	if raw := c.QueryParam("status"); raw != "" {
		st, err := model.ParseReservationStatus(raw)
		if err != nil {
			return in, newValidationError("status", "unknown reservation status")
		}
		in.Status = &st
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"fromDate", &in.From}, {"toDate", &in.To}} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		t, err := utils.ParseDate(raw)
		if err != nil {
			return in, newValidationError(p.name, "must be a date formatted "+utils.DateLayout)
		}
		*p.dst = &t
	}
	if in.From != nil && in.To != nil && !in.From.Before(*in.To) {
		return in, newValidationError("toDate", "must be after fromDate")
	}

	if raw := c.QueryParam("sortBy"); raw != "" {
		if !repository.IsReservationSortField(raw) {
			return in, newValidationError("sortBy", "unsupported sort field")
		}
		in.SortBy = raw
	}
	switch strings.ToLower(c.QueryParam("direction")) {
	case "", "asc":
	case "desc":
		in.Desc = true
	default:
		return in, newValidationError("direction", "must be asc or desc")
	}
	return in, nil
}

// UpdateStatus: PATCH /v1/reservations/:id/status
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req statusReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	st, err := model.ParseReservationStatus(req.Status)
	if err != nil {
		return fail(c, h.logger, newValidationError("status", "unknown reservation status"))
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.UpdateStatus(ctx, actor(c), id, st); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignRooms: PUT /v1/reservations/:id/rooms
func (h *ReservationHandler) AssignRooms(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req assignRoomsReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.AssignRooms(ctx, actor(c), id, req.RoomIDs); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, actor(c), id); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type availabilityView struct {
	FromDate  string                        `json:"fromDate"`
	ToDate    string                        `json:"toDate"`
	RoomTypes map[string]model.Availability `json:"roomTypes"`
}

// Dashboard: availability per room type from today to one month ahead.
func (h *ReservationHandler) Dashboard(c echo.Context) error {
	start := utils.Today()
	return h.availability(c, start, start.AddDate(0, 1, 0))
}

// Availability: GET /v1/room-types/availability?fromDate&toDate
func (h *ReservationHandler) Availability(c echo.Context) error {
	start, err := utils.ParseDate(c.QueryParam("fromDate"))
	if err != nil {
		return fail(c, h.logger, newValidationError("fromDate", "must be a date formatted "+utils.DateLayout))
	}
	end, err := utils.ParseDate(c.QueryParam("toDate"))
	if err != nil {
		return fail(c, h.logger, newValidationError("toDate", "must be a date formatted "+utils.DateLayout))
	}
	if !start.Before(end) {
		return fail(c, h.logger, newValidationError("toDate", "must be after fromDate"))
	}
	return h.availability(c, start, end)
}

func (h *ReservationHandler) availability(c echo.Context, start, end time.Time) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	avail, err := h.svc.Availability(ctx, start, end)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, availabilityView{
		FromDate:  start.Format(utils.DateLayout),
		ToDate:    end.Format(utils.DateLayout),
		RoomTypes: avail,
	})
}
