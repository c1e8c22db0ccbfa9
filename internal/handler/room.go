package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

// Rooms is implemented by *service.RoomService.
type Rooms interface {
	Create(ctx context.Context, actor uuid.UUID, in service.RoomInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, in service.RoomInput) error
	Get(ctx context.Context, id uuid.UUID) (*model.Room, error)
	List(ctx context.Context, in service.ListRoomsInput) (service.Page[model.Room], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RoomHandler struct {
	svc    Rooms
	logger *zap.Logger
}

func NewRoomHandler(svc Rooms, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{svc: svc, logger: logger.Named("rooms")}
}

type roomReq struct {
	RoomNumber   string   `json:"roomNumber" validate:"required,max=10"`
	RoomTypeName string   `json:"roomType" validate:"required,max=50"`
	BedTypes     []string `json:"bedTypes" validate:"required,min=1"`
	Status       string   `json:"roomStatus"`
}

func (r roomReq) toInput() (service.RoomInput, error) {
	beds := make([]model.BedType, 0, len(r.BedTypes))
	for _, raw := range r.BedTypes {
		b := model.BedType(strings.ToUpper(strings.TrimSpace(raw)))
		if !b.Valid() {
			return service.RoomInput{}, newValidationError("bedTypes", "unknown bed type "+raw)
		}
		beds = append(beds, b)
	}
	status := model.RoomAvailable
	if r.Status != "" {
		st, err := model.ParseRoomStatus(r.Status)
		if err != nil {
			return service.RoomInput{}, newValidationError("roomStatus", "unknown room status")
		}
		status = st
	}
	return service.RoomInput{
		RoomNumber:   strings.TrimSpace(r.RoomNumber),
		RoomTypeName: strings.TrimSpace(r.RoomTypeName),
		BedTypes:     beds,
		Status:       status,
	}, nil
}

func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
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
	c.Response().Header().Set(echo.HeaderLocation, "/v1/rooms/"+id.String())
	return c.JSON(http.StatusCreated, idResp{ID: id})
}

func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req roomReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.Update(ctx, id, in); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	room, err := h.svc.Get(ctx, id)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, room)
}

// List: GET /v1/rooms?roomTypeId&roomStatus&page&size
func (h *RoomHandler) List(c echo.Context) error {
	pr, err := pageRequest(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	in := service.ListRoomsInput{PageRequest: pr}
	if raw := c.QueryParam("roomTypeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, h.logger, newValidationError("roomTypeId", "must be a UUID"))
		}
		in.RoomTypeID = &id
	}
	if raw := c.QueryParam("roomStatus"); raw != "" {
		st, err := model.ParseRoomStatus(raw)
		if err != nil {
			return fail(c, h.logger, newValidationError("roomStatus", "unknown room status"))
		}
		in.Status = &st
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	page, err := h.svc.List(ctx, in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
