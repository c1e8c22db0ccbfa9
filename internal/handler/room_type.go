package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

// RoomTypes is implemented by *service.RoomTypeService.
type RoomTypes interface {
	Create(ctx context.Context, actor uuid.UUID, in service.CreateRoomTypeInput) (uuid.UUID, error)
	List(ctx context.Context) ([]model.RoomType, error)
	Preview(ctx context.Context) ([]model.RoomTypePreview, error)
}

type RoomTypeHandler struct {
	svc    RoomTypes
	logger *zap.Logger
}

func NewRoomTypeHandler(svc RoomTypes, logger *zap.Logger) *RoomTypeHandler {
	return &RoomTypeHandler{svc: svc, logger: logger.Named("room-types")}
}

type createRoomTypeReq struct {
	Name              string          `json:"name" validate:"required,max=50"`
	BasePricePerNight decimal.Decimal `json:"basePricePerNight"`
	Capacity          int             `json:"capacity" validate:"min=1"`
	Description       *string         `json:"description" validate:"omitempty,max=1000"`
}

func (h *RoomTypeHandler) Create(c echo.Context) error {
	var req createRoomTypeReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	if !req.BasePricePerNight.IsPositive() {
		return fail(c, h.logger, newValidationError("basePricePerNight", "must be greater than 0"))
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.svc.Create(ctx, actor(c), service.CreateRoomTypeInput{
		Name:              strings.TrimSpace(req.Name),
		BasePricePerNight: req.BasePricePerNight,
		Capacity:          req.Capacity,
		Description:       req.Description,
	})
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, idResp{ID: id})
}

func (h *RoomTypeHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	all, err := h.svc.List(ctx)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, all)
}

func (h *RoomTypeHandler) Preview(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	all, err := h.svc.Preview(ctx)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, all)
}
