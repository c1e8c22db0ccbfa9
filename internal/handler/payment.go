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

// Payments is implemented by *service.PaymentService.
type Payments interface {
	Create(ctx context.Context, in service.CreatePaymentInput) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Menus() service.PaymentMenus
}

type PaymentHandler struct {
	svc    Payments
	logger *zap.Logger
}

func NewPaymentHandler(svc Payments, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger.Named("payments")}
}

type createPaymentReq struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"paymentType" validate:"required"`
	Reason        string          `json:"reason" validate:"required"`
	Status        string          `json:"status"`
	Notes         *string         `json:"notes" validate:"omitempty,max=500"`
	ReservationID uuid.UUID       `json:"reservationId" validate:"required"`
	RoomID        *uuid.UUID      `json:"roomId"`
}

func (r createPaymentReq) toInput() (service.CreatePaymentInput, error) {
	if !r.Amount.IsPositive() {
		return service.CreatePaymentInput{}, newValidationError("amount", "must be greater than 0")
	}
	typ := model.PaymentType(strings.ToUpper(strings.TrimSpace(r.PaymentType)))
	if !typ.Valid() {
		return service.CreatePaymentInput{}, newValidationError("paymentType", "unknown payment type")
	}
	reason := model.PaymentReason(strings.ToUpper(strings.TrimSpace(r.Reason)))
	if !reason.Valid() {
		return service.CreatePaymentInput{}, newValidationError("reason", "unknown payment reason")
	}
	status := model.PaymentStatus(strings.ToUpper(strings.TrimSpace(r.Status)))
	if status != "" && !status.Valid() {
		return service.CreatePaymentInput{}, newValidationError("status", "unknown payment status")
	}
	return service.CreatePaymentInput{
		Amount:        r.Amount,
		Type:          typ,
		Reason:        reason,
		Status:        status,
		Notes:         r.Notes,
		ReservationID: r.ReservationID,
		RoomID:        r.RoomID,
	}, nil
}

func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.svc.Create(ctx, in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/payments/"+id.String())
	return c.JSON(http.StatusCreated, idResp{ID: id})
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	p, err := h.svc.Get(ctx, id)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Menus lists payment types, reasons and statuses.
func (h *PaymentHandler) Menus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Menus())
}
