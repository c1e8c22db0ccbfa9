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

// Users is implemented by *service.UserService.
type Users interface {
	Create(ctx context.Context, actor uuid.UUID, in service.CreateUserInput) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, pr service.PageRequest) (service.Page[model.User], error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	ChangePassword(ctx context.Context, id uuid.UUID, in service.ChangePasswordInput) error
	Roles(ctx context.Context) ([]model.Role, error)
}

// UserHandler serves staff account management, the caller's own profile
// and the role list.
type UserHandler struct {
	svc    Users
	logger *zap.Logger
}

func NewUserHandler(svc Users, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger.Named("users")}
}

type createUserReq struct {
	Username  string      `json:"username" validate:"required,min=3,max=20"`
	Password  string      `json:"password" validate:"required,min=8,max=72"`
	Email     string      `json:"email" validate:"required,email,max=255"`
	FirstName string      `json:"firstName" validate:"required,max=50"`
	LastName  string      `json:"lastName" validate:"required,max=50"`
	Position  string      `json:"position" validate:"max=50"`
	RoleIDs   []uuid.UUID `json:"roleIds" validate:"required,min=1"`
}

type changePasswordReq struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.svc.Create(ctx, actor(c), service.CreateUserInput{
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Position:  strings.TrimSpace(req.Position),
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		return fail(c, h.logger, err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/users/"+id.String())
	return c.JSON(http.StatusCreated, idResp{ID: id})
}

func (h *UserHandler) List(c echo.Context) error {
	pr, err := pageRequest(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	page, err := h.svc.List(ctx, pr)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return h.writeUser(c, id)
}

// Activate: POST /v1/users/:id/activate
func (h *UserHandler) Activate(c echo.Context) error {
	return h.setEnabled(c, true)
}

// Deactivate: DELETE /v1/users/:id.  Accounts are disabled, never removed.
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.setEnabled(c, false)
}

func (h *UserHandler) setEnabled(c echo.Context, enabled bool) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if enabled {
		err = h.svc.Activate(ctx, id)
	} else {
		err = h.svc.Deactivate(ctx, id)
	}
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the caller's own account.
func (h *UserHandler) Profile(c echo.Context) error {
	return h.writeUser(c, actor(c))
}

// ChangePassword: POST /v1/profile/password
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	err := h.svc.ChangePassword(ctx, actor(c), service.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) Roles(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	roles, err := h.svc.Roles(ctx)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, roles)
}

func (h *UserHandler) writeUser(c echo.Context, id uuid.UUID) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.svc.Get(ctx, id)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, u)
}
