package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/service"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// Auth is implemented by *service.AuthService.
type Auth interface {
	Login(ctx context.Context, username, password string) (*service.Session, error)
	Refresh(ctx context.Context, raw string) (*service.Session, error)
	Logout(ctx context.Context, userID uuid.UUID, raw string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	svc       Auth
	users     Users
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(svc Auth, users Users, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, users: users, jwtSecret: jwtSecret, logger: logger.Named("auth")}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func sessionResp(s *service.Session) authResp {
	return authResp{
		User:    userPart{ID: s.User.ID, Username: s.User.Username, Roles: s.User.RoleNames()},
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
	}
}

// Login: verify credentials and return a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	s, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, h.logger, err)
	}
	h.logger.Info("login", zap.String("user_id", s.User.ID.String()))
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Refresh: revoke the presented refresh token and issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	s, err := h.svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Logout revokes the refresh token in the body.  Without one, a valid
// bearer token revokes every session of its user.  The route is public so
// clients holding only a refresh token can still log out.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid := uuid.Nil
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		if p, err := utils.ParseAccessToken(h.jwtSecret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			uid = p.UserID
		}
	}
	var req refreshReq
	_ = c.Bind(&req)

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.Logout(ctx, uid, req.RefreshToken); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type meResp struct {
	model.User
	RoleNames []string `json:"roleNames"`
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.users.Get(ctx, actor(c))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meResp{User: *u, RoleNames: u.RoleNames()})
}
