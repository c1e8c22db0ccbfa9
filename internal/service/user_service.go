package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// UserStore is implemented by *repository.UserRepo.
type UserStore interface {
	CreateTx(ctx context.Context, q repository.DBTX, u *model.User) error
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, page, size int) ([]model.User, int, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RoleStore is implemented by *repository.RoleRepo.
type RoleStore interface {
	List(ctx context.Context) ([]model.Role, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Role, error)
}

type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Position  string
	RoleIDs   []uuid.UUID
}

type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// UserService manages staff accounts, their roles and their own profile.
type UserService struct {
	tx         TxRunner
	users      UserStore
	roles      RoleStore
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

func NewUserService(tx TxRunner, users UserStore, roles RoleStore, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{tx: tx, users: users, roles: roles, bcryptCost: bcryptCost, logger: logger.Named("users"), now: time.Now}
}

// Create adds an enabled staff account with the given roles.  Every role id
// must exist.
func (s *UserService) Create(ctx context.Context, actor uuid.UUID, in CreateUserInput) (uuid.UUID, error) {
	roleIDs := make([]uuid.UUID, 0, len(in.RoleIDs))
	seen := make(map[uuid.UUID]bool, len(in.RoleIDs))
	for _, id := range in.RoleIDs {
		if !seen[id] {
			seen[id] = true
			roleIDs = append(roleIDs, id)
		}
	}
	roles, err := s.roles.GetByIDs(ctx, roleIDs)
	if err != nil {
		return uuid.Nil, err
	}
	if len(roles) != len(roleIDs) || len(roles) == 0 {
		return uuid.Nil, ErrRolesNotFound
	}

	if taken, err := s.users.ExistsUsername(ctx, in.Username); err != nil {
		return uuid.Nil, err
	} else if taken {
		return uuid.Nil, ErrUsernameTaken
	}
	if taken, err := s.users.ExistsEmail(ctx, in.Email); err != nil {
		return uuid.Nil, err
	} else if taken {
		return uuid.Nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return uuid.Nil, err
	}
	u := &model.User{
		Entity:       model.NewEntity(),
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Position:     in.Position,
		Enabled:      true,
		Roles:        roles,
		CreatedAt:    s.now().UTC(),
		CreatedBy:    &actor,
	}
	err = s.tx.InTx(ctx, nil, func(tx *sql.Tx) error { return s.users.CreateTx(ctx, tx, u) })
	if err != nil {
		// Lost a race with a concurrent create of the same username or email.
		if errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, ErrUsernameTaken
		}
		return uuid.Nil, err
	}
	s.logger.Info("user created", zap.String("user_id", u.ID.String()), zap.Strings("roles", u.RoleNames()))
	return u.ID, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// List returns one page of users ordered by username.
func (s *UserService) List(ctx context.Context, pr PageRequest) (Page[model.User], error) {
	req := pr.normalize()
	items, total, err := s.users.List(ctx, req.Page, req.Size)
	if err != nil {
		return Page[model.User]{}, err
	}
	return newPage(items, req, total)
}

func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error   { return s.setEnabled(ctx, id, true) }
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error { return s.setEnabled(ctx, id, false) }

func (s *UserService) setEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	err := s.users.SetEnabled(ctx, id, enabled)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err == nil {
		s.logger.Info("user enabled flag changed", zap.String("user_id", id.String()), zap.Bool("enabled", enabled))
	}
	return err
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, in ChangePasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordsDoNotMatch
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, in.OldPassword) {
		return ErrPasswordsDoNotMatch
	}
	hash, err := utils.HashPassword(in.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// Roles lists the assignable roles.
func (s *UserService) Roles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}
