package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// UserRepo mirrors the 'users' table and its role links.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, password_hash, email, first_name, last_name, position, is_enabled, created_at, created_by, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u         model.User
		createdBy uuid.NullUUID
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName,
		&u.Position, &u.Enabled, &u.CreatedAt, &createdBy, &lastLogin)
	if err != nil {
		return u, err
	}
	if createdBy.Valid {
		id := createdBy.UUID
		u.CreatedBy = &id
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// CreateTx inserts the user and links its roles.  Username or email
// collisions yield ErrDuplicate; callers tell them apart with
// ExistsUsername.
func (r *UserRepo) CreateTx(ctx context.Context, q DBTX, u *model.User) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, first_name, last_name, position, is_enabled, created_at, created_by)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.Email, u.FirstName, u.LastName, u.Position, u.Enabled, u.CreatedAt, u.CreatedBy)
	if err != nil {
		return translate(err)
	}
	if len(u.Roles) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO users_roles (user_id, role_id) VALUES `)
	args := make([]any, 0, len(u.Roles)*2)
	for i, role := range u.Roles {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?)")
		args = append(args, u.ID, role.ID)
	}
	_, err = q.ExecContext(ctx, sb.String(), args...)
	return translate(err)
}

// ExistsUsername reports whether the username is taken.
func (r *UserRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username=?", strings.TrimSpace(username)).Scan(&n)
	return n > 0, err
}

// ExistsEmail reports whether the email is taken.
func (r *UserRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email=?", strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	return n > 0, err
}

// GetByUsername fetches a user with roles by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
	if err != nil {
		return nil, translate(err)
	}
	if u.Roles, err = r.roles(ctx, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user with roles by id.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, translate(err)
	}
	if u.Roles, err = r.roles(ctx, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) roles(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ro.id, ro.name FROM roles ro JOIN users_roles ur ON ur.role_id = ro.id WHERE ur.user_id=? ORDER BY ro.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// List returns one page of users ordered by username and the total count.
// Roles are loaded per user; pages are small.
func (r *UserRepo) List(ctx context.Context, page, size int) ([]model.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	offset, ok := pageOffset(page, size, total)
	if !ok {
		return []model.User{}, total, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username LIMIT ? OFFSET ?", size, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]model.User, 0, size)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()
	for i := range out {
		if out[i].Roles, err = r.roles(ctx, out[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// SetEnabled toggles the account flag.  ErrNotFound when the user is unknown.
func (r *UserRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	var one int
	if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&one); err != nil {
		return translate(err)
	}
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_enabled=? WHERE id=?", enabled, id)
	return err
}

// UpdatePassword stores a new bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// TouchLastLogin records a successful login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login_at=? WHERE id=?", at, id)
	return err
}
