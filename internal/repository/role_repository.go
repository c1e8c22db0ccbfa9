package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// RoleRepo reads the seeded staff roles.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// List returns every role ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	return r.query(ctx, "SELECT id, name FROM roles ORDER BY name")
}

// GetByIDs returns the roles among ids that exist.  Callers compare the
// length of the result with the input to detect unknown ids.
func (r *RoleRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Role, error) {
	if len(ids) == 0 {
		return []model.Role{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.query(ctx, "SELECT id, name FROM roles WHERE id IN ("+placeholders(len(ids))+") ORDER BY name", args...)
}

func (r *RoleRepo) query(ctx context.Context, q string, args ...any) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
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
