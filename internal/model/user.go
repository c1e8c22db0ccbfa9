package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account.  PasswordHash never leaves the service.
type User struct {
	Entity
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Position     string     `json:"position"`
	Enabled      bool       `json:"enabled"`
	Roles        []Role     `json:"roles"`
	CreatedAt    time.Time  `json:"createdDateTime"`
	CreatedBy    *uuid.UUID `json:"createdBy,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginDateTime,omitempty"`
}

// RoleNames flattens Roles for token claims.
func (u User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}
	return out
}

type Role struct {
	Entity
	Name string `json:"name"`
}
