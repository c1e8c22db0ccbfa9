package model

import "github.com/google/uuid"

// Entity carries the identity shared by every UUID-keyed row.  Domain
// types embed it instead of repeating the ID field.
type Entity struct {
	ID uuid.UUID `json:"id"`
}

// NewEntity returns an Entity with a freshly generated random ID.
func NewEntity() Entity { return Entity{ID: uuid.New()} }
