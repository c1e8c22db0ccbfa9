package service

import (
	"context"
	"database/sql"
)

// TxRunner runs fn inside one database transaction, committing when fn
// returns nil and rolling back otherwise.  *database.TxRunner implements it.
type TxRunner interface {
	InTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error
}

// admissionTx is the isolation of the reservation admission transaction.
// Together with the room-type row locks it keeps the availability read and
// the inserts of one reservation atomic with respect to other admissions.
var admissionTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
