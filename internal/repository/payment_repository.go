package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// PaymentRepo stores payments recorded against reservations.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, amount, payment_type, reason, status, notes, reservation_id, room_id, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var (
		p      model.Payment
		notes  sql.NullString
		roomID uuid.NullUUID
	)
	err := row.Scan(&p.ID, &p.Amount, &p.Type, &p.Reason, &p.Status, &notes,
		&p.ReservationID, &roomID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if notes.Valid {
		n := notes.String
		p.Notes = &n
	}
	if roomID.Valid {
		id := roomID.UUID
		p.RoomID = &id
	}
	return p, nil
}

// Create inserts a payment on the pool.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	return r.CreateTx(ctx, r.db, p)
}

// CreateTx inserts a payment with q.
func (r *PaymentRepo) CreateTx(ctx context.Context, q DBTX, p *model.Payment) error {
	const stmt = `INSERT INTO payments (id, amount, payment_type, reason, status, notes, reservation_id, room_id, created_at, updated_at)
                  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.ExecContext(ctx, stmt, p.ID, p.Amount, string(p.Type), string(p.Reason), string(p.Status),
		p.Notes, p.ReservationID, p.RoomID, p.CreatedAt, p.UpdatedAt)
	return translate(err)
}

// GetByID returns a payment or ErrNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ? LIMIT 1`, id)
	p, err := scanPayment(row)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListByReservation returns the payments of a reservation, oldest first.
func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE reservation_id = ? ORDER BY created_at, id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HasReservationPaymentTx reports whether the reservation already carries a
// reservation-level payment (no room) with the given reason.
func (r *PaymentRepo) HasReservationPaymentTx(ctx context.Context, q DBTX, reservationID uuid.UUID, reason model.PaymentReason) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE reservation_id = ? AND reason = ? AND room_id IS NULL`,
		reservationID, string(reason)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
