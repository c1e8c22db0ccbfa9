package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// ReservationRepo persists reservations, their room-type lines and their
// room assignments.  Soft-deleted reservations are invisible to every read
// method.  Dates are stored as DATE and read back as UTC midnight.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationFilter narrows and orders a reservation listing.  From and To
// select reservations overlapping [From, To); either may be nil.  SortBy
// must be one of the keys of reservationSortColumns.
type ReservationFilter struct {
	Status    *model.ReservationStatus
	From      *time.Time
	To        *time.Time
	SortBy    string
	Desc      bool
	Page      int
	Size      int
}

// reservationSortColumns whitelists the sortable fields and maps them to
// columns; user input never reaches the ORDER BY clause directly.
var reservationSortColumns = map[string]string{
	"startDate":       "start_date",
	"endDate":         "end_date",
	"createdDateTime": "created_at",
	"lastName":        "last_name",
	"status":          "reservation_status",
}

// IsReservationSortField reports whether field can be used as SortBy.
func IsReservationSortField(field string) bool {
	_, ok := reservationSortColumns[field]
	return ok
}

const reservationColumns = `id, first_name, last_name, email, phone, guests_count, reservation_status,
       accommodation_cost, start_date, end_date, created_at, created_by, updated_at, updated_by`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		res       model.Reservation
		createdBy uuid.NullUUID
		updatedBy uuid.NullUUID
	)
	err := row.Scan(&res.ID, &res.FirstName, &res.LastName, &res.Email, &res.Phone, &res.GuestsCount,
		&res.Status, &res.AccommodationCost, &res.StartDate, &res.EndDate,
		&res.CreatedAt, &createdBy, &res.UpdatedAt, &updatedBy)
	if err != nil {
		return res, err
	}
	if createdBy.Valid {
		id := createdBy.UUID
		res.CreatedBy = &id
	}
	if updatedBy.Valid {
		id := updatedBy.UUID
		res.UpdatedBy = &id
	}
	return res, nil
}

// CreateTx inserts the reservation row within the scope of an existing
// transaction.  The caller must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, q DBTX, res *model.Reservation) error {
	const stmt = `INSERT INTO reservations (id, first_name, last_name, email, phone, guests_count, reservation_status,
                      accommodation_cost, start_date, end_date, is_deleted, created_at, created_by, updated_at, updated_by)
                  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, ?, ?, ?, ?)`
	_, err := q.ExecContext(ctx, stmt, res.ID, res.FirstName, res.LastName, res.Email, res.Phone, res.GuestsCount,
		string(res.Status), res.AccommodationCost, res.StartDate, res.EndDate,
		res.CreatedAt, res.CreatedBy, res.UpdatedAt, res.UpdatedBy)
	return translate(err)
}

// CreateLinesTx inserts all room-type lines of a reservation in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *ReservationRepo) CreateLinesTx(ctx context.Context, q DBTX, reservationID uuid.UUID, lines []model.RoomTypeLine) error {
	if len(lines) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO reservations_room_types (reservation_id, room_type_id, rooms_count) VALUES `)
	args := make([]any, 0, len(lines)*3)
	for i, l := range lines {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?)")
		args = append(args, reservationID, l.RoomTypeID, l.RoomsCount)
	}
	_, err := q.ExecContext(ctx, sb.String(), args...)
	return translate(err)
}

// GetByID returns a reservation with its lines and assigned rooms.
// ErrNotFound is returned for unknown or soft-deleted ids.
func (r *ReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? AND is_deleted = FALSE LIMIT 1`, id)
	res, err := scanReservation(row)
	if err != nil {
		return nil, translate(err)
	}
	if res.Lines, err = r.lines(ctx, id); err != nil {
		return nil, err
	}
	if res.RoomIDs, err = r.roomIDs(ctx, id); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepo) lines(ctx context.Context, id uuid.UUID) ([]model.RoomTypeLine, error) {
	const q = `SELECT rrt.room_type_id, rt.name, rrt.rooms_count
                 FROM reservations_room_types rrt
                 JOIN room_types rt ON rt.id = rrt.room_type_id
                WHERE rrt.reservation_id = ?
                ORDER BY rt.name`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomTypeLine, 0)
	for rows.Next() {
		l := model.RoomTypeLine{ReservationID: id}
		if err := rows.Scan(&l.RoomTypeID, &l.RoomTypeName, &l.RoomsCount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ReservationRepo) roomIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT room_id FROM reservations_rooms WHERE reservation_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var rid uuid.UUID
		if err := rows.Scan(&rid); err != nil {
			return nil, err
		}
		out = append(out, rid)
	}
	return out, rows.Err()
}

// List returns one page of reservations matching f together with the total
// number of matching rows.  Lines and rooms are not loaded.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, int, error) {
	where := []string{"is_deleted = FALSE"}
	args := make([]any, 0, 3)
	if f.Status != nil {
		where = append(where, "reservation_status = ?")
		args = append(args, string(*f.Status))
	}
	if f.To != nil {
		where = append(where, "start_date < ?")
		args = append(args, *f.To)
	}
	if f.From != nil {
		where = append(where, "end_date > ?")
		args = append(args, *f.From)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, inRange := pageOffset(f.Page, f.Size, total)
	if !inRange {
		return []model.Reservation{}, total, nil
	}

	col, ok := reservationSortColumns[f.SortBy]
	if !ok {
		col = "start_date"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + cond +
		` ORDER BY ` + col + ` ` + dir + `, id ` + dir + ` LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), f.Size, offset)
	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0, f.Size)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	return out, total, rows.Err()
}

// Exists reports whether a live reservation with id exists.
func (r *ReservationRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM reservations WHERE id = ? AND is_deleted = FALSE LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// LockTx takes an exclusive lock on the reservation row for the rest of
// the transaction.  ErrNotFound is returned when the reservation does not
// exist or was deleted.
func (r *ReservationRepo) LockTx(ctx context.Context, q DBTX, id uuid.UUID) error {
	var got uuid.UUID
	err := q.QueryRowContext(ctx,
		`SELECT id FROM reservations WHERE id = ? AND is_deleted = FALSE FOR UPDATE`, id).Scan(&got)
	return translate(err)
}

// UpdateStatus sets the status of a reservation and records who changed it.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus, actor uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET reservation_status = ?, updated_by = ?, updated_at = ? WHERE id = ? AND is_deleted = FALSE`,
		string(status), actor, time.Now().UTC(), id)
	return err
}

// SoftDelete flags the reservation as deleted.  The row and its lines stay
// in place for auditing but stop counting against availability.
func (r *ReservationRepo) SoftDelete(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET is_deleted = TRUE, updated_by = ?, updated_at = ? WHERE id = ? AND is_deleted = FALSE`,
		actor, time.Now().UTC(), id)
	return err
}

// ReplaceRoomsTx replaces the set of rooms assigned to a reservation.
func (r *ReservationRepo) ReplaceRoomsTx(ctx context.Context, q DBTX, id uuid.UUID, roomIDs []uuid.UUID) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM reservations_rooms WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	if len(roomIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO reservations_rooms (reservation_id, room_id) VALUES `)
	args := make([]any, 0, len(roomIDs)*2)
	for i, rid := range roomIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?)")
		args = append(args, id, rid)
	}
	_, err := q.ExecContext(ctx, sb.String(), args...)
	return translate(err)
}

// TouchTx records that actor modified the reservation.
func (r *ReservationRepo) TouchTx(ctx context.Context, q DBTX, id uuid.UUID, actor uuid.UUID) error {
	_, err := q.ExecContext(ctx,
		`UPDATE reservations SET updated_by = ?, updated_at = ? WHERE id = ?`, actor, time.Now().UTC(), id)
	return err
}
