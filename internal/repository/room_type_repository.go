package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// RoomTypeRepo provides access to room types and the per-type
// availability aggregate used by reservation admission.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo returns a new RoomTypeRepo bound to the given database.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

const roomTypeColumns = `id, name, base_price_per_night, capacity, description, created_at, created_by, updated_at, updated_by`

func scanRoomType(row interface{ Scan(...any) error }) (model.RoomType, error) {
	var (
		rt        model.RoomType
		desc      sql.NullString
		createdBy uuid.NullUUID
		updatedBy uuid.NullUUID
	)
	err := row.Scan(&rt.ID, &rt.Name, &rt.BasePricePerNight, &rt.Capacity, &desc,
		&rt.CreatedAt, &createdBy, &rt.UpdatedAt, &updatedBy)
	if err != nil {
		return rt, err
	}
	if desc.Valid {
		d := desc.String
		rt.Description = &d
	}
	if createdBy.Valid {
		id := createdBy.UUID
		rt.CreatedBy = &id
	}
	if updatedBy.Valid {
		id := updatedBy.UUID
		rt.UpdatedBy = &id
	}
	return rt, nil
}

// Create inserts a room type.  A name collision yields ErrDuplicate.
func (r *RoomTypeRepo) Create(ctx context.Context, rt *model.RoomType) error {
	const q = `INSERT INTO room_types (id, name, base_price_per_night, capacity, description, created_at, created_by, updated_at, updated_by)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, rt.ID, rt.Name, rt.BasePricePerNight, rt.Capacity, rt.Description,
		rt.CreatedAt, rt.CreatedBy, rt.UpdatedAt, rt.UpdatedBy)
	return translate(err)
}

// GetByName looks a room type up by its unique name.
func (r *RoomTypeRepo) GetByName(ctx context.Context, name string) (*model.RoomType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomTypeColumns+` FROM room_types WHERE name = ? LIMIT 1`, name)
	rt, err := scanRoomType(row)
	if err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

// GetByID looks a room type up by id.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.RoomType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomTypeColumns+` FROM room_types WHERE id = ? LIMIT 1`, id)
	rt, err := scanRoomType(row)
	if err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

// List returns every room type ordered by name.
func (r *RoomTypeRepo) List(ctx context.Context) ([]model.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomTypeColumns+` FROM room_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// LockByNamesTx loads the named room types and takes an exclusive row lock
// on each of them for the rest of the transaction.  Concurrent admissions
// touching the same types queue on these locks, which keeps the
// availability read and the line inserts of one reservation serialized
// against the others.  Rows are locked in name order so that two requests
// for overlapping sets of types cannot deadlock.  Unknown names are simply
// absent from the result.
func (r *RoomTypeRepo) LockByNamesTx(ctx context.Context, q DBTX, names []string) ([]model.RoomType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE name IN (` + placeholders(len(names)) + `) ORDER BY name FOR UPDATE`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0, len(names))
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// availabilityQuery counts, per room type, the rooms able to take guests
// and the distinct live reservations whose stay overlaps [start, end).
// Every room type is returned, including those without rooms.
var availabilityQuery = `
SELECT rt.name,
       (SELECT COUNT(*) FROM rooms r
         WHERE r.room_type_id = rt.id AND r.room_status <> '` + string(model.RoomUnderConstruction) + `') AS total_rooms,
       (SELECT COUNT(DISTINCT res.id)
          FROM reservations res
          JOIN reservations_room_types rrt ON rrt.reservation_id = res.id
         WHERE rrt.room_type_id = rt.id
           AND res.is_deleted = FALSE
           AND res.reservation_status NOT IN (` + quotedStatuses(model.ReleasedStatuses()) + `)
           AND res.start_date < ?
           AND res.end_date > ?) AS booked_rooms
  FROM room_types rt
 ORDER BY rt.name`

// quotedStatuses renders enum constants as SQL string literals.
func quotedStatuses(ss []model.ReservationStatus) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = "'" + string(s) + "'"
	}
	return strings.Join(parts, ", ")
}

// Availability computes the availability map on the pool.
func (r *RoomTypeRepo) Availability(ctx context.Context, start, end time.Time) (map[string]model.Availability, error) {
	return r.AvailabilityTx(ctx, r.db, start, end)
}

// AvailabilityTx computes the availability map with q, typically the
// admission transaction.  The result is keyed by room-type name.
func (r *RoomTypeRepo) AvailabilityTx(ctx context.Context, q DBTX, start, end time.Time) (map[string]model.Availability, error) {
	rows, err := q.QueryContext(ctx, availabilityQuery, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]model.Availability)
	for rows.Next() {
		var (
			name string
			a    model.Availability
		)
		if err := rows.Scan(&name, &a.TotalRooms, &a.BookedRooms); err != nil {
			return nil, err
		}
		a.AvailableRooms = a.TotalRooms - a.BookedRooms
		out[name] = a
	}
	return out, rows.Err()
}
