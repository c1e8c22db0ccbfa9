package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// RoomRepo manages physical rooms and their bed layout.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// RoomFilter narrows a room listing.  Results are ordered by room number.
type RoomFilter struct {
	RoomTypeID *uuid.UUID
	Status     *model.RoomStatus
	Page       int
	Size       int
}

const roomSelect = `SELECT r.id, r.room_number, r.room_type_id, rt.name, r.room_status, r.created_at, r.created_by, r.updated_at
  FROM rooms r JOIN room_types rt ON rt.id = r.room_type_id`

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
	var (
		room      model.Room
		createdBy uuid.NullUUID
	)
	err := row.Scan(&room.ID, &room.RoomNumber, &room.RoomTypeID, &room.RoomTypeName, &room.Status,
		&room.CreatedAt, &createdBy, &room.UpdatedAt)
	if err != nil {
		return room, err
	}
	if createdBy.Valid {
		id := createdBy.UUID
		room.CreatedBy = &id
	}
	return room, nil
}

// CreateTx inserts the room and its beds.  A room-number collision yields
// ErrDuplicate.
func (r *RoomRepo) CreateTx(ctx context.Context, q DBTX, room *model.Room) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO rooms (id, room_number, room_type_id, room_status, created_at, created_by, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.RoomNumber, room.RoomTypeID, string(room.Status), room.CreatedAt, room.CreatedBy, room.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return r.insertBeds(ctx, q, room.ID, room.BedTypes)
}

// UpdateTx rewrites the mutable fields of a room and replaces its beds.
func (r *RoomRepo) UpdateTx(ctx context.Context, q DBTX, room *model.Room) error {
	_, err := q.ExecContext(ctx,
		`UPDATE rooms SET room_number = ?, room_type_id = ?, room_status = ?, updated_at = ? WHERE id = ?`,
		room.RoomNumber, room.RoomTypeID, string(room.Status), room.UpdatedAt, room.ID)
	if err != nil {
		return translate(err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM room_beds WHERE room_id = ?`, room.ID); err != nil {
		return err
	}
	return r.insertBeds(ctx, q, room.ID, room.BedTypes)
}

func (r *RoomRepo) insertBeds(ctx context.Context, q DBTX, roomID uuid.UUID, beds []model.BedType) error {
	if len(beds) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO room_beds (room_id, position, bed_type) VALUES `)
	args := make([]any, 0, len(beds)*3)
	for i, b := range beds {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?)")
		args = append(args, roomID, i, string(b))
	}
	_, err := q.ExecContext(ctx, sb.String(), args...)
	return err
}

// GetByID returns a room with its beds, or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, roomSelect+` WHERE r.id = ? LIMIT 1`, id))
	if err != nil {
		return nil, translate(err)
	}
	beds, err := r.beds(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	room.BedTypes = beds[id]
	return &room, nil
}

// beds loads the bed layout of several rooms at once, in position order.
func (r *RoomRepo) beds(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.BedType, error) {
	out := make(map[uuid.UUID][]model.BedType, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
		out[id] = []model.BedType{}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT room_id, bed_type FROM room_beds WHERE room_id IN (`+placeholders(len(ids))+`) ORDER BY room_id, position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id  uuid.UUID
			bed model.BedType
		)
		if err := rows.Scan(&id, &bed); err != nil {
			return nil, err
		}
		out[id] = append(out[id], bed)
	}
	return out, rows.Err()
}

// List returns one page of rooms matching f and the total match count.
func (r *RoomRepo) List(ctx context.Context, f RoomFilter) ([]model.Room, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if f.RoomTypeID != nil {
		where = append(where, "r.room_type_id = ?")
		args = append(args, *f.RoomTypeID)
	}
	if f.Status != nil {
		where = append(where, "r.room_status = ?")
		args = append(args, string(*f.Status))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms r`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, ok := pageOffset(f.Page, f.Size, total)
	if !ok {
		return []model.Room{}, total, nil
	}
	pageArgs := append(append([]any{}, args...), f.Size, offset)
	rows, err := r.db.QueryContext(ctx, roomSelect+cond+` ORDER BY r.room_number LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Room, 0, f.Size)
	ids := make([]uuid.UUID, 0, f.Size)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, room)
		ids = append(ids, room.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	beds, err := r.beds(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].BedTypes = beds[out[i].ID]
	}
	return out, total, nil
}

// CountExisting returns how many of ids name existing rooms.
func (r *RoomRepo) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE id IN (`+placeholders(len(ids))+`)`, args...).Scan(&n)
	return n, err
}

// Delete removes a room.  ErrNotFound when nothing was deleted; ErrConflict
// when payments or reservations still reference it.
func (r *RoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
