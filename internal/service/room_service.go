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
)

// RoomStore is implemented by *repository.RoomRepo.
type RoomStore interface {
	CreateTx(ctx context.Context, q repository.DBTX, room *model.Room) error
	UpdateTx(ctx context.Context, q repository.DBTX, room *model.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	List(ctx context.Context, f repository.RoomFilter) ([]model.Room, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoomTypeFinder resolves a room type by name.
type RoomTypeFinder interface {
	GetByName(ctx context.Context, name string) (*model.RoomType, error)
}

// RoomInput creates or rewrites a room.  The room type is given by name.
type RoomInput struct {
	RoomNumber   string
	RoomTypeName string
	BedTypes     []model.BedType
	Status       model.RoomStatus
}

type ListRoomsInput struct {
	RoomTypeID *uuid.UUID
	Status     *model.RoomStatus
	PageRequest
}

type RoomService struct {
	tx        TxRunner
	rooms     RoomStore
	roomTypes RoomTypeFinder
	logger    *zap.Logger
	now       func() time.Time
}

func NewRoomService(tx TxRunner, rooms RoomStore, roomTypes RoomTypeFinder, logger *zap.Logger) *RoomService {
	return &RoomService{tx: tx, rooms: rooms, roomTypes: roomTypes, logger: logger.Named("rooms"), now: time.Now}
}

func (s *RoomService) resolveType(ctx context.Context, name string) (*model.RoomType, error) {
	rt, err := s.roomTypes.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &RoomTypeNotFoundError{Name: name}
	}
	return rt, err
}

// Create adds a room.  Room numbers are unique.
func (s *RoomService) Create(ctx context.Context, actor uuid.UUID, in RoomInput) (uuid.UUID, error) {
	rt, err := s.resolveType(ctx, in.RoomTypeName)
	if err != nil {
		return uuid.Nil, err
	}
	now := s.now().UTC()
	room := &model.Room{
		Entity:     model.NewEntity(),
		RoomNumber: in.RoomNumber,
		RoomTypeID: rt.ID,
		BedTypes:   in.BedTypes,
		Status:     in.Status,
		CreatedAt:  now,
		CreatedBy:  &actor,
		UpdatedAt:  now,
	}
	err = s.tx.InTx(ctx, nil, func(tx *sql.Tx) error { return s.rooms.CreateTx(ctx, tx, room) })
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, ErrRoomNumberAlreadyExists
		}
		return uuid.Nil, err
	}
	s.logger.Info("room created", zap.String("room_number", room.RoomNumber), zap.String("room_type", rt.Name))
	return room.ID, nil
}

// Update rewrites a room.
func (s *RoomService) Update(ctx context.Context, id uuid.UUID, in RoomInput) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rt, err := s.resolveType(ctx, in.RoomTypeName)
	if err != nil {
		return err
	}
	room.RoomNumber = in.RoomNumber
	room.RoomTypeID = rt.ID
	room.RoomTypeName = rt.Name
	room.BedTypes = in.BedTypes
	room.Status = in.Status
	room.UpdatedAt = s.now().UTC()
	err = s.tx.InTx(ctx, nil, func(tx *sql.Tx) error { return s.rooms.UpdateTx(ctx, tx, room) })
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrRoomNumberAlreadyExists
	}
	return err
}

func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

// List returns one page of rooms ordered by room number.
func (s *RoomService) List(ctx context.Context, in ListRoomsInput) (Page[model.Room], error) {
	req := in.PageRequest.normalize()
	items, total, err := s.rooms.List(ctx, repository.RoomFilter{
		RoomTypeID: in.RoomTypeID,
		Status:     in.Status,
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		return Page[model.Room]{}, err
	}
	return newPage(items, req, total)
}

// Delete removes a room that nothing references.
func (s *RoomService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.rooms.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrRoomNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrRoomInUse
	}
	return err
}
