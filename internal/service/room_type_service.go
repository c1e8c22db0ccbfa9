package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
)

// RoomTypeStore is implemented by *repository.RoomTypeRepo.
type RoomTypeStore interface {
	Create(ctx context.Context, rt *model.RoomType) error
	GetByName(ctx context.Context, name string) (*model.RoomType, error)
	List(ctx context.Context) ([]model.RoomType, error)
}

type CreateRoomTypeInput struct {
	Name              string
	BasePricePerNight decimal.Decimal
	Capacity          int
	Description       *string
}

type RoomTypeService struct {
	roomTypes RoomTypeStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewRoomTypeService(roomTypes RoomTypeStore, logger *zap.Logger) *RoomTypeService {
	return &RoomTypeService{roomTypes: roomTypes, logger: logger.Named("room-types"), now: time.Now}
}

// Create adds a room type.  Names are unique.
func (s *RoomTypeService) Create(ctx context.Context, actor uuid.UUID, in CreateRoomTypeInput) (uuid.UUID, error) {
	now := s.now().UTC()
	rt := &model.RoomType{
		Entity:            model.NewEntity(),
		Name:              in.Name,
		BasePricePerNight: in.BasePricePerNight.Round(2),
		Capacity:          in.Capacity,
		Description:       in.Description,
		CreatedAt:         now,
		CreatedBy:         &actor,
		UpdatedAt:         now,
		UpdatedBy:         &actor,
	}
	if err := s.roomTypes.Create(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, ErrRoomTypeAlreadyExists
		}
		return uuid.Nil, err
	}
	s.logger.Info("room type created", zap.String("room_type", rt.Name), zap.String("actor", actor.String()))
	return rt.ID, nil
}

// List returns all room types ordered by name.
func (s *RoomTypeService) List(ctx context.Context) ([]model.RoomType, error) {
	return s.roomTypes.List(ctx)
}

// Preview returns the short form of every room type.
func (s *RoomTypeService) Preview(ctx context.Context) ([]model.RoomTypePreview, error) {
	all, err := s.roomTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.RoomTypePreview, 0, len(all))
	for _, rt := range all {
		out = append(out, model.RoomTypePreview{ID: rt.ID, Name: rt.Name, Capacity: rt.Capacity, BasePricePerNight: rt.BasePricePerNight})
	}
	return out, nil
}
