package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
)

type fakeRoomTypeStore struct {
	byName map[string]*model.RoomType
}

func (f *fakeRoomTypeStore) Create(_ context.Context, rt *model.RoomType) error {
	if _, ok := f.byName[rt.Name]; ok {
		return repository.ErrDuplicate
	}
	cp := *rt
	f.byName[rt.Name] = &cp
	return nil
}

func (f *fakeRoomTypeStore) GetByName(_ context.Context, name string) (*model.RoomType, error) {
	if rt, ok := f.byName[name]; ok {
		return rt, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoomTypeStore) List(context.Context) ([]model.RoomType, error) {
	out := make([]model.RoomType, 0, len(f.byName))
	for _, rt := range f.byName {
		out = append(out, *rt)
	}
	return out, nil
}

type fakeRoomStore struct {
	byID     map[uuid.UUID]*model.Room
	total    int
	last     repository.RoomFilter
	deleteFn func(uuid.UUID) error
}

func (f *fakeRoomStore) CreateTx(_ context.Context, _ repository.DBTX, room *model.Room) error {
	for _, r := range f.byID {
		if r.RoomNumber == room.RoomNumber {
			return repository.ErrDuplicate
		}
	}
	cp := *room
	f.byID[room.ID] = &cp
	return nil
}

func (f *fakeRoomStore) UpdateTx(_ context.Context, _ repository.DBTX, room *model.Room) error {
	cp := *room
	f.byID[room.ID] = &cp
	return nil
}

func (f *fakeRoomStore) GetByID(_ context.Context, id uuid.UUID) (*model.Room, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoomStore) List(_ context.Context, flt repository.RoomFilter) ([]model.Room, int, error) {
	f.last = flt
	return nil, f.total, nil
}

func (f *fakeRoomStore) Delete(_ context.Context, id uuid.UUID) error { return f.deleteFn(id) }

func TestRoomTypeCreate(t *testing.T) {
	store := &fakeRoomTypeStore{byName: map[string]*model.RoomType{}}
	svc := NewRoomTypeService(store, zap.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), CreateRoomTypeInput{Name: "SUITE", BasePricePerNight: d("250.499"), Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, "250.50", store.byName["SUITE"].BasePricePerNight.StringFixed(2))

	_, err = svc.Create(context.Background(), uuid.New(), CreateRoomTypeInput{Name: "SUITE", BasePricePerNight: d("1"), Capacity: 1})
	assert.ErrorIs(t, err, ErrRoomTypeAlreadyExists)

	preview, err := svc.Preview(context.Background())
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, 4, preview[0].Capacity)
}

func TestRoomService(t *testing.T) {
	types := &fakeRoomTypeStore{byName: map[string]*model.RoomType{
		"STANDARD": {Entity: model.NewEntity(), Name: "STANDARD"},
		"SUITE":    {Entity: model.NewEntity(), Name: "SUITE"},
	}}
	rooms := &fakeRoomStore{byID: map[uuid.UUID]*model.Room{}}
	svc := NewRoomService(&fakeTx{}, rooms, types, zap.NewNop())

	in := RoomInput{RoomNumber: "101", RoomTypeName: "STANDARD", BedTypes: []model.BedType{model.BedDouble}, Status: model.RoomAvailable}
	id, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	assert.Equal(t, types.byName["STANDARD"].ID, rooms.byID[id].RoomTypeID)

	_, err = svc.Create(context.Background(), uuid.New(), in)
	assert.ErrorIs(t, err, ErrRoomNumberAlreadyExists)

	_, err = svc.Create(context.Background(), uuid.New(), RoomInput{RoomNumber: "102", RoomTypeName: "PENTHOUSE"})
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)

	require.NoError(t, svc.Update(context.Background(), id, RoomInput{RoomNumber: "101A", RoomTypeName: "SUITE", Status: model.RoomCleaning}))
	assert.Equal(t, "101A", rooms.byID[id].RoomNumber)
	assert.Equal(t, types.byName["SUITE"].ID, rooms.byID[id].RoomTypeID)
	assert.ErrorIs(t, svc.Update(context.Background(), uuid.New(), RoomInput{RoomTypeName: "SUITE"}), ErrRoomNotFound)

	rooms.total = 3
	_, err = svc.List(context.Background(), ListRoomsInput{PageRequest: PageRequest{Page: 1, Size: 10}})
	assert.ErrorIs(t, err, ErrPageOutOfBounds)

	rooms.deleteFn = func(uuid.UUID) error { return repository.ErrConflict }
	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrRoomInUse)
	rooms.deleteFn = func(uuid.UUID) error { return repository.ErrNotFound }
	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrRoomNotFound)
}
