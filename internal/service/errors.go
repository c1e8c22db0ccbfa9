// Package service implements the hotel back-office business rules on top
// of the repositories: reservation admission, pricing, payment derivation
// and the supporting CRUD for rooms, room types and staff.
package service

import (
	"errors"
	"fmt"
)

// Domain errors.  Handlers map these onto HTTP statuses; anything not
// listed here is reported as an unexpected error.
var (
	ErrRoomTypeNotFound         = errors.New("room type not found")
	ErrInsufficientAvailability = errors.New("not enough rooms available")
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrInvalidPaymentPlan       = errors.New("invalid payment plan")
	ErrPageOutOfBounds          = errors.New("page out of bounds")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrRoomNotFound             = errors.New("room not found")
	ErrRoomInUse                = errors.New("room is referenced by reservations or payments")
	ErrUserNotFound             = errors.New("user not found")
	ErrRoomTypeAlreadyExists    = errors.New("room type already exists")
	ErrRoomNumberAlreadyExists  = errors.New("room number already exists")
	ErrRolesNotFound            = errors.New("roles not found")
	ErrPasswordsDoNotMatch      = errors.New("passwords do not match")
	ErrUsernameTaken            = errors.New("username already taken")
	ErrEmailTaken               = errors.New("email already taken")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserDisabled             = errors.New("user account is disabled")
	ErrInvalidRefreshToken      = errors.New("invalid refresh token")
)

// RoomTypeNotFoundError names the unknown room type of a request.
type RoomTypeNotFoundError struct {
	Name string
}

func (e *RoomTypeNotFoundError) Error() string {
	return fmt.Sprintf("room type %q not found", e.Name)
}

func (e *RoomTypeNotFoundError) Is(target error) bool { return target == ErrRoomTypeNotFound }

// InsufficientAvailabilityError reports the first room type that cannot
// cover the requested count.
type InsufficientAvailabilityError struct {
	RoomType  string
	Requested int
	Available int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("not enough rooms of type %s: requested %d, available %d", e.RoomType, e.Requested, e.Available)
}

func (e *InsufficientAvailabilityError) Is(target error) bool {
	return target == ErrInsufficientAvailability
}

// PageOutOfBoundsError reports a page index at or past the last page.
type PageOutOfBoundsError struct {
	Page       int
	TotalPages int
}

func (e *PageOutOfBoundsError) Error() string {
	return fmt.Sprintf("page %d is out of bounds, total pages: %d", e.Page, e.TotalPages)
}

func (e *PageOutOfBoundsError) Is(target error) bool { return target == ErrPageOutOfBounds }

// InvalidPaymentPlanError carries the rejected plan value.
type InvalidPaymentPlanError struct {
	Plan string
}

func (e *InvalidPaymentPlanError) Error() string {
	return fmt.Sprintf("invalid payment plan %q", e.Plan)
}

func (e *InvalidPaymentPlanError) Is(target error) bool { return target == ErrInvalidPaymentPlan }
