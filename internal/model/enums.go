package model

import (
	"fmt"
	"strings"
)

// ReservationStatus tracks a reservation through its lifecycle.
type ReservationStatus string

const (
	ReservationRequest    ReservationStatus = "RESERVATION_REQUEST"
	ReservationConfirmed  ReservationStatus = "RESERVATION_CONFIRMED"
	ReservationCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationCanceled   ReservationStatus = "CANCELED"
	ReservationRejected   ReservationStatus = "REJECTED"
)

var reservationStatuses = []ReservationStatus{
	ReservationRequest, ReservationConfirmed, ReservationCheckedIn,
	ReservationCheckedOut, ReservationCanceled, ReservationRejected,
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	for _, v := range reservationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// HoldsRooms reports whether a reservation in status s still counts
// against room availability.
func (s ReservationStatus) HoldsRooms() bool {
	return s != ReservationCanceled && s != ReservationRejected
}

// ReleasedStatuses lists the statuses that do not hold rooms, in
// declaration order.
func ReleasedStatuses() []ReservationStatus {
	out := make([]ReservationStatus, 0, 2)
	for _, s := range reservationStatuses {
		if !s.HoldsRooms() {
			out = append(out, s)
		}
	}
	return out
}

// ParseReservationStatus is case-insensitive.
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	s := ReservationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown reservation status %q", raw)
	}
	return s, nil
}

// RoomStatus is the housekeeping state of a physical room.
type RoomStatus string

const (
	RoomAvailable         RoomStatus = "AVAILABLE"
	RoomOccupied          RoomStatus = "OCCUPIED"
	RoomCleaning          RoomStatus = "CLEANING"
	RoomMaintenance       RoomStatus = "MAINTENANCE"
	RoomUnderConstruction RoomStatus = "UNDER_CONSTRUCTION"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomUnderConstruction:
		return true
	}
	return false
}

func ParseRoomStatus(raw string) (RoomStatus, error) {
	s := RoomStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown room status %q", raw)
	}
	return s, nil
}

type BedType string

const (
	BedSingle  BedType = "SINGLE"
	BedDouble  BedType = "DOUBLE"
	BedQueen   BedType = "QUEEN"
	BedKing    BedType = "KING"
	BedSofaBed BedType = "SOFA_BED"
)

func (b BedType) Valid() bool {
	switch b {
	case BedSingle, BedDouble, BedQueen, BedKing, BedSofaBed:
		return true
	}
	return false
}

// PaymentType is the instrument a payment is (or will be) settled with.
type PaymentType string

const (
	PaymentCard         PaymentType = "CARD_PAYMENT"
	PaymentCash         PaymentType = "CASH"
	PaymentBankTransfer PaymentType = "BANK_TRANSFER"
	PaymentNotSpecified PaymentType = "NOT_SPECIFIED"
)

// PaymentTypes lists every payment type in display order.
var PaymentTypes = []PaymentType{PaymentCard, PaymentCash, PaymentBankTransfer, PaymentNotSpecified}

func (t PaymentType) Valid() bool {
	for _, v := range PaymentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// PaymentReason says what a payment is for.
type PaymentReason string

const (
	ReasonDeposit              PaymentReason = "DEPOSIT"
	ReasonAccommodationPrepaid PaymentReason = "ACCOMMODATION_PREPAID"
	ReasonPayAtProperty        PaymentReason = "PAY_AT_PROPERTY_ACCOMMODATION"
	ReasonConsumption          PaymentReason = "CONSUMPTION"
	ReasonCheckOutBill         PaymentReason = "CHECK_OUT_BILL"
	ReasonOther                PaymentReason = "OTHER"
)

var PaymentReasons = []PaymentReason{
	ReasonDeposit, ReasonAccommodationPrepaid, ReasonPayAtProperty,
	ReasonConsumption, ReasonCheckOutBill, ReasonOther,
}

func (r PaymentReason) Valid() bool {
	for _, v := range PaymentReasons {
		if v == r {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentAccepted PaymentStatus = "ACCEPTED"
	PaymentRejected PaymentStatus = "REJECTED"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentCanceled PaymentStatus = "CANCELED"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentAccepted, PaymentRejected, PaymentRefunded, PaymentCanceled}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// PaymentPlan is chosen by the guest when booking and decides which
// payment is derived for a new reservation.
type PaymentPlan string

const (
	PlanFullPrepay         PaymentPlan = "FULL_PREPAY"
	PlanReservationDeposit PaymentPlan = "RESERVATION_DEPOSIT"
	PlanPayAtProperty      PaymentPlan = "PAY_AT_PROPERTY"
)

func (p PaymentPlan) Valid() bool {
	switch p {
	case PlanFullPrepay, PlanReservationDeposit, PlanPayAtProperty:
		return true
	}
	return false
}

// Staff role names as stored in the roles table.
const (
	RoleAdministrator = "ADMINISTRATOR"
	RoleManager       = "MANAGER"
	RoleReceptionist  = "RECEPTIONIST"
	RoleUser          = "USER"
)
