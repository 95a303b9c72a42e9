package models

import (
	"errors"
	"time"
)

// RoomStatus represents the inspection status of a room
type RoomStatus string

const (
	RoomStatusUnchecked RoomStatus = "unchecked" // No inspection recorded today
	RoomStatusNormal    RoomStatus = "normal"    // Last inspection found no issues
	RoomStatusWarning   RoomStatus = "warning"   // Last inspection raised a warning
	RoomStatusError     RoomStatus = "error"     // Last inspection found a fault
)

// RoomType distinguishes standard machine rooms from UPS rooms
type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeUPS      RoomType = "ups"
)

// Room represents a fixed inspectable physical location.
// The catalog of rooms is fixed at runtime; only Status and
// LastInspection are mutable, and only through inspection submission
// or the daily reset.
type Room struct {
	ID             string     `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Type           RoomType   `json:"type" yaml:"type"`
	Location       string     `json:"location" yaml:"location"`
	Status         RoomStatus `json:"status" yaml:"-"`
	LastInspection *time.Time `json:"last_inspection,omitempty" yaml:"-"`
}

var (
	ErrInvalidRoom   = errors.New("unknown room id")
	ErrRoomNotFound  = errors.New("room not found")
	ErrInvalidStatus = errors.New("invalid inspection status")
	ErrPersistence   = errors.New("persistence failure")
)

// ValidateRoomStatus checks if the status is a known room status
func ValidateRoomStatus(status RoomStatus) error {
	switch status {
	case RoomStatusUnchecked, RoomStatusNormal, RoomStatusWarning, RoomStatusError:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// ValidateSubmittedStatus checks if the status is valid for a submitted
// inspection record. Unchecked is a derived state only and can never be
// submitted.
func ValidateSubmittedStatus(status RoomStatus) error {
	switch status {
	case RoomStatusNormal, RoomStatusWarning, RoomStatusError:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// IsProblem reports whether the status counts toward the problem total
func (s RoomStatus) IsProblem() bool {
	return s == RoomStatusWarning || s == RoomStatusError
}
