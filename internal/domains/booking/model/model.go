package model

import (
	"concierge/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldRoomNumber = "room_number"
	FieldCheckIn    = "check_in"
	FieldCheckOut   = "check_out"
)

type StayStatus string

const (
	StayStatusActive    StayStatus = "active"
	StayStatusUpcoming  StayStatus = "upcoming"
	StayStatusCompleted StayStatus = "completed"
)

// Booking is a guest stay. Requests filed by the guest point at it.
type Booking struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	RoomNumber string    `db:"room_number"`
	CheckIn    time.Time `db:"check_in"`
	CheckOut   time.Time `db:"check_out"`
	model.Metadata
}

// StayStatus places the stay relative to today, both ends inclusive.
// check_in and check_out are calendar dates, so they are compared as YYYY-MM-DD strings.
func (b Booking) StayStatus(today string) StayStatus {
	checkIn := b.CheckIn.Format(time.DateOnly)
	checkOut := b.CheckOut.Format(time.DateOnly)

	switch {
	case today < checkIn:
		return StayStatusUpcoming
	case today <= checkOut:
		return StayStatusActive
	default:
		return StayStatusCompleted
	}
}
