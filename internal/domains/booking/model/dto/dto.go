package dto

import (
	"concierge/internal/domains/booking/model"
	"concierge/shared"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	"concierge/shared/failure"
	gModel "concierge/shared/model"
	"concierge/shared/timezone"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	argOverlapCheckIn  = "overlap_check_in"
	argOverlapCheckOut = "overlap_check_out"
	argOverlapRoom     = "overlap_room_number"
)

type CreateBookingRequest struct {
	Name       string `json:"name"        validate:"required,max=100"`
	Email      string `json:"email"       validate:"required,email,max=100"`
	Phone      string `json:"phone"       validate:"omitempty,max=20"`
	RoomNumber string `json:"room_number" validate:"required,max=10"`
	CheckIn    string `json:"check_in"    validate:"required,date"`
	CheckOut   string `json:"check_out"   validate:"required,date"`
}

// Stay parses the requested dates and rejects a stay that does not end after it starts.
func (r *CreateBookingRequest) Stay() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.DateOnlyFormat, r.CheckIn)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("check_in must be a date in YYYY-MM-DD format")
	}

	checkOut, err = time.Parse(constant.DateOnlyFormat, r.CheckOut)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("check_out must be a date in YYYY-MM-DD format")
	}

	if !checkOut.After(checkIn) {
		return checkIn, checkOut, failure.BadRequestFromString("Check-out date must be after check-in date")
	}

	return checkIn, checkOut, nil
}

func (r *CreateBookingRequest) ToModel(actor string, checkIn, checkOut time.Time) model.Booking {
	return model.Booking{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		RoomNumber: strings.TrimSpace(r.RoomNumber),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Metadata:   gModel.NewMetadata(actor, timezone.Now()),
	}
}

// OverlapFilter matches bookings of the same room whose stay touches [checkIn, checkOut].
// Both ends are inclusive, so a stay starting on another's check-out day overlaps it.
func OverlapFilter(roomNumber string, checkIn, checkOut time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  argOverlapRoom,
				Field:    model.FieldRoomNumber,
				Value:    strings.TrimSpace(roomNumber),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  argOverlapCheckOut,
				Field:    model.FieldCheckIn,
				Value:    checkOut.Format(constant.DateOnlyFormat),
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  argOverlapCheckIn,
				Field:    model.FieldCheckOut,
				Value:    checkIn.Format(constant.DateOnlyFormat),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
		},
	}
}

// OverlapMessage is shown when a room is taken for the requested dates.
func OverlapMessage(roomNumber string) string {
	return fmt.Sprintf("Room %s is already booked for the selected dates", strings.TrimSpace(roomNumber))
}

type BookingResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	RoomNumber string           `json:"room_number"`
	CheckIn    string           `json:"check_in"`
	CheckOut   string           `json:"check_out"`
	Nights     int              `json:"nights"`
	StayStatus model.StayStatus `json:"stay_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking, today string) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.RoomNumber = model.RoomNumber
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Nights = timezone.Nights(model.CheckIn, model.CheckOut)
	r.StayStatus = model.StayStatus(today)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int, today string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, today)
	}
}
