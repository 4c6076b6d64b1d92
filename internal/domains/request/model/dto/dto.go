package dto

import (
	bookingModel "concierge/internal/domains/booking/model"
	"concierge/internal/domains/request/model"
	staffModel "concierge/internal/domains/staff/model"
	"concierge/permissions"
	"concierge/shared"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	gModel "concierge/shared/model"
	"concierge/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateRequestRequest is what the voice front end files for a guest.
type CreateRequestRequest struct {
	GuestID    string         `json:"guest_id"    validate:"required,uuid"`
	Type       model.Type     `json:"type"        validate:"omitempty,enum"`
	Message    string         `json:"message"     validate:"required,max=2000"`
	Priority   model.Priority `json:"priority"    validate:"omitempty,enum"`
	CategoryID *string        `json:"category_id" validate:"omitempty,uuid"`
}

// ToModel applies the creation defaults: a pending, medium priority request.
func (r *CreateRequestRequest) ToModel(actor string, categoryID *string) model.Request {
	requestType := r.Type
	if requestType == "" {
		requestType = model.TypeRequest
	}

	priority := r.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	return model.Request{
		ID:         uuid.NewString(),
		GuestID:    r.GuestID,
		Type:       requestType,
		Message:    strings.TrimSpace(r.Message),
		Status:     model.StatusPending,
		Priority:   priority,
		CategoryID: categoryID,
		Metadata:   gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateStatusRequest struct {
	Status model.Status `json:"status" validate:"required,enum"`
}

type UpdatePriorityRequest struct {
	Priority model.Priority `json:"priority" validate:"required,enum"`
}

type AssignRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
}

type Guest struct {
	Name       string `json:"name"`
	RoomNumber string `json:"room_number"`
}

type Category struct {
	Name         string `json:"name"`
	AssignedRole string `json:"assigned_role"`
}

type Assignee struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type RequestResponse struct {
	ID         string         `json:"id"`
	GuestID    string         `json:"guest_id"`
	Type       model.Type     `json:"type"`
	Message    string         `json:"message"`
	Status     model.Status   `json:"status"`
	Priority   model.Priority `json:"priority"`
	CategoryID *string        `json:"category_id"`
	AssignedTo *string        `json:"assigned_to"`
	AssignedAt *string        `json:"assigned_at"`
	ResolvedAt *string        `json:"resolved_at"`
	Guest      *Guest         `json:"guest,omitempty"`
	Category   *Category      `json:"category,omitempty"`
	Assignee   *Assignee      `json:"assignee,omitempty"`
	gDto.Metadata
}

func (r *RequestResponse) FromModel(model model.Request) {
	r.ID = model.ID
	r.GuestID = model.GuestID
	r.Type = model.Type
	r.Message = model.Message
	r.Status = model.Status
	r.Priority = model.Priority
	r.CategoryID = model.CategoryID
	r.AssignedTo = model.AssignedTo
	r.AssignedAt = formatTime(model.AssignedAt)
	r.ResolvedAt = formatTime(model.ResolvedAt)
	r.Metadata.FromModel(model.Metadata)

	if model.GuestName != nil {
		r.Guest = &Guest{Name: *model.GuestName, RoomNumber: deref(model.GuestRoom)}
	}

	if model.CategoryName != nil {
		r.Category = &Category{Name: *model.CategoryName, AssignedRole: deref(model.CategoryRole)}
	}

	if model.AssigneeName != nil {
		r.Assignee = &Assignee{Name: *model.AssigneeName, Role: deref(model.AssigneeRole)}
	}
}

type GetRequestsResponse struct {
	Requests  []RequestResponse `json:"requests"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetRequestsResponse) FromModels(models []model.Request, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]RequestResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}

type CandidateResponse struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Role permissions.Role `json:"role"`
}

func CandidatesFromModels(models []staffModel.Staff) []CandidateResponse {
	res := make([]CandidateResponse, len(models))
	for i, mod := range models {
		res[i] = CandidateResponse{ID: mod.ID, Name: mod.Name, Role: mod.Role}
	}

	return res
}

// SearchFilter matches term against the message and the guest it was filed for,
// by name or room number.
func SearchFilter(term string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.SearchFilter(term, model.TableName, model.FieldMessage),
			gDto.SearchFilter(term, bookingModel.TableName, bookingModel.FieldName, bookingModel.FieldRoomNumber),
		},
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
