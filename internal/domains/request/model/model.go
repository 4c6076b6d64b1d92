package model

import (
	bookingModel "concierge/internal/domains/booking/model"
	categoryModel "concierge/internal/domains/category/model"
	staffModel "concierge/internal/domains/staff/model"
	"concierge/shared/model"
	"fmt"
	"time"
)

const (
	TableName  = "requests"
	EntityName = "request"

	FieldID         = "id"
	FieldGuestID    = "guest_id"
	FieldType       = "type"
	FieldMessage    = "message"
	FieldStatus     = "status"
	FieldPriority   = "priority"
	FieldCategoryID = "category_id"
	FieldAssignedTo = "assigned_to"
	FieldAssignedAt = "assigned_at"
	FieldResolvedAt = "resolved_at"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}

	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}

	return false
}

type Type string

const (
	TypeRequest   Type = "request"
	TypeComplaint Type = "complaint"
)

func (t Type) IsValid() bool {
	return t == TypeRequest || t == TypeComplaint
}

// Request is a guest need or complaint. The pointer fields below Metadata come
// from left joins and are empty when the related row is absent.
type Request struct {
	ID         string     `db:"id"`
	GuestID    string     `db:"guest_id"`
	Type       Type       `db:"type"`
	Message    string     `db:"message"`
	Status     Status     `db:"status"`
	Priority   Priority   `db:"priority"`
	CategoryID *string    `db:"category_id"`
	AssignedTo *string    `db:"assigned_to"`
	AssignedAt *time.Time `db:"assigned_at"`
	ResolvedAt *time.Time `db:"resolved_at"`
	model.Metadata

	GuestName    *string `column:"name"          db:"guest_name"    table:"bookings"`
	GuestRoom    *string `column:"room_number"   db:"guest_room"    table:"bookings"`
	CategoryName *string `column:"name"          db:"category_name" table:"request_categories"`
	CategoryRole *string `column:"assigned_role" db:"category_role" table:"request_categories"`
	AssigneeName *string `column:"name"          db:"assignee_name" table:"staff_users"`
	AssigneeRole *string `column:"role"          db:"assignee_role" table:"staff_users"`
}

func (Request) GetJoinQuery() string {
	return fmt.Sprintf(
		"LEFT JOIN %[1]s ON %[1]s.id = %[2]s.guest_id LEFT JOIN %[3]s ON %[3]s.id = %[2]s.category_id LEFT JOIN %[4]s ON %[4]s.id = %[2]s.assigned_to",
		bookingModel.TableName, TableName, categoryModel.TableName, staffModel.TableName,
	)
}

// IsAssignedTo reports whether staffID currently owns the request.
func (r Request) IsAssignedTo(staffID string) bool {
	return r.AssignedTo != nil && staffID != "" && *r.AssignedTo == staffID
}
