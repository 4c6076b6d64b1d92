// Package policy holds the request lifecycle rules. It never touches storage:
// every function either answers a question or returns the columns a caller
// should write in one row update.
package policy

import (
	categoryModel "concierge/internal/domains/category/model"
	"concierge/internal/domains/request/model"
	staffModel "concierge/internal/domains/staff/model"
	"concierge/permissions"
	gDto "concierge/shared/dto"
	"concierge/shared/failure"
	"concierge/shared/session"
	"strings"
	"time"
)

// Fields maps request columns to the values one update writes.
type Fields map[string]any

// StatusChange moves req to next. Entering resolved stamps resolved_at; leaving
// it keeps the old stamp, so a reopened request still shows when it was resolved.
func StatusChange(req model.Request, next model.Status, now time.Time) (Fields, error) {
	if !next.IsValid() {
		return nil, failure.BadRequestFromString("status must be one of pending, in_progress, resolved")
	}

	fields := Fields{model.FieldStatus: next}

	if next == model.StatusResolved {
		resolvedAt := now
		if resolvedAt.Before(req.CreatedAt) {
			resolvedAt = req.CreatedAt
		}

		fields[model.FieldResolvedAt] = resolvedAt
	}

	return fields, nil
}

// Assignment binds the request to staffID and puts it in progress whatever its
// status was, resolved included. The previous assignee, if any, is overwritten.
func Assignment(staffID string, now time.Time) Fields {
	return Fields{
		model.FieldAssignedTo: staffID,
		model.FieldAssignedAt: now,
		model.FieldStatus:     model.StatusInProgress,
	}
}

func PriorityChange(priority model.Priority) (Fields, error) {
	if !priority.IsValid() {
		return nil, failure.BadRequestFromString("priority must be one of low, medium, high")
	}

	return Fields{model.FieldPriority: priority}, nil
}

// Eligible reports whether staff may be assigned a request in category.
// Inactive staff never are. Without a category anyone active is; otherwise the
// role must match the category's, or be admin.
func Eligible(staff staffModel.Staff, category *categoryModel.Category) bool {
	if !staff.IsActive {
		return false
	}

	if category == nil {
		return true
	}

	return staff.Role == category.AssignedRole || staff.Role == permissions.RoleAdmin
}

// Candidates keeps the eligible staff, preserving order.
func Candidates(staff []staffModel.Staff, category *categoryModel.Category) []staffModel.Staff {
	candidates := make([]staffModel.Staff, 0, len(staff))

	for _, member := range staff {
		if Eligible(member, category) {
			candidates = append(candidates, member)
		}
	}

	return candidates
}

// Visibility is the list filter for identity: nothing for request managers,
// otherwise only the requests assigned to them. A missing identity sees nothing.
func Visibility(identity *session.Identity) gDto.FilterGroup {
	if identity.HasPermission(permissions.ManageRequests) {
		return gDto.FilterGroup{}
	}

	if identity == nil || identity.ID == "" {
		return gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Operator: gDto.FilterPlainQuery, Value: "1 = 0"},
			},
		}
	}

	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				ArgName:  "visible_to",
				Field:    model.FieldAssignedTo,
				Value:    identity.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

// CanView applies Visibility to a single request.
func CanView(identity *session.Identity, req model.Request) bool {
	if identity.HasPermission(permissions.ManageRequests) {
		return true
	}

	return identity != nil && req.IsAssignedTo(identity.ID)
}

// CanUpdateStatus reports whether identity may change req's status: request
// managers always, holders of update_requests only on their own assignments.
func CanUpdateStatus(identity *session.Identity, req model.Request) bool {
	if identity.HasPermission(permissions.ManageRequests) {
		return true
	}

	return identity.HasPermission(permissions.UpdateRequests) && req.IsAssignedTo(identity.ID)
}

// Classify returns the first category with a keyword found in message, ignoring case.
func Classify(message string, categories []categoryModel.Category) *categoryModel.Category {
	text := strings.ToLower(message)

	for i := range categories {
		for _, keyword := range categories[i].Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" && strings.Contains(text, keyword) {
				return &categories[i]
			}
		}
	}

	return nil
}
