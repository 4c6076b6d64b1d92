package model

import (
	"concierge/permissions"
	"concierge/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "request_categories"
	EntityName = "category"

	FieldID           = "id"
	FieldName         = "name"
	FieldAssignedRole = "assigned_role"
)

// Category routes a request topic to the role expected to resolve it.
type Category struct {
	ID           string           `db:"id"`
	Name         string           `db:"name"`
	Description  string           `db:"description"`
	AssignedRole permissions.Role `db:"assigned_role"`
	Keywords     pq.StringArray   `db:"keywords"`
	model.Metadata
}
