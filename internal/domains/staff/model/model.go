package model

import (
	"concierge/permissions"
	"concierge/shared/model"
	"concierge/shared/session"
)

const (
	TableName  = "staff_users"
	EntityName = "staff"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldName         = "name"
	FieldRole         = "role"
	FieldPasswordHash = "password_hash"
	FieldIsActive     = "is_active"
)

type Staff struct {
	ID           string           `db:"id"`
	Email        string           `db:"email"`
	Name         string           `db:"name"`
	Role         permissions.Role `db:"role"`
	PasswordHash string           `db:"password_hash"`
	IsActive     bool             `db:"is_active"`
	model.Metadata
}

// Identity is the session record for this staff member.
func (s Staff) Identity() session.Identity {
	return session.Identity{
		ID:       s.ID,
		Email:    s.Email,
		Name:     s.Name,
		Role:     s.Role,
		IsActive: s.IsActive,
	}
}
