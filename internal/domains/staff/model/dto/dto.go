package dto

import (
	"concierge/internal/domains/staff/model"
	"concierge/permissions"
	"concierge/shared"
	gDto "concierge/shared/dto"
	gModel "concierge/shared/model"
	"concierge/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

type CreateStaffRequest struct {
	Name     string           `json:"name"     validate:"required,max=100"`
	Email    string           `json:"email"    validate:"required,email,max=100"`
	Role     permissions.Role `json:"role"     validate:"required,enum"`
	Password string           `json:"password" validate:"required,min=6,max=72"`
}

// ToModel builds an active staff record. Emails are stored lower-cased.
func (r *CreateStaffRequest) ToModel(actor, passwordHash string) model.Staff {
	return model.Staff{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(r.Email),
		Name:         strings.TrimSpace(r.Name),
		Role:         r.Role,
		PasswordHash: passwordHash,
		IsActive:     true,
		Metadata:     gModel.NewMetadata(actor, timezone.Now()),
	}
}

// NormalizeEmail is applied on every write and lookup so addresses compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UpdateStaffStatusRequest struct {
	IsActive *bool `db:"is_active" json:"is_active" validate:"required"`
}

type StaffResponse struct {
	ID          string                   `json:"id"`
	Email       string                   `json:"email"`
	Name        string                   `json:"name"`
	Role        permissions.Role         `json:"role"`
	IsActive    bool                     `json:"is_active"`
	Permissions []permissions.Permission `json:"permissions"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(model model.Staff) {
	r.ID = model.ID
	r.Email = model.Email
	r.Name = model.Name
	r.Role = model.Role
	r.IsActive = model.IsActive
	r.Permissions = permissions.For(model.Role)
	r.Metadata.FromModel(model.Metadata)
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}
