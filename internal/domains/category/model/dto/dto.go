package dto

import (
	"concierge/internal/domains/category/model"
	"concierge/permissions"
	"concierge/shared"
	"slices"
)

type CategoryResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	AssignedRole permissions.Role `json:"assigned_role"`
	Keywords     []string         `json:"keywords"`
}

func (r *CategoryResponse) FromModel(model model.Category) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.AssignedRole = model.AssignedRole
	r.Keywords = slices.Clone([]string(model.Keywords))
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetCategoriesResponse) FromModels(models []model.Category, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Categories = make([]CategoryResponse, len(models))
	for i, mod := range models {
		r.Categories[i].FromModel(mod)
	}
}
