package dto

import (
	"concierge/shared/constant"
	"concierge/shared/model"
	"concierge/shared/timezone"
)

// Metadata is the audit trail every response carries: who wrote the row and
// when, with times rendered in the hotel's zone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

// FromModel copies the stored audit columns, formatting both timestamps with
// constant.DateFormat.
func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	m.ModifiedAt = timezone.Format(model.ModifiedAt, constant.DateFormat)
	m.CreatedBy = model.CreatedBy
	m.ModifiedBy = model.ModifiedBy
}
