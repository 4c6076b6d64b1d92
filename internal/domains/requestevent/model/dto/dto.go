package dto

import (
	"concierge/internal/domains/requestevent/model"
	"concierge/shared/constant"
	"concierge/shared/timezone"
)

type EventResponse struct {
	ID         string     `json:"id"`
	RequestID  string     `json:"request_id"`
	Type       model.Type `json:"type"`
	ActorID    string     `json:"actor_id"`
	From       string     `json:"from,omitempty"`
	To         string     `json:"to,omitempty"`
	OccurredAt string     `json:"occurred_at"`
}

func (r *EventResponse) FromModel(model model.Event) {
	r.ID = model.ID
	r.RequestID = model.RequestID
	r.Type = model.Type
	r.ActorID = model.ActorID
	r.OccurredAt = timezone.Format(model.OccurredAt, constant.DateFormat)

	if model.FromValue != nil {
		r.From = *model.FromValue
	}

	if model.ToValue != nil {
		r.To = *model.ToValue
	}
}

func FromModels(models []model.Event) []EventResponse {
	res := make([]EventResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
