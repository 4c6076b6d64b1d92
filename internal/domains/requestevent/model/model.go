package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableName  = "request_events"
	EntityName = "request_event"

	FieldID         = "id"
	FieldRequestID  = "request_id"
	FieldOccurredAt = "occurred_at"
)

type Type string

const (
	TypeCreated         Type = "created"
	TypeAssigned        Type = "assigned"
	TypeStatusChanged   Type = "status_changed"
	TypePriorityChanged Type = "priority_changed"
)

// Event is one entry of a request's audit trail. From and To carry the old and
// new value of whatever the event changed; the assignee id for assignments.
type Event struct {
	ID         string    `db:"id"          json:"id"`
	RequestID  string    `db:"request_id"  json:"request_id"`
	Type       Type      `db:"type"        json:"type"`
	ActorID    string    `db:"actor_id"    json:"actor_id"`
	FromValue  *string   `db:"from_value"  json:"from_value,omitempty"`
	ToValue    *string   `db:"to_value"    json:"to_value,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

func New(requestID string, eventType Type, actorID, from, to string, at time.Time) Event {
	event := Event{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Type:       eventType,
		ActorID:    actorID,
		OccurredAt: at,
	}

	if from != "" {
		event.FromValue = &from
	}

	if to != "" {
		event.ToValue = &to
	}

	return event
}
