package domain

import (
	"time"
)

// QuestionEventType names a change to the question set
type QuestionEventType string

const (
	QuestionEventCreated     QuestionEventType = "question.created"
	QuestionEventUpdated     QuestionEventType = "question.updated"
	QuestionEventDeleted     QuestionEventType = "question.deleted"
	QuestionEventBulkCreated QuestionEventType = "question.bulk_created"
)

// QuestionEvent tells downstream caches which questions changed
type QuestionEvent struct {
	EventID     string            `json:"eventId"`
	Type        QuestionEventType `json:"type"`
	QuestionIDs []string          `json:"questionIds"`
	ActorID     string            `json:"actorId,omitempty"`
	OccurredAt  time.Time         `json:"occurredAt"`
}

// Key partitions events. Single-question events key by the question id.
func (e *QuestionEvent) Key() string {
	if len(e.QuestionIDs) == 1 {
		return e.QuestionIDs[0]
	}
	return string(e.Type)
}
