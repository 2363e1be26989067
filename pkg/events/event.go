package events

import (
	"fmt"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted code for this event (e.g. "training_materials.changed").
	// Bus subjects are derived from it.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the bus subject an event type is published on.
func Subject(eventType string) string {
	return fmt.Sprintf("events.%s", eventType)
}

const TrainingMaterialsChanged = "training_materials.changed"

// Material change actions.
const (
	ActionCreated           = "created"
	ActionUpdated           = "updated"
	ActionDeleted           = "deleted"
	ActionAttachmentAdded   = "attachment_added"
	ActionAttachmentRemoved = "attachment_removed"
)

// NewTrainingMaterialsChanged builds the event every instance reacts to by
// dropping its cached training contexts.
func NewTrainingMaterialsChanged(materialID, action, originInstance string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		Type: TrainingMaterialsChanged,
		Data: map[string]interface{}{
			"material_id":     materialID,
			"action":          action,
			"origin_instance": originInstance,
			"occurred_at":     occurredAt.UTC().Format(time.RFC3339Nano),
		},
		OccurredAt: occurredAt,
	}
}

// StringField reads a string value from an event payload.
func StringField(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}
