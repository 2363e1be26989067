package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTrainingMaterialsChanged(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	evt := NewTrainingMaterialsChanged("m-1", ActionUpdated, "instance-a", at)

	assert.Equal(t, TrainingMaterialsChanged, evt.EventType())
	assert.Equal(t, "events.training_materials.changed", Subject(evt.EventType()))
	assert.Equal(t, "m-1", StringField(evt, "material_id"))
	assert.Equal(t, ActionUpdated, StringField(evt, "action"))
	assert.Equal(t, "instance-a", StringField(evt, "origin_instance"))
	assert.Equal(t, "2025-03-01T12:00:00Z", StringField(evt, "occurred_at"))
	assert.Equal(t, at, evt.Timestamp())
}

func TestStringField_MissingOrWrongType(t *testing.T) {
	evt := BaseEvent{Data: map[string]interface{}{"count": 3}}

	assert.Empty(t, StringField(evt, "count"))
	assert.Empty(t, StringField(evt, "missing"))
}
