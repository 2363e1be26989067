package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-buddy-be/internal/constant"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/repository/memory"
	"onboarding-buddy-be/pkg/events"
)

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []string
	types []string
}

func (n *recordingNotifier) BroadcastSystemNotification(message, notificationType string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, message)
	n.types = append(n.types, notificationType)
}

func (n *recordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func loadedStore(t *testing.T, ids ...string) *memory.SessionStore {
	t.Helper()
	store := memory.NewSessionStore(logger.NewNopLogger())
	for _, id := range ids {
		store.GetOrCreate(id)
		store.MarkTrainingContextLoaded(id, "**Doc** (Category: HR)\ntext", []string{"m1"})
	}
	return store
}

func TestMaterialChange_LocalRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sessions := loadedStore(t, "a", "b")
	notifier := &recordingNotifier{}
	bus := &recordingBus{}

	consumer := NewConsumerService(pubSub, constant.TrainingMaterialsChangedTopic, sessions, notifier, "instance-1", logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(constant.TrainingMaterialsChangedTopic, pubSub, bus, "instance-1", logger.NewNopLogger())
	materialID := uuid.New()
	require.NoError(t, publisher.PublishMaterialsChanged(context.Background(), materialID, events.ActionUpdated))

	assert.Eventually(t, func() bool {
		return !sessions.HasTrainingContext("a") && !sessions.HasTrainingContext("b")
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return notifier.Count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, TrainingUpdateNotificationType, notifier.types[0])

	bus.mu.Lock()
	require.Len(t, bus.events, 1)
	assert.Equal(t, materialID.String(), events.StringField(bus.events[0], "material_id"))
	assert.Equal(t, "instance-1", events.StringField(bus.events[0], "origin_instance"))
	bus.mu.Unlock()
}

func TestMaterialChange_ForeignOriginDoesNotNotify(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sessions := loadedStore(t, "a")
	notifier := &recordingNotifier{}

	consumer := NewConsumerService(pubSub, constant.TrainingMaterialsChangedTopic, sessions, notifier, "instance-1", logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(constant.TrainingMaterialsChangedTopic, pubSub, nil, "instance-2", logger.NewNopLogger())
	require.NoError(t, publisher.PublishMaterialsChanged(context.Background(), uuid.New(), events.ActionDeleted))

	assert.Eventually(t, func() bool { return !sessions.HasTrainingContext("a") }, time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return notifier.Count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestHandleRemoteEvent(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		invalidated bool
	}{
		{"other instance invalidates", "instance-2", true},
		{"own echo is ignored", "instance-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := loadedStore(t, "a")
			consumer := NewConsumerService(nil, constant.TrainingMaterialsChangedTopic, sessions, nil, "instance-1", logger.NewNopLogger())

			evt := events.NewTrainingMaterialsChanged(uuid.NewString(), events.ActionCreated, tt.origin, time.Now())
			require.NoError(t, consumer.HandleRemoteEvent(context.Background(), evt))

			assert.Equal(t, !tt.invalidated, sessions.HasTrainingContext("a"))
		})
	}
}
