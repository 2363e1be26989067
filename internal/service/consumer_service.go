package service

import (
	"context"
	"encoding/json"

	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	consumerModule = "ConsumerService"

	TrainingUpdateNotificationType = "training_update"
	TrainingUpdateNotification     = "Training materials have been updated. New information is now available."
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// HandleRemoteEvent applies a material change announced by another instance.
	HandleRemoteEvent(ctx context.Context, event events.Event) error
}

// ContextInvalidator drops every cached training context. *memory.SessionStore satisfies it.
type ContextInvalidator interface {
	InvalidateAllTrainingContexts() int
}

// SystemNotifier pushes a notice to every connected client, cluster wide.
type SystemNotifier interface {
	BroadcastSystemNotification(message, notificationType string)
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	invalidator ContextInvalidator
	notifier    SystemNotifier
	instanceID  string
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	invalidator ContextInvalidator,
	notifier SystemNotifier,
	instanceID string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		invalidator: invalidator,
		notifier:    notifier,
		instanceID:  instanceID,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.TrainingMaterialsChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal material change", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	cleared := cs.invalidator.InvalidateAllTrainingContexts()
	cs.logger.Info(consumerModule, "Training contexts invalidated", map[string]interface{}{
		"material_id": payload.MaterialId.String(),
		"action":      payload.Action,
		"sessions":    cleared,
	})

	// Only the instance that made the edit notifies; the hub fans out to the rest.
	if payload.OriginInstance == cs.instanceID && cs.notifier != nil {
		cs.notifier.BroadcastSystemNotification(TrainingUpdateNotification, TrainingUpdateNotificationType)
	}

	msg.Ack()
}

func (cs *consumerService) HandleRemoteEvent(ctx context.Context, event events.Event) error {
	origin := events.StringField(event, "origin_instance")
	if origin == cs.instanceID {
		// Already applied through the in-process channel.
		return nil
	}

	cleared := cs.invalidator.InvalidateAllTrainingContexts()
	cs.logger.Info(consumerModule, "Training contexts invalidated by remote change", map[string]interface{}{
		"material_id":     events.StringField(event, "material_id"),
		"action":          events.StringField(event, "action"),
		"origin_instance": origin,
		"sessions":        cleared,
	})
	return nil
}
