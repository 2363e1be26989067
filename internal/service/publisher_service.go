package service

import (
	"context"
	"encoding/json"
	"time"

	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IPublisherService interface {
	// PublishMaterialsChanged announces a material mutation in-process and,
	// when a bus is configured, to every other instance.
	PublishMaterialsChanged(ctx context.Context, materialID uuid.UUID, action string) error
}

// EventPublisher is the cross-instance bus. *nats.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName  string
	publisher  message.Publisher
	bus        EventPublisher
	instanceID string
	logger     logger.ILogger
}

func NewPublisherService(
	topicName string,
	publisher message.Publisher,
	bus EventPublisher,
	instanceID string,
	log logger.ILogger,
) IPublisherService {
	return &publisherService{
		topicName:  topicName,
		publisher:  publisher,
		bus:        bus,
		instanceID: instanceID,
		logger:     log,
	}
}

func (ps *publisherService) PublishMaterialsChanged(ctx context.Context, materialID uuid.UUID, action string) error {
	now := time.Now()

	payload, err := json.Marshal(dto.TrainingMaterialsChangedMessage{
		MaterialId:     materialID,
		Action:         action,
		OriginInstance: ps.instanceID,
		OccurredAt:     now,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		return err
	}

	if ps.bus != nil {
		evt := events.NewTrainingMaterialsChanged(materialID.String(), action, ps.instanceID, now)
		// A bus outage does not fail the edit.
		if err := ps.bus.Publish(ctx, evt); err != nil {
			ps.logger.Warn("PublisherService", "Failed to forward material change to bus", map[string]interface{}{
				"material_id": materialID.String(),
				"action":      action,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
