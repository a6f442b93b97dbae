package service

import (
	"context"
	"encoding/json"

	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/pkg/logger"
	"kdrama-recommender-be/pkg/events"
	"kdrama-recommender-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the interaction topic and fans events out to
// the NATS analytics bus. The NATS publisher is optional; without it
// events are only logged.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *nats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.InteractionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("events", "failed to unmarshal interaction event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid messages would retry forever
		return
	}

	cs.logger.Debug("events", "interaction event received", map[string]interface{}{
		"event_id": payload.EventID,
		"user_id":  payload.UserID,
		"type":     payload.InteractionType,
	})

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "DRAMA_INTERACTION",
			Data: map[string]interface{}{
				"event_id":         payload.EventID,
				"user_id":          payload.UserID,
				"drama_title":      payload.DramaTitle,
				"interaction_type": payload.InteractionType,
				"rating":           payload.Rating,
				"occurred_at":      payload.OccurredAt,
			},
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("events", "failed to forward interaction event", map[string]interface{}{
				"event_id": payload.EventID,
				"error":    err.Error(),
			})
		}
	}

	msg.Ack()
}
