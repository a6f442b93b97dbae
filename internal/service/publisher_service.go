package service

import (
	"context"
	"encoding/json"
	"time"

	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	// PublishInteraction is best-effort: publish failures are logged,
	// never surfaced, so event plumbing cannot fail an interaction.
	PublishInteraction(ctx context.Context, userID, dramaTitle, interactionType string, rating *float64)
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(uuid.New().String(), payload)
	return s.pubSub.Publish(s.topicName, msg)
}

func (s *publisherService) PublishInteraction(ctx context.Context, userID, dramaTitle, interactionType string, rating *float64) {
	event := dto.InteractionEventMessage{
		EventID:         uuid.New().String(),
		UserID:          userID,
		DramaTitle:      dramaTitle,
		InteractionType: interactionType,
		Rating:          rating,
		OccurredAt:      time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("events", "failed to marshal interaction event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.Publish(ctx, payload); err != nil {
		s.logger.Warn("events", "failed to publish interaction event", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
