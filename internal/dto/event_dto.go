package dto

import "time"

// InteractionEventMessage is the payload published on the interaction
// topic for every recorded interaction.
type InteractionEventMessage struct {
	EventID         string    `json:"event_id"`
	UserID          string    `json:"user_id"`
	DramaTitle      string    `json:"drama_title"`
	InteractionType string    `json:"interaction_type"`
	Rating          *float64  `json:"rating,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
