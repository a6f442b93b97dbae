package dto

import "time"

type RecordInteractionRequest struct {
	DramaTitle      string   `json:"drama_title" validate:"required"`
	InteractionType string   `json:"interaction_type" validate:"required,oneof=click watchlist_add watched rating"`
	Rating          *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
}

type RecordInteractionResponse struct {
	UserID            string `json:"user_id"`
	TotalInteractions int    `json:"total_interactions"`
	Persona           string `json:"persona"`
}

type ProfileSummaryResponse struct {
	UserID            string             `json:"user_id"`
	Persona           string             `json:"persona"`
	CreatedAt         time.Time          `json:"created_at"`
	LastUpdated       time.Time          `json:"last_updated"`
	TotalInteractions int                `json:"total_interactions"`
	TotalWatched      int                `json:"total_watched"`
	AvgRating         float64            `json:"avg_rating"`
	RatingStyle       string             `json:"rating_style"`
	BingeWatcher      bool               `json:"binge_watcher"`
	TopGenres         []PreferenceEntry  `json:"top_genres"`
	TopActors         []PreferenceEntry  `json:"top_actors"`
	TopThemes         []PreferenceEntry  `json:"top_themes"`
	RecentActivity    []RecentActivity   `json:"recent_activity"`
}

type PreferenceEntry struct {
	Name     string  `json:"name"`
	Affinity float64 `json:"affinity"`
}

type RecentActivity struct {
	DramaTitle      string    `json:"drama_title"`
	InteractionType string    `json:"interaction_type"`
	Timestamp       time.Time `json:"timestamp"`
}

type TopPreferencesResponse struct {
	UserID      string            `json:"user_id"`
	Type        string            `json:"type"`
	Preferences []PreferenceEntry `json:"preferences"`
}
