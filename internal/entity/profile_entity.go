package entity

import "time"

// Preference map keys. Each map holds label -> affinity score in [0,1].
const (
	PrefGenres     = "genres"
	PrefActors     = "actors"
	PrefDirectors  = "directors"
	PrefThemes     = "themes"
	PrefPublishers = "publishers"
)

// Interaction types and their learning weights.
const (
	InteractionClick        = "click"
	InteractionWatchlistAdd = "watchlist_add"
	InteractionWatched      = "watched"
)

type Preferences struct {
	Genres     map[string]float64 `json:"genres"`
	Actors     map[string]float64 `json:"actors"`
	Directors  map[string]float64 `json:"directors"`
	Themes     map[string]float64 `json:"themes"`
	Publishers map[string]float64 `json:"publishers"`
}

type Statistics struct {
	TotalInteractions  int     `json:"total_interactions"`
	TotalClicks        int     `json:"total_clicks"`
	TotalWatchlistAdds int     `json:"total_watchlist_adds"`
	TotalWatched       int     `json:"total_watched"`
	AvgRating          float64 `json:"avg_rating"`
	TotalRatings       int     `json:"total_ratings"`
}

type ViewingPatterns struct {
	PreferredEpisodeCount *int   `json:"preferred_episode_count"`
	PreferredYears        []int  `json:"preferred_years"`
	BingeWatcher          bool   `json:"binge_watcher"`
	RatingStyle           string `json:"rating_style"` // generous, neutral, critical
}

type RecentInteraction struct {
	DramaTitle      string    `json:"drama_title"`
	InteractionType string    `json:"interaction_type"`
	Timestamp       time.Time `json:"timestamp"`
}

// UserProfile is the persisted per-user preference model. One JSON file
// per user, rewritten wholesale on every update.
type UserProfile struct {
	UserID             string              `json:"user_id"`
	CreatedAt          time.Time           `json:"created_at"`
	LastUpdated        time.Time           `json:"last_updated"`
	Preferences        Preferences         `json:"preferences"`
	Statistics         Statistics          `json:"statistics"`
	ViewingPatterns    ViewingPatterns     `json:"viewing_patterns"`
	RecentInteractions []RecentInteraction `json:"recent_interactions"`
}

// NewUserProfile returns a fresh default profile: empty preference
// maps, zeroed statistics, neutral rating style.
func NewUserProfile(userID string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:      userID,
		CreatedAt:   now,
		LastUpdated: now,
		Preferences: Preferences{
			Genres:     map[string]float64{},
			Actors:     map[string]float64{},
			Directors:  map[string]float64{},
			Themes:     map[string]float64{},
			Publishers: map[string]float64{},
		},
		ViewingPatterns: ViewingPatterns{
			PreferredYears: []int{},
			RatingStyle:    "neutral",
		},
		RecentInteractions: []RecentInteraction{},
	}
}

// PreferenceMap returns the named preference map (nil for unknown names).
func (p *UserProfile) PreferenceMap(name string) map[string]float64 {
	switch name {
	case PrefGenres:
		return p.Preferences.Genres
	case PrefActors:
		return p.Preferences.Actors
	case PrefDirectors:
		return p.Preferences.Directors
	case PrefThemes:
		return p.Preferences.Themes
	case PrefPublishers:
		return p.Preferences.Publishers
	}
	return nil
}
