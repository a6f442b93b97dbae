package dto

// RecommendRequest carries the query-string parameters of the
// recommend endpoint. All fields are optional; an empty request
// returns the top dramas of the whole catalog.
type RecommendRequest struct {
	Query     string `query:"query"`
	TopN      int    `query:"top_n" validate:"omitempty,min=1,max=50"`
	Alpha     string `query:"alpha"` // parsed leniently, blank means default
	UserID    string `query:"user_id"`
	Boost     string `query:"boost"` // "false" disables preference boosting
	SimilarTo string `query:"similar_to"`
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	TopRated  bool   `query:"top_rated"`

	// Filters.
	Genre         string `query:"genre"`
	Director      string `query:"director"`
	Publisher     string `query:"publisher"`
	Description   string `query:"description"`
	Keywords      string `query:"keywords"`
	Screenwriters string `query:"screenwriters"`
	RatingValue   string `query:"rating_value"`
	RatingCount   string `query:"rating_count"`
}

type RecommendResponseItem struct {
	Title       string        `json:"title"`
	Genre       string        `json:"genre"`
	Description string        `json:"description"`
	Cast        string        `json:"cast"`
	Director    string        `json:"director"`
	Publisher   string        `json:"publisher"`
	Rating      float64       `json:"rating"`
	Episodes    string        `json:"episodes"`
	YearAired   string        `json:"year_aired"`
	Score       float64       `json:"score"`
	BaseScore   float64       `json:"base_score,omitempty"`
	Boost       *BoostDetails `json:"boost,omitempty"`
	Reason      string        `json:"reason,omitempty"`
}

type BoostDetails struct {
	GenreBoost    float64 `json:"genre_boost"`
	ActorBoost    float64 `json:"actor_boost"`
	DirectorBoost float64 `json:"director_boost"`
	ThemeBoost    float64 `json:"theme_boost"`
	Multiplier    float64 `json:"multiplier"`
}

type RecommendResponse struct {
	Query        string                  `json:"query"`
	MatchedTitle string                  `json:"matched_title,omitempty"`
	MatchType    string                  `json:"match_type"`
	Alpha        float64                 `json:"alpha"`
	Personalized bool                    `json:"personalized"`
	Filters      map[string]string       `json:"filters,omitempty"`
	Message      string                  `json:"message,omitempty"`
	Results      []RecommendResponseItem `json:"results"`
}
