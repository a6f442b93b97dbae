package service

import (
	"context"
	"testing"

	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/repository/corpus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// memoryProfileRepository keeps profiles in a map, mirroring the
// load-mutate-save contract of the file-backed implementation.
type memoryProfileRepository struct {
	profiles map[string]*entity.UserProfile
}

func newMemoryProfileRepository() *memoryProfileRepository {
	return &memoryProfileRepository{profiles: map[string]*entity.UserProfile{}}
}

func (r *memoryProfileRepository) Load(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return entity.NewUserProfile(userID), nil
}

func (r *memoryProfileRepository) Save(ctx context.Context, profile *entity.UserProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *memoryProfileRepository) Update(ctx context.Context, userID string, fn func(*entity.UserProfile) error) (*entity.UserProfile, error) {
	p, _ := r.Load(ctx, userID)
	if err := fn(p); err != nil {
		return nil, err
	}
	r.profiles[userID] = p
	return p, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }
func (nopPublisher) PublishInteraction(ctx context.Context, userID, dramaTitle, interactionType string, rating *float64) {
}

func profileTestService(t *testing.T) (IProfileService, *memoryProfileRepository) {
	t.Helper()
	c, err := corpus.New([]entity.Drama{
		{
			Title:     "Hospital Playlist",
			Genre:     "Medical, Comedy",
			Cast:      "Jo Jung-suk, Yoo Yeon-seok, Jung Kyung-ho, Kim Dae-myung, Jeon Mi-do, Extra Actor",
			Director:  "Shin Won-ho",
			Publisher: "tvN",
			Episodes:  "12",
			YearAired: "2020",
		},
		{
			Title: "Signal",
			Genre: "Thriller",
		},
		{
			Title:    "The Glory",
			Genre:    "Drama",
			Keywords: "Revenge, Betrayal",
		},
	})
	require.NoError(t, err)

	repo := newMemoryProfileRepository()
	return NewProfileService(repo, c, nopPublisher{}, nopLogger{}), repo
}

func watched(title string, rating float64) *dto.RecordInteractionRequest {
	return &dto.RecordInteractionRequest{
		DramaTitle:      title,
		InteractionType: entity.InteractionWatched,
		Rating:          &rating,
	}
}

func TestUpdateFromInteractionEMA(t *testing.T) {
	svc, repo := profileTestService(t)
	ctx := context.Background()

	// watched with rating 5.0 carries full weight 1.0.
	_, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
	require.NoError(t, err)
	p := repo.profiles["u1"]
	assert.InDelta(t, 0.6, p.Preferences.Genres["medical"], 1e-9, "0.5*0.8 + 1.0*0.2")

	_, err = svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
	require.NoError(t, err)
	p = repo.profiles["u1"]
	assert.InDelta(t, 0.68, p.Preferences.Genres["medical"], 1e-9, "0.6*0.8 + 1.0*0.2")
}

func TestUpdateFromInteractionEMAConvergence(t *testing.T) {
	svc, repo := profileTestService(t)
	ctx := context.Background()

	prev := 0.5
	for i := 0; i < 40; i++ {
		_, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
		require.NoError(t, err)
		cur := repo.profiles["u1"].Preferences.Genres["medical"]
		assert.Greater(t, cur, prev, "affinity must rise monotonically toward 1")
		assert.LessOrEqual(t, cur, 1.0)
		prev = cur
	}
	assert.Greater(t, prev, 0.99)
}

func TestUpdateFromInteractionWeights(t *testing.T) {
	tests := []struct {
		name            string
		interactionType string
		rating          *float64
		want            float64
	}{
		{"click", entity.InteractionClick, nil, 0.3},
		{"watchlist_add", entity.InteractionWatchlistAdd, nil, 0.6},
		{"watched", entity.InteractionWatched, nil, 1.0},
		{"unknown type", "rating", nil, 0.5},
		{"watched scaled by rating", entity.InteractionWatched, ptrFloat(2.5), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interactionWeight(tt.interactionType, tt.rating)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func ptrFloat(v float64) *float64 { return &v }

func TestUpdateFromInteractionStatisticsAndPatterns(t *testing.T) {
	svc, repo := profileTestService(t)
	ctx := context.Background()

	res, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalInteractions)

	p := repo.profiles["u1"]
	assert.Equal(t, 1, p.Statistics.TotalWatched)
	assert.InDelta(t, 5.0, p.Statistics.AvgRating, 1e-9)
	assert.Equal(t, "generous", p.ViewingPatterns.RatingStyle)

	require.NotNil(t, p.ViewingPatterns.PreferredEpisodeCount)
	assert.Equal(t, 12, *p.ViewingPatterns.PreferredEpisodeCount)
	assert.Equal(t, []int{2020}, p.ViewingPatterns.PreferredYears)

	// Only the first five cast members are tracked.
	assert.Len(t, p.Preferences.Actors, 5)
	assert.NotContains(t, p.Preferences.Actors, "extra actor")

	require.Len(t, p.RecentInteractions, 1)
	assert.Equal(t, "Hospital Playlist", p.RecentInteractions[0].DramaTitle)
}

func TestUpdateFromInteractionLearnsKeywordThemes(t *testing.T) {
	svc, repo := profileTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateFromInteraction(ctx, "u1", watched("The Glory", 5))
	require.NoError(t, err)

	p := repo.profiles["u1"]
	// Each keyword token is learned as a theme in its own right.
	assert.InDelta(t, 0.6, p.Preferences.Themes["revenge"], 1e-9)
	assert.InDelta(t, 0.6, p.Preferences.Themes["betrayal"], 1e-9)
}

func TestUpdateFromInteractionCriticalRatingStyle(t *testing.T) {
	svc, repo := profileTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 2))
	require.NoError(t, err)
	assert.Equal(t, "critical", repo.profiles["u1"].ViewingPatterns.RatingStyle)
}

func TestUpdateFromInteractionUnknownDrama(t *testing.T) {
	svc, _ := profileTestService(t)

	_, err := svc.UpdateFromInteraction(context.Background(), "u1", watched("Nonexistent", 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDramaNotFound)
}

func TestDerivePersona(t *testing.T) {
	p := entity.NewUserProfile("u1")
	assert.Equal(t, "New Viewer", derivePersona(p))

	// Interactions without learned genres still have nothing to label.
	p.Statistics.TotalInteractions = 10
	assert.Equal(t, "New Viewer", derivePersona(p))

	p.Preferences.Genres["medical"] = 0.3
	assert.Equal(t, "Diverse Viewer", derivePersona(p))

	p.Preferences.Genres["medical"] = 0.65
	assert.Equal(t, "Medical Fan", derivePersona(p))

	p.Preferences.Genres["medical"] = 0.85
	assert.Equal(t, "Medical Drama Enthusiast", derivePersona(p))
}

func TestPrunePreferences(t *testing.T) {
	svc, repo := profileTestService(t)
	ctx := context.Background()

	// Pre-load a map beyond the cap; the next update must prune it.
	seed := entity.NewUserProfile("u1")
	for i := 0; i < 80; i++ {
		seed.Preferences.Genres[string(rune('a'+i%26))+string(rune('0'+i/26))] = float64(i) / 100
	}
	repo.profiles["u1"] = seed

	_, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
	require.NoError(t, err)

	p := repo.profiles["u1"]
	assert.LessOrEqual(t, len(p.Preferences.Genres), 50)
	// The freshly reinforced labels survive pruning.
	assert.Contains(t, p.Preferences.Genres, "medical")
}

func TestGetSummary(t *testing.T) {
	svc, _ := profileTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", summary.UserID)
	assert.Equal(t, 1, summary.TotalInteractions)
	assert.NotEmpty(t, summary.TopGenres)
	assert.Equal(t, "medical", summary.TopGenres[0].Name)
}

func TestTopPreferences(t *testing.T) {
	svc, _ := profileTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateFromInteraction(ctx, "u1", watched("Hospital Playlist", 5))
	require.NoError(t, err)

	res, err := svc.TopPreferences(ctx, "u1", entity.PrefGenres, 1)
	require.NoError(t, err)
	require.Len(t, res.Preferences, 1)
	assert.InDelta(t, 0.6, res.Preferences[0].Affinity, 1e-9)

	_, err = svc.TopPreferences(ctx, "u1", "colors", 5)
	assert.ErrorIs(t, err, ErrUnknownPreferenceType)
}

func TestIdempotentProfileLoad(t *testing.T) {
	svc, _ := profileTestService(t)
	ctx := context.Background()

	a, err := svc.GetProfile(ctx, "never-seen")
	require.NoError(t, err)
	b, err := svc.GetProfile(ctx, "never-seen")
	require.NoError(t, err)

	assert.Equal(t, a.UserID, b.UserID)
	assert.Equal(t, a.Preferences, b.Preferences)
	assert.Equal(t, a.Statistics, b.Statistics)
}
