package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"kdrama-recommender-be/internal/constant"
	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/pkg/logger"
	"kdrama-recommender-be/internal/repository/contract"
	"kdrama-recommender-be/internal/repository/corpus"
	"kdrama-recommender-be/pkg/personalization"
)

type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
	GetSummary(ctx context.Context, userID string) (*dto.ProfileSummaryResponse, error)
	TopPreferences(ctx context.Context, userID, prefType string, limit int) (*dto.TopPreferencesResponse, error)
	UpdateFromInteraction(ctx context.Context, userID string, req *dto.RecordInteractionRequest) (*dto.RecordInteractionResponse, error)
}

var ErrDramaNotFound = fmt.Errorf("drama not found")
var ErrUnknownPreferenceType = fmt.Errorf("unknown preference type")

type profileService struct {
	profiles         contract.ProfileRepository
	corpus           *corpus.Corpus
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewProfileService(
	profiles contract.ProfileRepository,
	c *corpus.Corpus,
	publisherService IPublisherService,
	log logger.ILogger,
) IProfileService {
	return &profileService{
		profiles:         profiles,
		corpus:           c,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return s.profiles.Load(ctx, userID)
}

// interactionWeight maps an interaction type to its learning weight,
// scaled down by the rating when one is supplied.
func interactionWeight(interactionType string, rating *float64) float64 {
	var w float64
	switch interactionType {
	case entity.InteractionClick:
		w = constant.WeightClick
	case entity.InteractionWatchlistAdd:
		w = constant.WeightWatchlistAdd
	case entity.InteractionWatched:
		w = constant.WeightWatched
	default:
		w = constant.WeightDefault
	}
	if rating != nil {
		r := math.Min(math.Max(*rating, 0), 5)
		w *= r / 5.0
	}
	return w
}

// emaUpdate applies new = old*0.8 + weight*0.2 for the label, clamped
// to [0,1]. Unseen labels start at the neutral affinity.
func emaUpdate(prefs map[string]float64, label string, weight float64) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return
	}
	old, ok := prefs[label]
	if !ok {
		old = constant.DefaultAffinity
	}
	updated := old*constant.EMAKeep + weight*constant.EMALearn
	prefs[label] = math.Min(math.Max(updated, 0), 1)
}

func (s *profileService) UpdateFromInteraction(ctx context.Context, userID string, req *dto.RecordInteractionRequest) (*dto.RecordInteractionResponse, error) {
	idx, ok := s.corpus.IndexOf(req.DramaTitle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDramaNotFound, req.DramaTitle)
	}
	drama := s.corpus.Item(idx)

	weight := interactionWeight(req.InteractionType, req.Rating)

	profile, err := s.profiles.Update(ctx, userID, func(p *entity.UserProfile) error {
		s.applyInteraction(p, drama, req, weight)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisherService.PublishInteraction(ctx, userID, drama.Title, req.InteractionType, req.Rating)

	s.logger.Info("profile", "interaction recorded", map[string]interface{}{
		"user_id": userID,
		"title":   drama.Title,
		"type":    req.InteractionType,
		"weight":  weight,
	})

	return &dto.RecordInteractionResponse{
		UserID:            userID,
		TotalInteractions: profile.Statistics.TotalInteractions,
		Persona:           derivePersona(profile),
	}, nil
}

func (s *profileService) applyInteraction(p *entity.UserProfile, drama *entity.Drama, req *dto.RecordInteractionRequest, weight float64) {
	// Statistics.
	p.Statistics.TotalInteractions++
	switch req.InteractionType {
	case entity.InteractionClick:
		p.Statistics.TotalClicks++
	case entity.InteractionWatchlistAdd:
		p.Statistics.TotalWatchlistAdds++
	case entity.InteractionWatched:
		p.Statistics.TotalWatched++
	}
	if req.Rating != nil {
		r := math.Min(math.Max(*req.Rating, 0), 5)
		total := p.Statistics.AvgRating*float64(p.Statistics.TotalRatings) + r
		p.Statistics.TotalRatings++
		p.Statistics.AvgRating = total / float64(p.Statistics.TotalRatings)
	}

	// Preference maps.
	for _, genre := range drama.GenreList() {
		emaUpdate(p.Preferences.Genres, genre, weight)
	}
	cast := drama.CastList()
	if len(cast) > constant.MaxTrackedActors {
		cast = cast[:constant.MaxTrackedActors]
	}
	for _, actor := range cast {
		emaUpdate(p.Preferences.Actors, actor, weight)
	}
	emaUpdate(p.Preferences.Directors, drama.DirectorField(), weight)
	emaUpdate(p.Preferences.Publishers, drama.Publisher, weight)
	for _, theme := range personalization.MatchThemes(drama) {
		emaUpdate(p.Preferences.Themes, theme, weight)
	}

	// Viewing patterns.
	s.updateViewingPatterns(p, drama)
	if avg := p.Statistics.AvgRating; p.Statistics.TotalRatings > 0 {
		switch {
		case avg >= 4.5:
			p.ViewingPatterns.RatingStyle = "generous"
		case avg <= 3.5:
			p.ViewingPatterns.RatingStyle = "critical"
		default:
			p.ViewingPatterns.RatingStyle = "neutral"
		}
	}

	// Recent-interaction log, newest first.
	p.RecentInteractions = append([]entity.RecentInteraction{{
		DramaTitle:      drama.Title,
		InteractionType: req.InteractionType,
		Timestamp:       time.Now(),
	}}, p.RecentInteractions...)
	if len(p.RecentInteractions) > constant.MaxRecentInteractions {
		p.RecentInteractions = p.RecentInteractions[:constant.MaxRecentInteractions]
	}

	// Cap every preference map.
	prunePreferences(p.Preferences.Genres)
	prunePreferences(p.Preferences.Actors)
	prunePreferences(p.Preferences.Directors)
	prunePreferences(p.Preferences.Themes)
	prunePreferences(p.Preferences.Publishers)
}

func (s *profileService) updateViewingPatterns(p *entity.UserProfile, drama *entity.Drama) {
	if eps, ok := drama.Episodes.Float(); ok {
		n := int(eps)
		if p.ViewingPatterns.PreferredEpisodeCount == nil {
			p.ViewingPatterns.PreferredEpisodeCount = &n
		} else {
			// Moving average weighted 0.7 old / 0.3 new.
			avg := int(float64(*p.ViewingPatterns.PreferredEpisodeCount)*0.7 + float64(n)*0.3)
			p.ViewingPatterns.PreferredEpisodeCount = &avg
		}
	}

	if yf, ok := drama.YearAired.Float(); ok {
		year := int(yf)
		years := []int{year}
		for _, y := range p.ViewingPatterns.PreferredYears {
			if y != year {
				years = append(years, y)
			}
		}
		if len(years) > 5 {
			years = years[:5]
		}
		p.ViewingPatterns.PreferredYears = years
	}

	if p.Statistics.TotalWatched >= constant.BingeWatchedThreshold {
		p.ViewingPatterns.BingeWatcher = true
	}
}

// prunePreferences keeps only the top entries by affinity.
func prunePreferences(prefs map[string]float64) {
	if len(prefs) <= constant.MaxPreferenceEntries {
		return
	}
	type kv struct {
		k string
		v float64
	}
	entries := make([]kv, 0, len(prefs))
	for k, v := range prefs {
		entries = append(entries, kv{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].v != entries[j].v {
			return entries[i].v > entries[j].v
		}
		return entries[i].k < entries[j].k
	})
	for _, e := range entries[constant.MaxPreferenceEntries:] {
		delete(prefs, e.k)
	}
}

// derivePersona labels the profile by its strongest genre affinity.
// No learned genres yet means there is nothing to label.
func derivePersona(p *entity.UserProfile) string {
	if len(p.Preferences.Genres) == 0 {
		return "New Viewer"
	}
	topGenre, topScore := "", 0.0
	for genre, score := range p.Preferences.Genres {
		if score > topScore || (score == topScore && genre < topGenre) {
			topGenre, topScore = genre, score
		}
	}
	caser := func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
	switch {
	case topScore >= 0.8:
		return fmt.Sprintf("%s Drama Enthusiast", caser(topGenre))
	case topScore >= 0.6:
		return fmt.Sprintf("%s Fan", caser(topGenre))
	default:
		return "Diverse Viewer"
	}
}

func (s *profileService) GetSummary(ctx context.Context, userID string) (*dto.ProfileSummaryResponse, error) {
	profile, err := s.profiles.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := make([]dto.RecentActivity, 0, len(profile.RecentInteractions))
	for i, ri := range profile.RecentInteractions {
		if i >= 10 {
			break
		}
		recent = append(recent, dto.RecentActivity{
			DramaTitle:      ri.DramaTitle,
			InteractionType: ri.InteractionType,
			Timestamp:       ri.Timestamp,
		})
	}

	return &dto.ProfileSummaryResponse{
		UserID:            profile.UserID,
		Persona:           derivePersona(profile),
		CreatedAt:         profile.CreatedAt,
		LastUpdated:       profile.LastUpdated,
		TotalInteractions: profile.Statistics.TotalInteractions,
		TotalWatched:      profile.Statistics.TotalWatched,
		AvgRating:         profile.Statistics.AvgRating,
		RatingStyle:       profile.ViewingPatterns.RatingStyle,
		BingeWatcher:      profile.ViewingPatterns.BingeWatcher,
		TopGenres:         topEntries(profile.Preferences.Genres, 5),
		TopActors:         topEntries(profile.Preferences.Actors, 5),
		TopThemes:         topEntries(profile.Preferences.Themes, 5),
		RecentActivity:    recent,
	}, nil
}

func (s *profileService) TopPreferences(ctx context.Context, userID, prefType string, limit int) (*dto.TopPreferencesResponse, error) {
	profile, err := s.profiles.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := profile.PreferenceMap(prefType)
	if prefs == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreferenceType, prefType)
	}
	if limit <= 0 {
		limit = 10
	}
	return &dto.TopPreferencesResponse{
		UserID:      userID,
		Type:        prefType,
		Preferences: topEntries(prefs, limit),
	}, nil
}

func topEntries(prefs map[string]float64, limit int) []dto.PreferenceEntry {
	entries := make([]dto.PreferenceEntry, 0, len(prefs))
	for k, v := range prefs {
		entries = append(entries, dto.PreferenceEntry{Name: k, Affinity: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Affinity != entries[j].Affinity {
			return entries[i].Affinity > entries[j].Affinity
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
