package personalization

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"kdrama-recommender-be/internal/constant"
	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/pkg/recommend"
)

// BoostDetails breaks down the preference multiplier applied to one
// candidate so the response can explain why it was promoted.
type BoostDetails struct {
	GenreBoost    float64 `json:"genre_boost"`
	ActorBoost    float64 `json:"actor_boost"`
	DirectorBoost float64 `json:"director_boost"`
	ThemeBoost    float64 `json:"theme_boost"`
	Multiplier    float64 `json:"multiplier"`
}

type PersonalizedDrama struct {
	recommend.ScoredDrama
	BaseScore float64
	Boost     *BoostDetails
	Reason    string
}

// Engine rescales ranked candidates against a user's learned
// preference profile.
type Engine struct {
	genreFactor    float64
	actorFactor    float64
	directorFactor float64
	themeFactor    float64
}

func NewEngine() *Engine {
	return &Engine{
		genreFactor:    0.5,
		actorFactor:    0.3,
		directorFactor: 0.2,
		themeFactor:    0.4,
	}
}

// Personalize applies profile-derived boosts to the ranked list and
// re-sorts it. A nil profile leaves scores and order untouched. When
// applyBoost is false the boost details are still computed for
// explanation purposes but scores are not modified.
func (e *Engine) Personalize(results []recommend.ScoredDrama, profile *entity.UserProfile, applyBoost bool) []PersonalizedDrama {
	out := make([]PersonalizedDrama, 0, len(results))
	for _, res := range results {
		p := PersonalizedDrama{ScoredDrama: res, BaseScore: res.Score}
		if profile != nil {
			boost := e.computeBoost(res.Drama, profile)
			p.Boost = &boost
			p.Reason = e.buildReason(res.Drama, profile, boost)
			if applyBoost {
				p.Score = res.Score * boost.Multiplier
			}
		}
		out = append(out, p)
	}
	if profile != nil && applyBoost {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score > out[j].Score
		})
	}
	return out
}

func (e *Engine) computeBoost(drama *entity.Drama, profile *entity.UserProfile) BoostDetails {
	var d BoostDetails

	genrePrefs := profile.Preferences.Genres
	if len(genrePrefs) > 0 {
		best := 0.0
		for _, genre := range drama.GenreList() {
			if affinity, ok := genrePrefs[normalizeKey(genre)]; ok && affinity > best {
				best = affinity
			}
		}
		d.GenreBoost = best * e.genreFactor
	}

	actorPrefs := profile.Preferences.Actors
	if len(actorPrefs) > 0 {
		best := 0.0
		for _, actor := range drama.CastList() {
			if affinity, ok := actorPrefs[normalizeKey(actor)]; ok && affinity > best {
				best = affinity
			}
		}
		d.ActorBoost = best * e.actorFactor
	}

	directorPrefs := profile.Preferences.Directors
	if len(directorPrefs) > 0 {
		if affinity, ok := directorPrefs[normalizeKey(drama.DirectorField())]; ok {
			d.DirectorBoost = affinity * e.directorFactor
		}
	}

	themePrefs := profile.Preferences.Themes
	if len(themePrefs) > 0 {
		matched := MatchThemes(drama)
		sum, n := 0.0, 0
		for _, theme := range matched {
			if affinity, ok := themePrefs[theme]; ok {
				sum += affinity
				n++
			}
		}
		if n > 0 {
			d.ThemeBoost = (sum / float64(n)) * e.themeFactor
		}
	}

	d.Multiplier = 1 + d.GenreBoost + d.ActorBoost + d.DirectorBoost + d.ThemeBoost
	return d
}

// MatchThemes extracts a drama's themes: every keyword token is a
// theme of its own, plus the fixed vocabulary labels whose trigger
// words appear in the keywords or description.
func MatchThemes(drama *entity.Drama) []string {
	seen := map[string]bool{}
	var themes []string
	add := func(theme string) {
		theme = normalizeKey(theme)
		if theme != "" && !seen[theme] {
			seen[theme] = true
			themes = append(themes, theme)
		}
	}

	for _, kw := range drama.KeywordList() {
		add(kw)
	}

	haystack := strings.ToLower(strings.Join(drama.KeywordList(), " ") + " " + drama.Description)
	for theme, triggers := range constant.ThemeKeywords {
		for _, trigger := range triggers {
			if strings.Contains(haystack, trigger) {
				add(theme)
				break
			}
		}
	}
	sort.Strings(themes)
	return themes
}

func (e *Engine) buildReason(drama *entity.Drama, profile *entity.UserProfile, boost BoostDetails) string {
	var parts []string
	if boost.GenreBoost > 0 {
		for _, genre := range drama.GenreList() {
			if affinity, ok := profile.Preferences.Genres[normalizeKey(genre)]; ok && affinity > constant.DefaultAffinity {
				parts = append(parts, fmt.Sprintf("you enjoy %s dramas", strings.ToLower(genre)))
				break
			}
		}
	}
	if boost.ActorBoost > 0 {
		for _, actor := range drama.CastList() {
			if affinity, ok := profile.Preferences.Actors[normalizeKey(actor)]; ok && affinity > constant.DefaultAffinity {
				parts = append(parts, fmt.Sprintf("features %s", actor))
				break
			}
		}
	}
	if boost.ThemeBoost > 0 {
		parts = append(parts, "matches themes you like")
	}
	if len(parts) == 0 {
		return ""
	}
	return "Recommended because " + strings.Join(parts, " and ")
}

// DeriveAlpha adjusts the base vector/lexical blend weight by how
// diverse the user's genre taste is. Broad tastes lean harder on the
// semantic side, narrow tastes lean on exact keyword matching.
func DeriveAlpha(baseAlpha float64, profile *entity.UserProfile) float64 {
	if profile == nil || len(profile.Preferences.Genres) == 0 {
		return baseAlpha
	}
	diversity := genreDiversity(profile.Preferences.Genres)
	switch {
	case diversity > 0.7:
		return math.Min(baseAlpha+0.15, 0.95)
	case diversity < 0.3:
		return math.Max(baseAlpha-0.1, 0.3)
	default:
		return baseAlpha
	}
}

// genreDiversity is twice the standard deviation of the genre
// affinities, capped at 1. Fewer than two tracked genres gives no
// signal and scores zero.
func genreDiversity(genres map[string]float64) float64 {
	if len(genres) < 2 {
		return 0
	}
	var sum float64
	for _, v := range genres {
		sum += v
	}
	mean := sum / float64(len(genres))
	var variance float64
	for _, v := range genres {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(genres))
	diversity := math.Sqrt(variance) * 2
	if diversity > 1 {
		return 1
	}
	return diversity
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
