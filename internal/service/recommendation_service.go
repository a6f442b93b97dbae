package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"kdrama-recommender-be/internal/constant"
	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/pkg/logger"
	"kdrama-recommender-be/internal/repository/contract"
	"kdrama-recommender-be/internal/repository/corpus"
	"kdrama-recommender-be/pkg/personalization"
	"kdrama-recommender-be/pkg/recommend"
	"kdrama-recommender-be/pkg/rerank"
)

type IRecommendationService interface {
	Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.RecommendResponse, error)
}

type recommendationService struct {
	corpus       *corpus.Corpus
	resolver     *recommend.Resolver
	ranker       *recommend.Ranker
	engine       *personalization.Engine
	profiles     contract.ProfileRepository
	reranker     rerank.Reranker // nil when not configured
	defaultAlpha float64
	logger       logger.ILogger
}

func NewRecommendationService(
	c *corpus.Corpus,
	resolver *recommend.Resolver,
	ranker *recommend.Ranker,
	engine *personalization.Engine,
	profiles contract.ProfileRepository,
	reranker rerank.Reranker,
	defaultAlpha float64,
	log logger.ILogger,
) IRecommendationService {
	if defaultAlpha <= 0 || defaultAlpha > 1 {
		defaultAlpha = constant.DefaultAlpha
	}
	return &recommendationService{
		corpus:       c,
		resolver:     resolver,
		ranker:       ranker,
		engine:       engine,
		profiles:     profiles,
		reranker:     reranker,
		defaultAlpha: defaultAlpha,
		logger:       log,
	}
}

func (s *recommendationService) Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.RecommendResponse, error) {
	filters := recommend.Filters{
		Genre:         req.Genre,
		Director:      req.Director,
		Publisher:     req.Publisher,
		Description:   req.Description,
		Keywords:      req.Keywords,
		Screenwriters: req.Screenwriters,
		RatingValue:   req.RatingValue,
		RatingCount:   req.RatingCount,
	}

	topN := req.TopN
	if topN <= 0 {
		topN = constant.DefaultTopN
	}
	alpha := parseAlpha(req.Alpha, s.defaultAlpha)

	resp := &dto.RecommendResponse{
		Query:   req.Query,
		Alpha:   alpha,
		Filters: echoFilters(filters),
		Results: []dto.RecommendResponseItem{},
	}

	fs := recommend.ApplyFilters(s.corpus, filters)
	if fs.Len() == 0 {
		resp.MatchType = string(recommend.MatchFreeText)
		resp.Message = constant.NoFilterMatchMessage
		return resp, nil
	}

	// Personalization context, loaded before ranking so the blend
	// weight can adapt to the user's taste profile.
	var profile *entity.UserProfile
	applyBoost := req.Boost != "false"
	if req.UserID != "" {
		p, err := s.profiles.Load(ctx, req.UserID)
		if err != nil {
			s.logger.Warn("recommend", "failed to load profile, continuing unpersonalized", map[string]interface{}{
				"user_id": req.UserID,
				"error":   err.Error(),
			})
		} else {
			profile = p
			alpha = personalization.DeriveAlpha(alpha, profile)
			resp.Alpha = alpha
		}
	}

	resolution := s.resolver.Resolve(s.corpus, fs, req.Query)
	resp.MatchType = string(resolution.Kind)
	resp.MatchedTitle = resolution.MatchedTitle

	results, err := s.ranker.Rank(ctx, resolution.QueryText, fs, alpha, topN)
	if err != nil {
		return nil, err
	}

	if req.SimilarTo != "" {
		results, err = s.ranker.SimilarTo(ctx, req.SimilarTo, fs, results)
		if err != nil {
			return nil, err
		}
	}

	results = recommend.ApplySort(results, req.SortBy, req.SortOrder, req.TopRated)
	results = recommend.Truncate(results, topN)
	results = s.maybeRerank(ctx, resolution.QueryText, results)

	personalized := s.engine.Personalize(results, profile, applyBoost)
	resp.Personalized = profile != nil && applyBoost

	for _, p := range personalized {
		item := dto.RecommendResponseItem{
			Title:       p.Drama.Title,
			Genre:       p.Drama.GenreField(),
			Description: p.Drama.Description,
			Cast:        p.Drama.Cast,
			Director:    p.Drama.DirectorField(),
			Publisher:   p.Drama.Publisher,
			Rating:      p.Drama.Rating(),
			Episodes:    p.Drama.Episodes.String(),
			YearAired:   p.Drama.YearAired.String(),
			Score:       p.Score,
			Reason:      p.Reason,
		}
		if p.Boost != nil {
			item.BaseScore = p.BaseScore
			item.Boost = &dto.BoostDetails{
				GenreBoost:    p.Boost.GenreBoost,
				ActorBoost:    p.Boost.ActorBoost,
				DirectorBoost: p.Boost.DirectorBoost,
				ThemeBoost:    p.Boost.ThemeBoost,
				Multiplier:    p.Boost.Multiplier,
			}
		}
		resp.Results = append(resp.Results, item)
	}

	return resp, nil
}

// maybeRerank reorders the truncated candidates with the cross-encoder
// when one is configured. Any failure leaves the hybrid order intact.
func (s *recommendationService) maybeRerank(ctx context.Context, queryText string, results []recommend.ScoredDrama) []recommend.ScoredDrama {
	if s.reranker == nil || len(results) < 2 {
		return results
	}

	docs := make([]string, len(results))
	for i, r := range results {
		docs[i] = r.Drama.Description
	}

	scores, err := s.reranker.ScorePairs(ctx, queryText, docs)
	if err != nil || len(scores) != len(results) {
		details := map[string]interface{}{"candidates": len(results)}
		if err != nil {
			details["error"] = err.Error()
		}
		s.logger.Warn("recommend", "rerank failed, keeping hybrid order", details)
		return results
	}

	type candidate struct {
		result recommend.ScoredDrama
		score  float64
	}
	candidates := make([]candidate, len(results))
	for i := range results {
		candidates[i] = candidate{results[i], scores[i]}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	reranked := make([]recommend.ScoredDrama, len(candidates))
	for i, c := range candidates {
		reranked[i] = c.result
	}
	return reranked
}

func parseAlpha(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return def
	}
	return v
}

func echoFilters(f recommend.Filters) map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	set("genre", f.Genre)
	set("director", f.Director)
	set("publisher", f.Publisher)
	set("description", f.Description)
	set("keywords", f.Keywords)
	set("screenwriters", f.Screenwriters)
	set("rating_value", f.RatingValue)
	set("rating_count", f.RatingCount)
	if len(out) == 0 {
		return nil
	}
	return out
}
