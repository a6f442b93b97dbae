package bootstrap

import (
	"context"
	"log"

	"kdrama-recommender-be/internal/config"
	"kdrama-recommender-be/internal/controller"
	"kdrama-recommender-be/internal/pkg/logger"
	"kdrama-recommender-be/internal/repository/corpus"
	"kdrama-recommender-be/internal/repository/implementation"
	"kdrama-recommender-be/internal/service"
	"kdrama-recommender-be/pkg/embedding"
	"kdrama-recommender-be/pkg/personalization"
	"kdrama-recommender-be/pkg/recommend"
	"kdrama-recommender-be/pkg/rerank"
	"kdrama-recommender-be/pkg/search/bm25"
	"kdrama-recommender-be/pkg/search/fuzzy"
	"kdrama-recommender-be/pkg/search/vector"

	pktNats "kdrama-recommender-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	RecommendationController controller.IRecommendationController
	ProfileController        controller.IProfileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
	Corpus *corpus.Corpus
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	c, err := corpus.LoadFromFile(cfg.Data.DatasetPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load drama dataset: %v", err)
	}
	log.Printf("[INFO] Loaded %d dramas from %s", c.Len(), cfg.Data.DatasetPath)

	lexical := bm25.NewFromTexts(c.Documents())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = embedding.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// 3.5 Infrastructure
	// NATS (optional analytics fan-out)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis (optional shared embedding cache)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// Query embedding cache. Redis shares hits across instances; the
	// in-process LRU matches the single-instance deployment.
	if cfg.Ai.EmbedCacheBackend == "redis" && rdb != nil {
		embeddingProvider = embedding.NewRedisCachedProvider(embeddingProvider, rdb, 0)
		log.Printf("[INFO] Embedding cache: REDIS")
	} else {
		cached, err := embedding.NewCachedProvider(embeddingProvider, cfg.Ai.EmbedCacheSize)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize embedding cache: %v", err)
		}
		embeddingProvider = cached
		log.Printf("[INFO] Embedding cache: LRU (%d entries)", cfg.Ai.EmbedCacheSize)
	}

	// 4. Vector backend
	var searcher vector.Searcher
	if cfg.Recommend.VectorBackend == "pgvector" && db != nil {
		embeddingRepo := implementation.NewDramaEmbeddingRepository(db)
		searcher = vector.NewPgvectorSearcher(embeddingRepo)
		log.Printf("[INFO] Vector backend: PGVECTOR")
	} else {
		searcher = buildFlatIndex(c, embeddingProvider)
		log.Printf("[INFO] Vector backend: IN-MEMORY (%d vectors)", c.Len())
	}

	// 5. Ranking pipeline
	resolver := recommend.NewResolver(fuzzy.NewWRatioMatcher())
	ranker := recommend.NewRanker(c, embeddingProvider, searcher, lexical)
	engine := personalization.NewEngine()

	var reranker rerank.Reranker
	if cfg.Ai.RerankerEnabled {
		reranker = rerank.NewJinaReranker(cfg.Ai.RerankerURL, cfg.Keys.Jina, cfg.Ai.RerankerModel)
		log.Printf("[INFO] Reranker enabled (%s)", cfg.Ai.RerankerModel)
	}

	// 6. Profiles
	profileRepo, err := implementation.NewProfileRepository(cfg.Data.ProfilesDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize profile store: %v", err)
	}

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.InteractionTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.InteractionTopic,
		natsPub,
		sysLogger,
	)

	profileService := service.NewProfileService(profileRepo, c, publisherService, sysLogger)
	recommendationService := service.NewRecommendationService(
		c,
		resolver,
		ranker,
		engine,
		profileRepo,
		reranker,
		cfg.Recommend.DefaultAlpha,
		sysLogger,
	)

	// 8. Controllers
	return &Container{
		RecommendationController: controller.NewRecommendationController(recommendationService),
		ProfileController:        controller.NewProfileController(profileService),

		ConsumerService: consumerService,

		Logger: sysLogger,
		Corpus: c,
	}
}

// buildFlatIndex embeds every synthetic document once at startup. The
// corpus is small (a few thousand titles) so exact search is fine.
func buildFlatIndex(c *corpus.Corpus, provider embedding.EmbeddingProvider) *vector.FlatIndex {
	docs := c.Documents()
	vectors := make([][]float32, len(docs))
	for i, doc := range docs {
		resp, err := provider.Generate(doc, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Fatalf("[FATAL] Failed to embed corpus document %d: %v", i, err)
		}
		vectors[i] = resp.Embedding.Values
	}

	index, err := vector.NewFlatIndex(vectors)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build vector index: %v", err)
	}
	return index
}
