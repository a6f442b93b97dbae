package main

import (
	"context"
	"encoding/json"
	"log"

	"kdrama-recommender-be/internal/config"
	"kdrama-recommender-be/internal/model"
	"kdrama-recommender-be/internal/repository/corpus"
	"kdrama-recommender-be/internal/repository/implementation"
	"kdrama-recommender-be/pkg/database"
	"kdrama-recommender-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Seeds the drama_embeddings table: embeds every synthetic document
// and stores it with its corpus position. Run migrate first.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	c, err := corpus.LoadFromFile(cfg.Data.DatasetPath)
	if err != nil {
		log.Fatal("Error: Failed to load dataset:", err)
	}
	color.Cyan("Loaded %d dramas from %s", c.Len(), cfg.Data.DatasetPath)

	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "jina":
		provider = embedding.NewJinaProvider(cfg.Keys.Jina)
	default:
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	repo := implementation.NewDramaEmbeddingRepository(db)
	ctx := context.Background()

	if err := repo.Truncate(ctx); err != nil {
		log.Fatal("Error: Failed to truncate drama_embeddings:", err)
	}

	batch := make([]*model.DramaEmbedding, 0, 100)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := repo.CreateBulk(ctx, batch); err != nil {
			log.Fatal("Error: Failed to insert embeddings:", err)
		}
		batch = batch[:0]
	}

	for i := 0; i < c.Len(); i++ {
		drama := c.Item(i)
		doc := drama.Document()

		resp, err := provider.Generate(doc, embedding.TaskRetrievalDocument)
		if err != nil {
			color.Red("✗ %s: %v", drama.Title, err)
			log.Fatal("Error: Embedding failed, aborting seed")
		}

		payload, err := json.Marshal(drama)
		if err != nil {
			log.Fatal("Error: Failed to marshal drama payload:", err)
		}

		batch = append(batch, &model.DramaEmbedding{
			Position:       i,
			Title:          drama.Title,
			Document:       doc,
			EmbeddingValue: pgvector.NewVector(resp.Embedding.Values),
			Payload:        datatypes.JSON(payload),
		})
		if len(batch) == 100 {
			flush()
			color.Green("  %d/%d embedded", i+1, c.Len())
		}
	}
	flush()

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatal("Error: Failed to count embeddings:", err)
	}
	color.Green("✅ Seeded %d embeddings", count)
}
