package main

import (
	"log"
	"os"

	"kdrama-recommender-be/internal/model"
	"kdrama-recommender-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate doesn't handle
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed setup step (%s): %v", sql, err)
		}
	}

	// 4. AutoMigrate schema
	if err := db.AutoMigrate(&model.DramaEmbedding{}); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// 5. ANN index for cosine search
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_drama_embeddings_cosine
		ON drama_embeddings USING hnsw (embedding_value vector_cosine_ops);`
	if err := db.Exec(indexSQL).Error; err != nil {
		log.Printf("Warning: Failed to create vector index (requires pgvector >= 0.5): %v", err)
	}

	log.Println("Migration complete.")
}
