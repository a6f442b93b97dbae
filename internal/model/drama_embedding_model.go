package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DramaEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Position       int             `gorm:"not null;uniqueIndex"` // position in the loaded corpus
	Title          string          `gorm:"type:text;not null"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	Payload        datatypes.JSON  `gorm:"type:jsonb"` // raw drama record for inspection
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (DramaEmbedding) TableName() string {
	return "drama_embeddings"
}
