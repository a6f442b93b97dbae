package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"kdrama-recommender-be/internal/entity"
)

// LoadFromFile reads the merged dataset (a JSON array of drama records)
// and builds the corpus. The dataset is produced by the scraping
// pipeline and is messy: numeric fields may be strings, optional fields
// may be missing entirely. entity.FlexString absorbs that here so the
// rest of the pipeline never sees it.
func LoadFromFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var items []entity.Drama
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("dataset %s contains no items", path)
	}

	return New(items)
}
