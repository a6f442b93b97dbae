package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts JSON strings and numbers interchangeably.
// The scraped dataset is inconsistent: "rating_value" may arrive as
// "8.7" or 8.7 depending on which source page it came from.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	// null or anything else -> empty (absence means "no constraint")
	*f = ""
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Float parses the value as a float. Returns (0, false) when the field
// is absent or unparseable.
func (f FlexString) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Drama is one immutable item record from the dataset. Title is the
// unique key; every other field is optional. Alias fields (genres,
// directors) exist because the merged dataset mixes two scrapers with
// different casing conventions.
type Drama struct {
	Title         string     `json:"Title"`
	Genre         string     `json:"Genre"`
	Genres        string     `json:"genres"`
	Description   string     `json:"Description"`
	Cast          string     `json:"Cast"`
	Director      string     `json:"Director"`
	Directors     string     `json:"directors"`
	Publisher     string     `json:"publisher"`
	RatingValue   FlexString `json:"rating_value"`
	Score         FlexString `json:"score"`
	RatingCount   FlexString `json:"rating_count"`
	Keywords      string     `json:"keywords"`
	Screenwriters string     `json:"screenwriters"`
	Episodes      FlexString `json:"episodes"`
	YearAired     FlexString `json:"year_aired"`
	Popularity    FlexString `json:"popularity"`
	DatePublished string     `json:"date_published"`
	Duration      FlexString `json:"duration"`
}

// Document builds the synthetic per-item document used for both
// embedding and lexical scoring: Title + Genre + Description + Cast.
func (d *Drama) Document() string {
	return d.Title + " " + d.Genre + " " + d.Description + " " + d.Cast
}

// GenreField returns Genre, falling back to the lowercase alias.
func (d *Drama) GenreField() string {
	if d.Genre != "" {
		return d.Genre
	}
	return d.Genres
}

// DirectorField returns Director, falling back to the lowercase alias.
func (d *Drama) DirectorField() string {
	if d.Director != "" {
		return d.Director
	}
	return d.Directors
}

// Rating returns the numeric rating, preferring rating_value over the
// legacy score field. Missing or unparseable ratings yield 0.
func (d *Drama) Rating() float64 {
	if v, ok := d.RatingValue.Float(); ok {
		return v
	}
	if v, ok := d.Score.Float(); ok {
		return v
	}
	return 0
}

// GenreList splits the genre field on commas.
func (d *Drama) GenreList() []string {
	return splitCSV(d.GenreField())
}

// CastList splits the cast field on commas.
func (d *Drama) CastList() []string {
	return splitCSV(d.Cast)
}

// KeywordList splits the keywords field on commas, lowercased.
func (d *Drama) KeywordList() []string {
	parts := splitCSV(d.Keywords)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return parts
}

// SortValue returns the raw string value of a sortable field. Unknown
// fields return "" so an unknown sort_by degrades to a stable no-op
// instead of an error.
func (d *Drama) SortValue(field string) string {
	switch field {
	case "title", "Title":
		return d.Title
	case "rating_value", "score", "rating":
		return d.RatingValue.String()
	case "rating_count":
		return d.RatingCount.String()
	case "episodes":
		return d.Episodes.String()
	case "year_aired", "year":
		return d.YearAired.String()
	case "popularity":
		return d.Popularity.String()
	case "date_published":
		return d.DatePublished
	case "duration":
		return d.Duration.String()
	default:
		return ""
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
