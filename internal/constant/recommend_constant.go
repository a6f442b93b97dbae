package constant

// Hybrid ranking defaults. Alpha weights the semantic (vector) side;
// 1-alpha weights the lexical (BM25) side.
const (
	DefaultAlpha = 0.7
	DefaultTopN  = 5

	// Extra candidates kept on each side before combination, and extra
	// neighbors requested from the index beyond the filtered-set size.
	CandidateMargin = 20
	SearchKMargin   = 50

	// Minimum fuzzy-match confidence (0-100) to accept a near-miss title.
	FuzzyMatchThreshold = 70
)

// NoFilterMatchMessage is returned when filtering eliminates the
// whole corpus.
const NoFilterMatchMessage = "No dramas match your filters. Try broadening your search criteria."

// Profile learning constants.
const (
	// Exponential moving average: new = old*EMAKeep + weight*EMALearn.
	EMAKeep  = 0.8
	EMALearn = 0.2

	// Unseen labels start at a neutral affinity.
	DefaultAffinity = 0.5

	// Interaction weights.
	WeightClick        = 0.3
	WeightWatchlistAdd = 0.6
	WeightWatched      = 1.0
	WeightDefault      = 0.5

	// Per-map entry cap and recent-interaction log cap.
	MaxPreferenceEntries  = 50
	MaxRecentInteractions = 50

	// Cast parsing considers only the leading names.
	MaxTrackedActors = 5

	// Binge watcher once this many titles are watched.
	BingeWatchedThreshold = 20
)

// ThemeKeywords maps a theme label to description keywords that imply
// it. Used for implicit theme extraction from drama descriptions.
var ThemeKeywords = map[string][]string{
	"emotional": {"emotional", "tearjerker", "touching", "heartwarming"},
	"funny":     {"funny", "comedy", "humorous", "hilarious"},
	"action":    {"action", "fighting", "martial arts", "chase"},
	"romantic":  {"romantic", "love", "romance", "relationship"},
	"suspense":  {"suspense", "mystery", "thriller", "twist"},
	"realistic": {"realistic", "slice of life", "everyday", "real"},
	"fantasy":   {"fantasy", "supernatural", "magical", "mystical"},
}
