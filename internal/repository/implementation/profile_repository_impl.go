package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// ProfileRepositoryImpl stores one JSON file per user under a base
// directory. Reads go through a short-lived cache; every mutation
// takes a per-user mutex across the whole load-mutate-save cycle.
type ProfileRepositoryImpl struct {
	baseDir string
	cache   *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProfileRepository(baseDir string) (contract.ProfileRepository, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profiles directory: %w", err)
	}
	return &ProfileRepositoryImpl{
		baseDir: baseDir,
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		locks:   map[string]*sync.Mutex{},
	}, nil
}

func (r *ProfileRepositoryImpl) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// sanitizeUserID keeps the on-disk filename safe regardless of what
// arrives in the path parameter.
func sanitizeUserID(userID string) string {
	var b strings.Builder
	for _, c := range userID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (r *ProfileRepositoryImpl) profilePath(userID string) string {
	return filepath.Join(r.baseDir, sanitizeUserID(userID)+".json")
}

func (r *ProfileRepositoryImpl) Load(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if x, found := r.cache.Get(userID); found {
		return x.(*entity.UserProfile), nil
	}
	profile, err := r.read(userID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(userID, profile, cache.DefaultExpiration)
	return profile, nil
}

func (r *ProfileRepositoryImpl) read(userID string) (*entity.UserProfile, error) {
	data, err := os.ReadFile(r.profilePath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return entity.NewUserProfile(userID), nil
		}
		return nil, fmt.Errorf("failed to read profile for %s: %w", userID, err)
	}
	var profile entity.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("corrupt profile for %s: %w", userID, err)
	}
	ensureMaps(&profile)
	return &profile, nil
}

// ensureMaps guards against hand-edited or older profile files with
// missing maps.
func ensureMaps(p *entity.UserProfile) {
	if p.Preferences.Genres == nil {
		p.Preferences.Genres = map[string]float64{}
	}
	if p.Preferences.Actors == nil {
		p.Preferences.Actors = map[string]float64{}
	}
	if p.Preferences.Directors == nil {
		p.Preferences.Directors = map[string]float64{}
	}
	if p.Preferences.Themes == nil {
		p.Preferences.Themes = map[string]float64{}
	}
	if p.Preferences.Publishers == nil {
		p.Preferences.Publishers = map[string]float64{}
	}
	if p.ViewingPatterns.PreferredYears == nil {
		p.ViewingPatterns.PreferredYears = []int{}
	}
	if p.RecentInteractions == nil {
		p.RecentInteractions = []entity.RecentInteraction{}
	}
}

func (r *ProfileRepositoryImpl) Save(ctx context.Context, profile *entity.UserProfile) error {
	lock := r.userLock(profile.UserID)
	lock.Lock()
	defer lock.Unlock()
	return r.write(profile)
}

// write serializes to a temp file in the same directory and renames
// it over the target, so readers never observe a partial profile.
func (r *ProfileRepositoryImpl) write(profile *entity.UserProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile for %s: %w", profile.UserID, err)
	}

	target := r.profilePath(profile.UserID)
	tmp, err := os.CreateTemp(r.baseDir, "profile-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp profile file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profile for %s: %w", profile.UserID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace profile for %s: %w", profile.UserID, err)
	}

	r.cache.Set(profile.UserID, profile, cache.DefaultExpiration)
	return nil
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, userID string, fn func(*entity.UserProfile) error) (*entity.UserProfile, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := r.read(userID)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	profile.LastUpdated = time.Now()
	if err := r.write(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
