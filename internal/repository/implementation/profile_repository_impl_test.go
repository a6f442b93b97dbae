package implementation

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (contract.ProfileRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewProfileRepository(dir)
	require.NoError(t, err)
	return repo, dir
}

func TestLoadUnknownUserReturnsDefault(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.Load(ctx, "never-seen")
	require.NoError(t, err)
	assert.Equal(t, "never-seen", p.UserID)
	assert.Empty(t, p.Preferences.Genres)
	assert.Equal(t, 0, p.Statistics.TotalInteractions)

	// A default load must not write anything to disk.
	_, err = os.Stat(filepath.Join(dir, "never-seen.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	p := entity.NewUserProfile("u1")
	p.Preferences.Genres["medical"] = 0.75
	p.Statistics.TotalInteractions = 3
	require.NoError(t, repo.Save(ctx, p))

	_, err := os.Stat(filepath.Join(dir, "u1.json"))
	require.NoError(t, err)

	// Fresh repository forces a disk read past the cache.
	fresh, err := NewProfileRepository(dir)
	require.NoError(t, err)
	got, err := fresh.Load(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got.Preferences.Genres["medical"], 1e-9)
	assert.Equal(t, 3, got.Statistics.TotalInteractions)
}

func TestUpdatePersistsMutation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	before, err := repo.Load(ctx, "u1")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "u1", func(p *entity.UserProfile) error {
		p.Statistics.TotalInteractions++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Statistics.TotalInteractions)
	assert.False(t, updated.LastUpdated.Before(before.LastUpdated))

	got, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Statistics.TotalInteractions)
}

func TestUpdateConcurrentIncrements(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "u1", func(p *entity.UserProfile) error {
				p.Statistics.TotalInteractions++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, n, got.Statistics.TotalInteractions, "every increment must survive the load-mutate-save cycle")
}

func TestCorruptProfileSurfacesError(t *testing.T) {
	repo, dir := newTestRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	_, err := repo.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt profile")
}

func TestLoadBackfillsMissingMaps(t *testing.T) {
	repo, dir := newTestRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte(`{"user_id":"old"}`), 0o644))
	p, err := repo.Load(context.Background(), "old")
	require.NoError(t, err)
	assert.NotNil(t, p.Preferences.Genres)
	assert.NotNil(t, p.Preferences.Themes)
	assert.NotNil(t, p.RecentInteractions)
	assert.NotNil(t, p.ViewingPatterns.PreferredYears)
}

func TestSanitizeUserID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"user-42_b", "user-42_b"},
		{"../../etc/passwd", "______etc_passwd"},
		{"a b/c", "a_b_c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeUserID(tt.in), "in=%q", tt.in)
	}
}
