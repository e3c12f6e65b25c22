package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "private-state.json")
}

func TestFileStoreRepository_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: missing file degrades to default store", func(t *testing.T) {
		repo := NewFileStoreRepository(tempStorePath(t))
		assert.Equal(t, domain.DefaultStore(), repo.Read(ctx))
	})

	t.Run("Success: corrupt JSON degrades to default store", func(t *testing.T) {
		path := tempStorePath(t)
		assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		repo := NewFileStoreRepository(path)
		assert.Equal(t, domain.DefaultStore(), repo.Read(ctx))
	})

	t.Run("Success: unknown ids in the file are dropped on read", func(t *testing.T) {
		path := tempStorePath(t)
		blob := `{"intruder":{"completedDates":["2024-01-01"]},"fitness":{"completedDates":["2024-01-01"],"checklistByDate":{}}}`
		assert.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

		store := NewFileStoreRepository(path).Read(ctx)
		assert.NotContains(t, store, "intruder")
		assert.Equal(t, []string{"2024-01-01"}, store["fitness"].CompletedDates)
	})
}

func TestFileStoreRepository_Write(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: write then read round-trips the normalized store", func(t *testing.T) {
		repo := NewFileStoreRepository(tempStorePath(t))

		store := domain.DefaultStore()
		store.ToggleChecklistItem("am-routine", "Brush teeth", "2024-05-01")
		store.ToggleChecklistItem("fitness", domain.FitnessStretchItem, "2024-05-01")

		assert.NoError(t, repo.Write(ctx, store))
		assert.Equal(t, domain.NormalizeStore(store), repo.Read(ctx))
	})

	t.Run("Success: rename replaces the blob, leaving no temp files", func(t *testing.T) {
		path := tempStorePath(t)
		repo := NewFileStoreRepository(path)

		assert.NoError(t, repo.Write(ctx, domain.DefaultStore()))

		second := domain.DefaultStore()
		second.ToggleChecklistItem("pm-routine", "Mouthwash", "2024-05-02")
		assert.NoError(t, repo.Write(ctx, second))

		entries, err := os.ReadDir(filepath.Dir(path))
		assert.NoError(t, err)
		assert.Len(t, entries, 1, "only the canonical blob may remain")
		assert.Equal(t, domain.NormalizeStore(second), repo.Read(ctx))
	})

	t.Run("Success: reads during concurrent writes see a whole blob, never a partial one", func(t *testing.T) {
		repo := NewFileStoreRepository(tempStorePath(t))

		old := domain.DefaultStore()
		old.ToggleChecklistItem("am-routine", "Sunscreen", "2024-05-01")
		assert.NoError(t, repo.Write(ctx, old))

		next := old.Clone()
		next.ToggleChecklistItem("pm-routine", "Mouthwash", "2024-05-01")

		oldNorm := domain.NormalizeStore(old)
		nextNorm := domain.NormalizeStore(next)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 50; i++ {
				_ = repo.Write(ctx, next)
			}
		}()

		// A torn read would parse-fail and degrade to the default store,
		// which matches neither written state.
		for i := 0; i < 200; i++ {
			got := repo.Read(ctx)
			if !assert.Condition(t, func() bool {
				return assert.ObjectsAreEqual(oldNorm, got) || assert.ObjectsAreEqual(nextNorm, got)
			}, "read %d observed a state that was never written", i) {
				break
			}
		}
		<-done
	})

	t.Run("Fail: unwritable directory propagates the error", func(t *testing.T) {
		repo := NewFileStoreRepository(filepath.Join(string(os.PathSeparator), "proc", "hidden-habits", "state.json"))
		assert.Error(t, repo.Write(ctx, domain.DefaultStore()))
	})
}
