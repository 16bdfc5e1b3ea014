package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduler(t *testing.T) (*CleanupScheduler, string) {
	exportDir := t.TempDir()
	s := NewCleanupScheduler(exportDir, "0 * * * *", 24*time.Hour)
	return s, exportDir
}

func touchFile(t *testing.T, path string, modTime time.Time) {
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestRemoveStaleExports(t *testing.T) {
	s, exportDir := setupScheduler(t)

	old := time.Now().Add(-48 * time.Hour)
	touchFile(t, filepath.Join(exportDir, "old_order_1.zip"), old)
	touchFile(t, filepath.Join(exportDir, "fresh_order_2.zip"), time.Now())
	touchFile(t, filepath.Join(exportDir, "unrelated.txt"), old)

	removed := s.removeStaleExports()
	assert.Equal(t, 1, removed)

	_, err := os.Stat(filepath.Join(exportDir, "old_order_1.zip"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(exportDir, "fresh_order_2.zip"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(exportDir, "unrelated.txt"))
	assert.NoError(t, err)
}

func TestRemoveStaleExports_MissingDir(t *testing.T) {
	s, _ := setupScheduler(t)
	s.exportDir = filepath.Join(t.TempDir(), "does-not-exist")

	assert.Zero(t, s.removeStaleExports())
}

func TestRunCleanup_OnlyTouchesArchives(t *testing.T) {
	s, exportDir := setupScheduler(t)

	old := time.Now().Add(-48 * time.Hour)
	touchFile(t, filepath.Join(exportDir, "stale_order_3.zip"), old)
	touchFile(t, filepath.Join(exportDir, "notes.txt"), old)

	s.runCleanup()

	_, err := os.Stat(filepath.Join(exportDir, "stale_order_3.zip"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(exportDir, "notes.txt"))
	assert.NoError(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s, _ := setupScheduler(t)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	// Second start is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s, _ := setupScheduler(t)
	s.schedule = "not a cron expression"

	assert.Error(t, s.Start(context.Background()))
}
