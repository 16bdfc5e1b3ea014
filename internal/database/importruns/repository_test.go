package importruns

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingohub/lingohub/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ImportRun{})
	require.NoError(t, err)

	return NewRepository(db)
}

func TestRepository_CreateSetsStartedAt(t *testing.T) {
	repo := setupTestDB(t)

	run := &entities.ImportRun{OrderID: 1, State: entities.ImportStateValidated}
	require.NoError(t, repo.Create(run))
	assert.NotZero(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())
}

func TestRepository_GetByJobID(t *testing.T) {
	repo := setupTestDB(t)

	run := &entities.ImportRun{OrderID: 1, JobID: "task-9", State: entities.ImportStateDispatchedAsync}
	require.NoError(t, repo.Create(run))

	found, err := repo.GetByJobID("task-9")
	require.NoError(t, err)
	assert.Equal(t, run.ID, found.ID)

	_, err = repo.GetByJobID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ActiveExcludesTerminalStates(t *testing.T) {
	repo := setupTestDB(t)

	for _, state := range []entities.ImportState{
		entities.ImportStateValidated,
		entities.ImportStateDispatchedSync,
		entities.ImportStateDispatchedAsync,
		entities.ImportStateCompleted,
		entities.ImportStatePartiallyFailed,
		entities.ImportStateFailed,
	} {
		require.NoError(t, repo.Create(&entities.ImportRun{OrderID: 1, State: state}))
	}

	active, err := repo.Active()
	require.NoError(t, err)
	require.Len(t, active, 3)
	for _, run := range active {
		assert.False(t, run.Terminal())
	}
}

func TestRepository_RecordErrors(t *testing.T) {
	repo := setupTestDB(t)

	run := &entities.ImportRun{OrderID: 1, State: entities.ImportStatePartiallyFailed}
	require.NoError(t, repo.Create(run))

	require.NoError(t, repo.RecordErrors(run, []string{"failed to convert a.json", "failed to save b.json"}))

	loaded, err := repo.GetByID(run.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `["failed to convert a.json", "failed to save b.json"]`, loaded.Errors)
}

func TestRepository_RecordErrorsEmptyKeepsColumnBlank(t *testing.T) {
	repo := setupTestDB(t)

	run := &entities.ImportRun{OrderID: 1, State: entities.ImportStateCompleted}
	require.NoError(t, repo.Create(run))
	require.NoError(t, repo.RecordErrors(run, nil))

	loaded, err := repo.GetByID(run.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Errors)
}
