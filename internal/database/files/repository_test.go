package files

import (
	"path/filepath"
	"testing"
	"time"

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

	err = db.AutoMigrate(&entities.Order{}, &entities.File{})
	require.NoError(t, err)

	return NewRepository(db)
}

func newFile(orderID uint, elementID int64, site string) *entities.File {
	return &entities.File{
		OrderID:    orderID,
		ElementID:  elementID,
		SourceSite: "en",
		TargetSite: site,
		Status:     entities.FileStatusNew,
		Source:     []byte(`{"title": "About us"}`),
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupTestDB(t)

	file := newFile(1, 12, "de")
	require.NoError(t, repo.Create(file))
	assert.NotZero(t, file.ID)
	assert.False(t, file.DateUpdated.IsZero())

	loaded, err := repo.GetByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FileStatusNew, loaded.Status)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetByOrderIDExcludesDeleted(t *testing.T) {
	repo := setupTestDB(t)

	keep := newFile(1, 12, "de")
	require.NoError(t, repo.Create(keep))

	gone := newFile(1, 12, "fr")
	require.NoError(t, repo.Create(gone))
	require.NoError(t, repo.SoftDelete(gone))

	other := newFile(2, 12, "de")
	require.NoError(t, repo.Create(other))

	files, err := repo.GetByOrderID(1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, keep.ID, files[0].ID)
}

func TestRepository_FindByElement(t *testing.T) {
	repo := setupTestDB(t)

	file := newFile(1, 12, "de")
	require.NoError(t, repo.Create(file))

	found, err := repo.FindByElement(1, 12, "de")
	require.NoError(t, err)
	assert.Equal(t, file.ID, found.ID)

	_, err = repo.FindByElement(1, 12, "fr")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_MarkDelivered(t *testing.T) {
	repo := setupTestDB(t)

	file := newFile(1, 12, "de")
	require.NoError(t, repo.Create(file))

	target := []byte(`{"title": "Ueber uns"}`)
	require.NoError(t, repo.MarkDelivered(file, target))

	loaded, err := repo.GetByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FileStatusComplete, loaded.Status)
	assert.Equal(t, target, loaded.Target)
	assert.NotNil(t, loaded.DateDelivered)
}

func TestRepository_MarkFailed(t *testing.T) {
	repo := setupTestDB(t)

	file := newFile(1, 12, "de")
	require.NoError(t, repo.Create(file))
	require.NoError(t, repo.MarkFailed(file))

	loaded, err := repo.GetByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FileStatusFailed, loaded.Status)
}

func TestRepository_SoftDeleteKeepsRow(t *testing.T) {
	repo := setupTestDB(t)

	file := newFile(1, 12, "de")
	require.NoError(t, repo.Create(file))
	require.NoError(t, repo.SoftDelete(file))

	// The row stays addressable by id even long after deletion
	past := time.Now().Add(-1000 * time.Hour)
	file.DateDeleted = &past
	require.NoError(t, repo.Save(file))

	loaded, err := repo.GetByID(file.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.DateDeleted)
}
