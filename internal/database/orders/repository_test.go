package orders

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

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Order{}, &entities.File{})
	require.NoError(t, err)

	return NewRepository(db), db
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupTestDB(t)

	order := &entities.Order{Title: "Site relaunch", SourceSite: "en", WordCount: 120}
	order.SetTargetSites([]string{"de", "fr"})
	require.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	loaded, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Site relaunch", loaded.Title)
	assert.Equal(t, 120, loaded.WordCount)
	assert.Equal(t, []string{"de", "fr"}, loaded.TargetSitesArray())
}

func TestRepository_GetByIDPreloadsFiles(t *testing.T) {
	repo, db := setupTestDB(t)

	order := &entities.Order{Title: "Site relaunch", SourceSite: "en"}
	require.NoError(t, repo.Create(order))

	require.NoError(t, db.Create(&entities.File{
		OrderID: order.ID, ElementID: 12, SourceSite: "en", TargetSite: "de",
	}).Error)

	loaded, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Files, 1)
	assert.Equal(t, int64(12), loaded.Files[0].ElementID)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrder_TargetSites(t *testing.T) {
	order := &entities.Order{}
	assert.Nil(t, order.TargetSitesArray())

	order.SetTargetSites([]string{"de"})
	assert.Equal(t, []string{"de"}, order.TargetSitesArray())
}
