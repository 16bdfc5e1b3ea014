package exporter

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/entities"
	"github.com/lingohub/lingohub/internal/fileformat"
	"github.com/lingohub/lingohub/internal/translator"
)

func setupService(t *testing.T) (*Service, *content.GormStore, *files.Repository) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Order{}, &entities.File{})
	require.NoError(t, err)

	store, err := content.NewGormStore(db)
	require.NoError(t, err)

	fileRepo := files.NewRepository(db)
	et := translator.NewElementTranslator(translator.DefaultRegistry())
	svc := NewService(store, fileRepo, et, filepath.Join(t.TempDir(), "exports"))

	return svc, store, fileRepo
}

func TestZipName(t *testing.T) {
	assert.Equal(t, "Site_relaunch_7", ZipName(&entities.Order{ID: 7, Title: "Site relaunch"}))
	assert.Equal(t, "Qubec_launch_3", ZipName(&entities.Order{ID: 3, Title: "Québec: launch!"}))

	long := &entities.Order{ID: 1, Title: "An extremely long order title that keeps going well past any sensible length limit"}
	name := ZipName(long)
	assert.LessOrEqual(t, len(name), 52)
	assert.Equal(t, "_1", name[len(name)-2:])
}

func TestCreateExportZip(t *testing.T) {
	svc, store, fileRepo := setupService(t)

	require.NoError(t, store.SaveElement(&content.Element{
		ID: 12, Site: "en", Title: "About us", Slug: "about-us",
	}))

	order := &entities.Order{ID: 5, Title: "Site relaunch", SourceSite: "en"}
	order.SetTargetSites([]string{"de", "fr"})

	source, err := fileformat.EncodeXML(map[string]string{"title": "About us"})
	require.NoError(t, err)

	for _, site := range []string{"de", "fr"} {
		require.NoError(t, fileRepo.Create(&entities.File{
			OrderID: 5, ElementID: 12, SourceSite: "en", TargetSite: site,
			Status: entities.FileStatusInProgress, Source: source,
		}))
	}
	require.NoError(t, fileRepo.Create(&entities.File{
		OrderID: 5, ElementID: 12, SourceSite: "en", TargetSite: "es",
		Status: entities.FileStatusCanceled, Source: source,
	}))

	zipPath, errs, err := svc.CreateExportZip(order, fileformat.FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Site_relaunch_5.zip", filepath.Base(zipPath))

	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, entry := range reader.File {
		names = append(names, entry.Name)
	}
	assert.ElementsMatch(t, []string{
		"12-about-us-de.json",
		"12-about-us-fr.json",
	}, names)

	// Each exported file carries a snapshot of its source key set
	exported, err := fileRepo.GetByOrderID(5)
	require.NoError(t, err)
	for _, file := range exported {
		if file.IsCanceled() {
			assert.Empty(t, file.Reference)
			continue
		}
		assert.Equal(t, "title", file.Reference)
	}

	// Entries were converted from the stored XML to JSON
	entry, err := reader.File[0].Open()
	require.NoError(t, err)
	defer entry.Close()
	buf := make([]byte, 256)
	n, _ := entry.Read(buf)
	flat, err := fileformat.DecodeJSON(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "About us"}, flat)
}

func TestCreateExportZip_BadSourceCollected(t *testing.T) {
	svc, store, fileRepo := setupService(t)

	require.NoError(t, store.SaveElement(&content.Element{
		ID: 12, Site: "en", Title: "About us", Slug: "about-us",
	}))

	order := &entities.Order{ID: 6, Title: "Broken", SourceSite: "en"}

	good, err := fileformat.EncodeXML(map[string]string{"title": "About us"})
	require.NoError(t, err)

	require.NoError(t, fileRepo.Create(&entities.File{
		OrderID: 6, ElementID: 12, SourceSite: "en", TargetSite: "de",
		Status: entities.FileStatusInProgress, Source: good,
	}))
	require.NoError(t, fileRepo.Create(&entities.File{
		OrderID: 6, ElementID: 12, SourceSite: "en", TargetSite: "fr",
		Status: entities.FileStatusInProgress, Source: []byte("key,source\n"),
	}))

	zipPath, errs, err := svc.CreateExportZip(order, fileformat.FormatXML)
	require.NoError(t, err)
	assert.Len(t, errs, 1)
	assert.NotEmpty(t, zipPath)
}

func TestCreateExportZip_NothingExportable(t *testing.T) {
	svc, _, fileRepo := setupService(t)

	order := &entities.Order{ID: 7, Title: "Empty", SourceSite: "en"}
	require.NoError(t, fileRepo.Create(&entities.File{
		OrderID: 7, ElementID: 12, SourceSite: "en", TargetSite: "de",
		Status: entities.FileStatusCanceled,
	}))

	_, _, err := svc.CreateExportZip(order, fileformat.FormatXML)
	assert.Error(t, err)
}

func TestHasTMMisalignments(t *testing.T) {
	svc, store, fileRepo := setupService(t)

	require.NoError(t, store.SaveElement(&content.Element{
		ID: 12, Site: "en", Title: "About us", Slug: "about-us",
		Fields: []content.Field{
			{Handle: "title", Type: content.FieldTypePlainText, Text: "About us"},
		},
	}))

	source, err := fileformat.EncodeXML(map[string]string{"title": "About us"})
	require.NoError(t, err)

	order := &entities.Order{ID: 9, Title: "Checks", SourceSite: "en"}
	file := &entities.File{
		OrderID: 9, ElementID: 12, SourceSite: "en", TargetSite: "de",
		Status: entities.FileStatusInProgress, Source: source,
	}
	require.NoError(t, fileRepo.Create(file))

	// Before any export there is no snapshot to compare against
	assert.False(t, svc.HasTMMisalignments(file))

	_, _, err = svc.CreateExportZip(order, fileformat.FormatXML)
	require.NoError(t, err)

	exported, err := fileRepo.GetByID(file.ID)
	require.NoError(t, err)
	assert.False(t, svc.HasTMMisalignments(exported))

	// A new field on the live source element breaks the alignment
	require.NoError(t, store.SaveElement(&content.Element{
		ID: 12, Site: "en", Title: "About us", Slug: "about-us",
		Fields: []content.Field{
			{Handle: "title", Type: content.FieldTypePlainText, Text: "About us"},
			{Handle: "intro", Type: content.FieldTypePlainText, Text: "Welcome"},
		},
	}))
	assert.True(t, svc.HasTMMisalignments(exported))
}

func TestTMFile(t *testing.T) {
	svc, store, fileRepo := setupService(t)

	require.NoError(t, store.SaveElement(&content.Element{
		ID: 12, Site: "en", Title: "About us", Slug: "about-us",
	}))

	source, err := fileformat.EncodeXML(map[string]string{"title": "About us"})
	require.NoError(t, err)
	target, err := fileformat.EncodeJSON(map[string]string{"title": "Ueber uns"})
	require.NoError(t, err)

	t.Run("pending file uses the delivered target blob", func(t *testing.T) {
		file := &entities.File{
			OrderID: 8, ElementID: 12, SourceSite: "en", TargetSite: "de",
			Status: entities.FileStatusReviewReady, Source: source, Target: target,
		}
		require.NoError(t, fileRepo.Create(file))

		name, blob, err := svc.TMFile(file)
		require.NoError(t, err)
		assert.Contains(t, name, "12-about-us_de_")
		assert.Contains(t, name, "_TM.csv")
		assert.Contains(t, string(blob), "title,About us,Ueber uns")
	})

	t.Run("complete file uses the live target element", func(t *testing.T) {
		require.NoError(t, store.SaveElement(&content.Element{
			ID: 12, Site: "de", Title: "Ueber uns", Slug: "about-us",
			Fields: []content.Field{
				{Handle: "title", Type: content.FieldTypePlainText, Text: "Ueber uns, aktualisiert"},
			},
		}))

		file := &entities.File{
			OrderID: 8, ElementID: 12, SourceSite: "en", TargetSite: "de",
			Status: entities.FileStatusComplete, Source: source, Target: target,
		}
		require.NoError(t, fileRepo.Create(file))

		_, blob, err := svc.TMFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(blob), `"Ueber uns, aktualisiert"`)
	})
}
