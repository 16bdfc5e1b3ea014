package exporter

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/entities"
	"github.com/lingohub/lingohub/internal/fileformat"
	"github.com/lingohub/lingohub/internal/translator"
)

// Service builds export archives and translation-memory files for an
// order's translation files.
type Service struct {
	store      content.Store
	files      *files.Repository
	translator *translator.ElementTranslator
	exportDir  string
}

func NewService(store content.Store, fileRepo *files.Repository, et *translator.ElementTranslator, exportDir string) *Service {
	return &Service{
		store:      store,
		files:      fileRepo,
		translator: et,
		exportDir:  exportDir,
	}
}

// CreateExportZip archives every active file of the order in the
// requested format and returns the archive path. Per-file failures are
// collected without aborting the archive; the archive is only discarded
// when no file at all could be added.
func (s *Service) CreateExportZip(order *entities.Order, format fileformat.Format) (string, []error, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	zipPath := filepath.Join(s.exportDir, ZipName(order)+".zip")
	out, err := os.Create(zipPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create zip file %s: %w", zipPath, err)
	}
	defer out.Close()

	w := zip.NewWriter(out)

	var errs []error
	added := 0

	orderFiles, err := s.files.GetByOrderID(order.ID)
	if err != nil {
		w.Close()
		os.Remove(zipPath)
		return "", nil, fmt.Errorf("failed to load order files: %w", err)
	}

	for i := range orderFiles {
		file := &orderFiles[i]
		if file.IsCanceled() {
			continue
		}

		name, blob, ref, err := s.exportFile(file, format)
		if err != nil {
			errs = append(errs, fmt.Errorf("file %d: %w", file.ID, err))
			continue
		}

		entry, err := w.Create(name)
		if err == nil {
			_, err = entry.Write(blob)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to add %s to archive: %w", name, err))
			continue
		}
		added++

		// Snapshot the exported key set for later misalignment checks.
		if file.Reference != ref {
			file.Reference = ref
			if err := s.files.Save(file); err != nil {
				errs = append(errs, fmt.Errorf("failed to record reference for file %d: %w", file.ID, err))
			}
		}
	}

	if err := w.Close(); err != nil {
		os.Remove(zipPath)
		return "", errs, fmt.Errorf("failed to close zip %s: %w", zipPath, err)
	}

	if added == 0 {
		os.Remove(zipPath)
		return "", errs, fmt.Errorf("no files could be exported for order %d", order.ID)
	}

	return zipPath, errs, nil
}

// exportFile converts one file's frozen source blob into the requested
// format and names it so the importer can route it back. The returned
// reference is the canonical key set of the exported content.
func (s *Service) exportFile(file *entities.File, format fileformat.Format) (string, []byte, string, error) {
	sourceFormat := fileformat.Detect(file.Source)
	if sourceFormat == fileformat.FormatUnknown {
		return "", nil, "", fmt.Errorf("stored source is not valid XML or JSON")
	}

	flat, err := fileformat.Decode(file.Source, sourceFormat)
	if err != nil {
		return "", nil, "", err
	}

	blob, err := fileformat.Encode(flat, format)
	if err != nil {
		return "", nil, "", err
	}

	name := fmt.Sprintf("%d-%s-%s.%s", file.ElementID, s.elementSlug(file), file.TargetSite, format)
	return name, blob, keyReference(flat), nil
}

// keyReference canonicalizes a flat map's key set.
func keyReference(flat map[string]string) string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n")
}

// HasTMMisalignments reports whether the live source element's key set
// has drifted from the snapshot taken when the file was exported. A
// drifted file's translation memory pairs keys that no longer line up
// with the current content.
func (s *Service) HasTMMisalignments(file *entities.File) bool {
	if file.Reference == "" {
		return false
	}
	element, err := s.store.GetElement(file.ElementID, file.SourceSite)
	if err != nil {
		return false
	}
	return keyReference(s.translator.ToTranslationSource(element)) != file.Reference
}

func (s *Service) elementSlug(file *entities.File) string {
	element, err := s.store.GetElement(file.ElementID, file.SourceSite)
	if err != nil || element.Slug == "" {
		return "element"
	}
	return element.Slug
}

// TMFile builds the translation-memory CSV for one file. When the file
// is complete the target side comes from the current live target
// element, so the export reflects the latest draft.
func (s *Service) TMFile(file *entities.File) (string, []byte, error) {
	source, err := s.translator.GetTargetData(file.Source)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read source blob: %w", err)
	}

	var target map[string]string
	if file.IsComplete() || file.IsPublished() {
		element, err := s.store.GetElement(file.ElementID, file.TargetSite)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load target element: %w", err)
		}
		target = s.translator.ToTranslationSource(element)
	} else if len(file.Target) > 0 {
		target, err = s.translator.GetTargetData(file.Target)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read target blob: %w", err)
		}
	} else {
		target = map[string]string{}
	}

	blob, err := fileformat.CreateTMContent(source, target)
	if err != nil {
		return "", nil, err
	}

	name := fmt.Sprintf("%d-%s_%s_%s_TM.csv",
		file.ElementID, s.elementSlug(file), file.TargetSite, time.Now().Format("20060102T1504"))
	return name, blob, nil
}

var zipNameStrip = regexp.MustCompile(`[^A-Za-z0-9\-_]`)

// ZipName derives the archive name from the order title: spaces become
// underscores, everything outside [A-Za-z0-9-_] is stripped, and the
// title is capped at 50 characters before the order id is appended.
func ZipName(order *entities.Order) string {
	title := strings.ReplaceAll(order.Title, " ", "_")
	title = zipNameStrip.ReplaceAllString(title, "")
	if len(title) > 50 {
		title = title[:50]
	}
	return fmt.Sprintf("%s_%d", title, order.ID)
}
