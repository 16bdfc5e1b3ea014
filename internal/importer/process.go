package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/entities"
	"github.com/lingohub/lingohub/internal/fileformat"
	"github.com/lingohub/lingohub/internal/translator"
)

var nowFunc = time.Now

// processUpload converts one transient upload into a structured update
// on the live target element. The item's conversion and cleanup are
// all-or-nothing: a failure leaves the target content unchanged and the
// upload in place for a retry.
func (p *Pipeline) processUpload(order *entities.Order, uploadID int64, format fileformat.Format) error {
	upload, err := p.store.GetUpload(uploadID)
	if errors.Is(err, content.ErrNotFound) {
		// Already consumed by an earlier attempt.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load upload %d: %w", uploadID, err)
	}

	elementID, targetSite, err := parseUploadName(upload.Name, order.TargetSitesArray())
	if err != nil {
		return &ConversionError{Name: upload.Name, Err: err}
	}

	flat, err := fileformat.Decode(upload.Data, format)
	if err != nil {
		return &ConversionError{Name: upload.Name, Err: err}
	}

	file, err := p.files.FindByElement(order.ID, elementID, targetSite)
	if err != nil {
		return &ConversionError{Name: upload.Name, Err: fmt.Errorf("no order file for element %d site %s", elementID, targetSite)}
	}
	if file.IsCanceled() {
		return &ConversionError{Name: upload.Name, Err: fmt.Errorf("file for element %d is canceled", elementID)}
	}

	element, err := p.store.GetElement(elementID, targetSite)
	if errors.Is(err, content.ErrNotFound) {
		// No target variant yet: seed the update from the source copy.
		element, err = p.store.GetElement(elementID, file.SourceSite)
	}
	if err != nil {
		return &ConversionError{Name: upload.Name, Err: fmt.Errorf("element %d not found: %w", elementID, err)}
	}

	post := p.translator.ToPostArrayFromTranslationTarget(element, file.SourceSite, targetSite, flat)
	translator.ApplyPost(element, post)
	element.Site = targetSite

	if err := p.store.SaveElement(element); err != nil {
		var vErr *content.ValidationError
		if errors.As(err, &vErr) {
			if markErr := p.files.MarkFailed(file); markErr != nil {
				return fmt.Errorf("failed to mark file failed: %w", markErr)
			}
			return &PersistenceError{Name: upload.Name, Fields: vErr.Errors, Err: err}
		}
		return &PersistenceError{Name: upload.Name, Err: err}
	}

	if err := p.files.MarkDelivered(file, upload.Data); err != nil {
		return fmt.Errorf("failed to record delivery for %s: %w", upload.Name, err)
	}

	if err := p.store.DeleteUpload(upload.ID); err != nil {
		return fmt.Errorf("failed to remove upload %s: %w", upload.Name, err)
	}

	return nil
}

var errUnparsableName = errors.New("name does not match elementId-slug-targetSite")

// parseUploadName maps an entry's base name back to its element id and
// target site. Export names files as elementId-slug-targetSite.ext. The
// id is the first dash-separated segment; the site is matched as a
// suffix against the order's target sites, so site handles containing
// dashes (en-US) route to the right file.
func parseUploadName(name string, sites []string) (elementID int64, targetSite string, err error) {
	base := name
	if ext := strings.LastIndex(base, "."); ext > 0 && len(base)-ext <= 5 {
		base = base[:ext]
	}

	idStr, rest, found := strings.Cut(base, "-")
	if !found {
		return 0, "", errUnparsableName
	}

	elementID, err = strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", errUnparsableName
	}

	// Longest match wins so "en-US" is preferred over a plain "US".
	for _, site := range sites {
		if rest == site || strings.HasSuffix(rest, "-"+site) {
			if len(site) > len(targetSite) {
				targetSite = site
			}
		}
	}
	if targetSite != "" {
		return elementID, targetSite, nil
	}

	// No configured site matched; fall back to the last segment.
	parts := strings.Split(rest, "-")
	targetSite = parts[len(parts)-1]
	if targetSite == "" {
		return 0, "", errUnparsableName
	}
	return elementID, targetSite, nil
}
