package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/entities"
	"github.com/lingohub/lingohub/internal/exporter"
	"github.com/lingohub/lingohub/internal/fileformat"
	"github.com/lingohub/lingohub/internal/translator"
)

// DiffController serves source/target comparisons for translation files.
type DiffController struct {
	store      content.Store
	files      *files.Repository
	translator *translator.ElementTranslator
	exporter   *exporter.Service
}

func NewDiffController(store content.Store, fileRepo *files.Repository, et *translator.ElementTranslator, exportService *exporter.Service) *DiffController {
	return &DiffController{
		store:      store,
		files:      fileRepo,
		translator: et,
		exporter:   exportService,
	}
}

type DiffPayload struct {
	Diff   map[string]fileformat.Delta `json:"diff"`
	Source map[string]string           `json:"source"`
	Target map[string]string           `json:"target"`

	// TMMisaligned flags that the live source element's key set no
	// longer matches what was exported for this file.
	TMMisaligned bool `json:"tm_misaligned"`
}

type DiffResponse struct {
	Success bool         `json:"success"`
	Data    *DiffPayload `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// GetFileDiff compares a file's frozen source against its translated
// target. Only files whose translation has arrived can be diffed.
func (ctrl *DiffController) GetFileDiff(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := ctrl.files.GetByID(fileID)
	if err != nil {
		respondNotFound(c, "file")
		return
	}

	if !file.HasDiffableStatus() {
		c.JSON(http.StatusOK, DiffResponse{
			Success: false,
			Error:   "There is no translated content for this file yet.",
		})
		return
	}

	source, err := ctrl.translator.GetTargetData(file.Source)
	if err != nil {
		respondInternalError(c, err, "decode source blob")
		return
	}

	target, err := ctrl.targetData(file)
	if err != nil {
		respondInternalError(c, err, "resolve target data")
		return
	}

	c.JSON(http.StatusOK, DiffResponse{
		Success: true,
		Data: &DiffPayload{
			Diff:         fileformat.Diff(source, target),
			Source:       source,
			Target:       target,
			TMMisaligned: ctrl.exporter.HasTMMisalignments(file),
		},
	})
}

// targetData prefers the live target element once the translation has
// been applied, so the diff reflects any post-delivery edits.
func (ctrl *DiffController) targetData(file *entities.File) (map[string]string, error) {
	if file.IsComplete() || file.IsPublished() {
		element, err := ctrl.store.GetElement(file.ElementID, file.TargetSite)
		if err == nil {
			return ctrl.translator.ToTranslationSource(element), nil
		}
	}
	if len(file.Target) > 0 {
		return ctrl.translator.GetTargetData(file.Target)
	}
	return map[string]string{}, nil
}
