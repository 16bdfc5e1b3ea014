package http

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/database/orders"
	"github.com/lingohub/lingohub/internal/exporter"
	"github.com/lingohub/lingohub/internal/fileformat"
)

// ExportController builds and serves export archives and
// translation-memory files.
type ExportController struct {
	orders    *orders.Repository
	files     *files.Repository
	exporter  *exporter.Service
	exportDir string
}

func NewExportController(orderRepo *orders.Repository, fileRepo *files.Repository, svc *exporter.Service, exportDir string) *ExportController {
	return &ExportController{
		orders:    orderRepo,
		files:     fileRepo,
		exporter:  svc,
		exportDir: exportDir,
	}
}

type CreateExportResponse struct {
	TranslatedFiles string   `json:"translatedFiles"`
	Errors          []string `json:"errors,omitempty"`
}

// CreateZip archives every active file of the order in the requested
// format and responds with the archive name to download.
func (ctrl *ExportController) CreateZip(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	format, ok := fileformat.ParseFormat(c.DefaultQuery("format", string(fileformat.FormatXML)))
	if !ok || format == fileformat.FormatZIP {
		respondBadRequest(c, "unsupported export format")
		return
	}

	order, err := ctrl.orders.GetByID(orderID)
	if err != nil {
		respondNotFound(c, "order")
		return
	}

	zipPath, fileErrs, err := ctrl.exporter.CreateExportZip(order, format)
	if err != nil {
		respondInternalError(c, err, "create export zip")
		return
	}

	resp := CreateExportResponse{TranslatedFiles: filepath.Base(zipPath)}
	for _, fileErr := range fileErrs {
		resp.Errors = append(resp.Errors, fileErr.Error())
	}
	c.JSON(http.StatusOK, resp)
}

// Download streams a previously generated archive and removes it
// afterwards. Only plain file names inside the export directory are
// accepted.
func (ctrl *ExportController) Download(c *gin.Context) {
	name := c.Query("filename")
	if name == "" || name != filepath.Base(name) {
		respondBadRequest(c, "invalid filename")
		return
	}

	path := filepath.Join(ctrl.exportDir, name)
	if _, err := os.Stat(path); err != nil {
		respondNotFound(c, "export archive")
		return
	}

	c.FileAttachment(path, name)

	if err := os.Remove(path); err != nil {
		log.Printf("Failed to remove streamed export %s: %v", path, err)
	}
}

// TMFile builds and streams the translation-memory CSV for one file.
func (ctrl *ExportController) TMFile(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := ctrl.files.GetByID(fileID)
	if err != nil {
		respondNotFound(c, "file")
		return
	}

	name, blob, err := ctrl.exporter.TMFile(file)
	if err != nil {
		respondInternalError(c, err, "build tm file")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv", blob)
}
