package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingohub/lingohub/internal/audit"
	"github.com/lingohub/lingohub/internal/importer"
)

// uploadFieldName is the multipart form field the translated package is
// posted under.
const uploadFieldName = "zip-upload"

// ImportController receives translated packages and hands them to the
// import pipeline.
type ImportController struct {
	pipeline *importer.Pipeline
	auditor  *audit.Auditor
}

func NewImportController(pipeline *importer.Pipeline, auditor *audit.Auditor) *ImportController {
	return &ImportController{pipeline: pipeline, auditor: auditor}
}

// Import handles an uploaded translation package for one order. The
// pipeline decides whether processing runs in-request or is queued.
func (ctrl *ImportController) Import(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile(uploadFieldName)
	if err != nil {
		respondBadRequest(c, "no file was uploaded")
		return
	}

	upload, err := header.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer upload.Close()

	data, err := io.ReadAll(upload)
	if err != nil {
		respondInternalError(c, err, "read upload")
		return
	}

	if ctrl.auditor != nil {
		if _, err := ctrl.auditor.SaveUpload(header.Filename, data); err != nil {
			log.Printf("Failed to audit upload %s: %v", header.Filename, err)
		}
	}

	result, err := ctrl.pipeline.ImportPackage(orderID, header.Filename, data)
	if err != nil {
		var validation *importer.ValidationError
		var extraction *importer.ExtractionError
		switch {
		case errors.As(err, &validation):
			respondBadRequest(c, validation.Message)
		case errors.As(err, &extraction):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: extraction.Error()})
		default:
			respondInternalError(c, err, "import package")
		}
		return
	}

	status := http.StatusOK
	if result.Queued {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}
