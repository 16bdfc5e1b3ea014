package http

import (
	"github.com/lingohub/lingohub/internal/audit"
	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/database"
	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/database/importruns"
	"github.com/lingohub/lingohub/internal/database/orders"
	"github.com/lingohub/lingohub/internal/exporter"
	"github.com/lingohub/lingohub/internal/importer"
	"github.com/lingohub/lingohub/internal/translator"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router. This replaces a long parameter list in
// NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Store      content.Store
	Orders     *orders.Repository
	Files      *files.Repository
	ImportRuns *importruns.Repository
	Translator *translator.ElementTranslator

	// Import/export services
	Pipeline *importer.Pipeline
	Exporter *exporter.Service
	Auditor  *audit.Auditor

	// Directory generated export archives are served from
	ExportDir string

	// Application info
	Version string
}
