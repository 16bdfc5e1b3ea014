package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/importer"
	"github.com/lingohub/lingohub/internal/tasks"
	"github.com/lingohub/lingohub/internal/translator"
)

// =============================================================================
// Content Access Layer
// =============================================================================

// Store implementations
var _ content.Store = (*content.GormStore)(nil)

// =============================================================================
// Translation Pipeline
// =============================================================================

// FieldTranslator implementations
var _ translator.FieldTranslator = (*translator.LeafTranslator)(nil)
var _ translator.FieldTranslator = (*translator.BlocksTranslator)(nil)

// Dispatcher implementations
var _ importer.Dispatcher = (*tasks.Dispatcher)(nil)
