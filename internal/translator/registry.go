package translator

import (
	"github.com/lingohub/lingohub/internal/content"
)

// FieldTranslator is the capability set every translatable field type
// implements. Flatten produces the field's contribution to the flat
// key->text map with fully qualified keys. ToStructuredUpdate is the
// inverse: it maps translated flat data onto a value ready to write back
// to the live element, tolerating missing keys (leave target unchanged)
// and extra keys (ignore). WordCount sums whitespace-delimited tokens of
// all leaf text the field contributes.
type FieldTranslator interface {
	Flatten(et *ElementTranslator, f *content.Field) map[string]string
	ToStructuredUpdate(et *ElementTranslator, f *content.Field, sourceSite, targetSite string, data map[string]string) any
	WordCount(et *ElementTranslator, f *content.Field) int
}

// Registry dispatches from a field type to its translator. New field
// types register a translator; nothing branches on type names inline.
type Registry struct {
	byType map[content.FieldType]FieldTranslator
}

func NewRegistry() *Registry {
	return &Registry{byType: make(map[content.FieldType]FieldTranslator)}
}

func (r *Registry) Register(t content.FieldType, tr FieldTranslator) {
	r.byType[t] = tr
}

// Lookup returns the translator for a field type, or nil when the type
// is not translatable. Untranslatable fields contribute nothing.
func (r *Registry) Lookup(t content.FieldType) FieldTranslator {
	return r.byType[t]
}

// DefaultRegistry wires the built-in field types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	leaf := &LeafTranslator{}
	r.Register(content.FieldTypePlainText, leaf)
	r.Register(content.FieldTypeRichText, leaf)
	r.Register(content.FieldTypeBlocks, &BlocksTranslator{})
	return r
}
