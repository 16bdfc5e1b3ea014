package translator

import (
	"strings"

	"github.com/lingohub/lingohub/internal/content"
)

// LeafTranslator handles fields carrying a single text value.
type LeafTranslator struct{}

func (t *LeafTranslator) Flatten(et *ElementTranslator, f *content.Field) map[string]string {
	if f.Text == "" {
		return map[string]string{}
	}
	return map[string]string{f.Handle: f.Text}
}

func (t *LeafTranslator) ToStructuredUpdate(et *ElementTranslator, f *content.Field, sourceSite, targetSite string, data map[string]string) any {
	text, ok := data[f.Handle]
	if !ok {
		// Missing key: the existing target value stays untouched.
		return nil
	}
	return text
}

func (t *LeafTranslator) WordCount(et *ElementTranslator, f *content.Field) int {
	return len(strings.Fields(f.Text))
}
