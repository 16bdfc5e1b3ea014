package translator

import (
	"fmt"

	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/fileformat"
)

// ElementTranslator orchestrates recursion over all fields of one
// element, delegating per-field work to the registry and merging the
// per-field flat maps into one element-level map.
type ElementTranslator struct {
	registry *Registry
}

func NewElementTranslator(registry *Registry) *ElementTranslator {
	return &ElementTranslator{registry: registry}
}

// ToTranslationSource flattens every translatable field of the element
// into the flat key->text map. Key collisions across fields are
// impossible by construction: every key is prefixed by its field handle.
func (et *ElementTranslator) ToTranslationSource(el *content.Element) map[string]string {
	return et.flattenFields(el.Fields)
}

// ToPostArrayFromTranslationTarget maps translated flat data onto a
// structured per-field update set for the live target element.
func (et *ElementTranslator) ToPostArrayFromTranslationTarget(el *content.Element, sourceSite, targetSite string, data map[string]string) map[string]any {
	return et.structuredFields(el.Fields, sourceSite, targetSite, data)
}

// WordCount sums the word counts of all the element's fields.
func (et *ElementTranslator) WordCount(el *content.Element) int {
	return et.wordCountFields(el.Fields)
}

// GetTargetData deserializes a stored file blob into the flat map,
// auto-detecting XML versus JSON by content.
func (et *ElementTranslator) GetTargetData(blob []byte) (map[string]string, error) {
	format := fileformat.Detect(blob)
	switch format {
	case fileformat.FormatXML:
		return fileformat.DecodeXML(blob)
	case fileformat.FormatJSON:
		return fileformat.DecodeJSON(blob)
	default:
		return nil, fmt.Errorf("stored file is neither XML nor JSON")
	}
}

func (et *ElementTranslator) flattenFields(fields []content.Field) map[string]string {
	source := map[string]string{}
	for i := range fields {
		tr := et.registry.Lookup(fields[i].Type)
		if tr == nil {
			continue
		}
		for key, value := range tr.Flatten(et, &fields[i]) {
			source[key] = value
		}
	}
	return source
}

// structuredFields builds the per-field update set for a field list,
// handing each translator only the units addressed to its field. Units
// with malformed keys are skipped.
func (et *ElementTranslator) structuredFields(fields []content.Field, sourceSite, targetSite string, data map[string]string) map[string]any {
	grouped := map[string]map[string]string{}
	for key, value := range data {
		handle, _, _, err := ParseKey(key)
		if err != nil {
			continue
		}
		if grouped[handle] == nil {
			grouped[handle] = map[string]string{}
		}
		grouped[handle][key] = value
	}

	post := map[string]any{}
	for i := range fields {
		tr := et.registry.Lookup(fields[i].Type)
		if tr == nil {
			continue
		}
		structured := tr.ToStructuredUpdate(et, &fields[i], sourceSite, targetSite, grouped[fields[i].Handle])
		if structured != nil {
			post[fields[i].Handle] = structured
		}
	}
	return post
}

func (et *ElementTranslator) wordCountFields(fields []content.Field) int {
	count := 0
	for i := range fields {
		tr := et.registry.Lookup(fields[i].Type)
		if tr == nil {
			continue
		}
		count += tr.WordCount(et, &fields[i])
	}
	return count
}
