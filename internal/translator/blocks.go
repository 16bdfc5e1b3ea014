package translator

import (
	"strconv"

	"github.com/lingohub/lingohub/internal/content"
)

// BlockPost is the writeback structure for one block inside a blocks
// field. Type, enabled state and site come from the live block; Fields
// holds the recursive per-field update set.
type BlockPost struct {
	Type           string         `json:"type"`
	Enabled        bool           `json:"enabled"`
	EnabledForSite bool           `json:"enabledForSite"`
	Site           string         `json:"site"`
	Fields         map[string]any `json:"fields"`
}

// BlocksTranslator handles the nested-collection field type: an ordered
// sequence of blocks, each with its own fields that may themselves be
// block collections.
type BlocksTranslator struct{}

// blockID returns the block's persisted identity, or assigns the next
// synthetic placeholder. The counter is scoped to one flatten or
// reconstruct invocation so that the same live block sequence always
// re-derives the same synthetic ids; the ids are never stable across
// independent calls.
func blockID(b *content.Block, newSeq *int) string {
	if b.ID != 0 {
		return strconv.FormatInt(b.ID, 10)
	}
	*newSeq++
	return "new" + strconv.Itoa(*newSeq)
}

func (t *BlocksTranslator) Flatten(et *ElementTranslator, f *content.Field) map[string]string {
	source := map[string]string{}

	// Disabled blocks are flattened too: visibility does not gate
	// translation.
	newSeq := 0
	for i := range f.Blocks {
		block := &f.Blocks[i]
		id := blockID(block, &newSeq)

		for key, value := range et.flattenFields(block.Fields) {
			source[BuildKey(f.Handle, id, key)] = value
		}
	}

	return source
}

func (t *BlocksTranslator) ToStructuredUpdate(et *ElementTranslator, f *content.Field, sourceSite, targetSite string, data map[string]string) any {
	// Group the translated units by block id. Keys arrive still prefixed
	// with the field handle; a key that does not parse is a recoverable
	// per-unit miss and is skipped.
	grouped := map[string]map[string]string{}
	for key, value := range data {
		_, id, remainder, err := ParseKey(key)
		if err != nil || id == "" {
			continue
		}
		if grouped[id] == nil {
			grouped[id] = map[string]string{}
		}
		grouped[id][remainder] = value
	}

	// The live block sequence is the source of truth for identity and
	// count; the flat map carries text only, never structural edits.
	// Units referencing a block no longer present contribute nothing.
	post := map[string]BlockPost{}
	newSeq := 0
	for i := range f.Blocks {
		block := &f.Blocks[i]
		id := blockID(block, &newSeq)

		blockData := grouped[id]
		post[id] = BlockPost{
			Type:           block.TypeHandle,
			Enabled:        block.Enabled,
			EnabledForSite: block.EnabledForSite,
			Site:           targetSite,
			Fields:         et.structuredFields(block.Fields, sourceSite, targetSite, blockData),
		}
	}

	return post
}

func (t *BlocksTranslator) WordCount(et *ElementTranslator, f *content.Field) int {
	count := 0
	for i := range f.Blocks {
		count += et.wordCountFields(f.Blocks[i].Fields)
	}
	return count
}
