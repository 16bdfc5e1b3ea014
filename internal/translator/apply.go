package translator

import (
	"github.com/lingohub/lingohub/internal/content"
)

// ApplyPost writes a structured update set produced by
// ToPostArrayFromTranslationTarget onto the element's fields. Blocks are
// correlated the same way the update was built: persisted id when the
// block has one, otherwise the position-rederived synthetic id.
func ApplyPost(el *content.Element, post map[string]any) {
	applyFields(el.Fields, post)
}

func applyFields(fields []content.Field, post map[string]any) {
	for i := range fields {
		value, ok := post[fields[i].Handle]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case string:
			fields[i].Text = v
		case map[string]BlockPost:
			applyBlocks(fields[i].Blocks, v)
		}
	}
}

func applyBlocks(blocks []content.Block, post map[string]BlockPost) {
	newSeq := 0
	for i := range blocks {
		id := blockID(&blocks[i], &newSeq)
		bp, ok := post[id]
		if !ok {
			continue
		}
		blocks[i].Enabled = bp.Enabled
		blocks[i].EnabledForSite = bp.EnabledForSite
		applyFields(blocks[i].Fields, bp.Fields)
	}
}
