package content

// FieldType tags a field with the translator capable of handling its value.
type FieldType string

const (
	FieldTypePlainText FieldType = "plain_text"
	FieldTypeRichText  FieldType = "rich_text"
	FieldTypeBlocks    FieldType = "blocks"
)

// Element is one localized instance of translatable structured content:
// an entry, a global set, or asset metadata. The same element id exists
// once per site; source and target language variants are separate rows.
type Element struct {
	ID      int64   `json:"id"`
	Site    string  `json:"site"`
	Title   string  `json:"title"`
	Slug    string  `json:"slug"`
	Enabled bool    `json:"enabled"`
	Fields  []Field `json:"fields"`
}

// Field is a named, typed value on an element. Leaf types carry Text;
// the blocks type carries an ordered block sequence.
type Field struct {
	Handle string    `json:"handle"`
	Type   FieldType `json:"type"`
	Text   string    `json:"text,omitempty"`
	Blocks []Block   `json:"blocks,omitempty"`
}

// Block is one repeatable unit inside a blocks field. ID is zero until the
// store persists the block; unsaved blocks are correlated positionally.
type Block struct {
	ID             int64   `json:"id"`
	TypeHandle     string  `json:"type"`
	Enabled        bool    `json:"enabled"`
	EnabledForSite bool    `json:"enabledForSite"`
	Fields         []Field `json:"fields"`
}

// FieldByHandle returns the element's field with the given handle, or nil.
func (e *Element) FieldByHandle(handle string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Handle == handle {
			return &e.Fields[i]
		}
	}
	return nil
}

// FieldByHandle returns the block's field with the given handle, or nil.
func (b *Block) FieldByHandle(handle string) *Field {
	for i := range b.Fields {
		if b.Fields[i].Handle == handle {
			return &b.Fields[i]
		}
	}
	return nil
}

// IsLeaf reports whether the field carries a single translatable text value.
func (f *Field) IsLeaf() bool {
	return f.Type != FieldTypeBlocks
}
