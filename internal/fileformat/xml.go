package fileformat

import (
	"encoding/xml"
	"fmt"
	"sort"
)

type xmlUnit struct {
	Key  string `xml:"key,attr"`
	Text string `xml:",chardata"`
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"content"`
	Units   []xmlUnit `xml:"unit"`
}

// EncodeXML serializes a flat map as one <unit> element per key, keys
// sorted for deterministic output. Reserved characters are escaped by
// the encoder.
func EncodeXML(flat map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	doc := xmlDocument{Units: make([]xmlUnit, 0, len(keys))}
	for _, key := range keys {
		doc.Units = append(doc.Units, xmlUnit{Key: key, Text: flat[key]})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode xml: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// DecodeXML parses an XML translation file back into the flat map.
func DecodeXML(blob []byte) (map[string]string, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode xml: %w", err)
	}

	flat := make(map[string]string, len(doc.Units))
	for _, unit := range doc.Units {
		flat[unit.Key] = unit.Text
	}
	return flat, nil
}
