package fileformat

import (
	"encoding/json"
	"fmt"
)

// EncodeJSON serializes a flat map as a JSON object with the same keys.
func EncodeJSON(flat map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON translation file back into the flat map.
func DecodeJSON(blob []byte) (map[string]string, error) {
	var flat map[string]string
	if err := json.Unmarshal(blob, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if flat == nil {
		flat = map[string]string{}
	}
	return flat, nil
}
