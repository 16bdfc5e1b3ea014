package fileformat

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
)

// CreateTMContent builds a three-column translation-memory CSV
// (key, source text, target text) covering every key present in either
// map. Callers pass the target map flattened from the current live
// target element when the file is complete, so the export reflects the
// latest draft rather than a stale delivered snapshot.
func CreateTMContent(source, target map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(source))
	for key := range source {
		keys = append(keys, key)
	}
	for key := range target {
		if _, seen := source[key]; !seen {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"key", "source", "target"}); err != nil {
		return nil, fmt.Errorf("failed to write tm header: %w", err)
	}
	for _, key := range keys {
		if err := w.Write([]string{key, source[key], target[key]}); err != nil {
			return nil, fmt.Errorf("failed to write tm row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush tm csv: %w", err)
	}
	return buf.Bytes(), nil
}
