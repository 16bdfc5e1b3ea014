package fileformat

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
)

// EncodeCSV serializes a flat map as a two-column CSV (key, source) with
// a header row, values quoted per RFC 4180. CSV is export-only; there is
// no matching decoder.
func EncodeCSV(flat map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"key", "source"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, key := range keys {
		if err := w.Write([]string{key, flat[key]}); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
