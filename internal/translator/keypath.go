package translator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedKey signals a flat-map key that does not follow the
// field.block.nested addressing scheme. Keys produced by this package
// always parse, so hitting this on import means version skew or a
// hand-edited file; callers treat it as a per-unit miss, not a fatal
// error.
var ErrMalformedKey = errors.New("malformed key")

const keySeparator = "."

// BuildKey qualifies a nested key with its field handle and block id.
// The block segment is omitted for keys addressing non-block fields.
func BuildKey(fieldHandle, blockID, nestedKey string) string {
	if blockID == "" {
		return fieldHandle
	}
	return fmt.Sprintf("%s%s%s%s%s", fieldHandle, keySeparator, blockID, keySeparator, nestedKey)
}

// ParseKey splits a flat-map key into its field handle, block id and
// remainder. The remainder is itself a key to be parsed by the nested
// field's translator. A key with a single segment addresses a leaf field
// directly and returns empty blockID and remainder.
func ParseKey(key string) (fieldHandle, blockID, remainder string, err error) {
	if key == "" {
		return "", "", "", ErrMalformedKey
	}

	parts := strings.SplitN(key, keySeparator, 3)
	switch len(parts) {
	case 1:
		return parts[0], "", "", nil
	case 3:
		if parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return "", "", "", ErrMalformedKey
		}
		return parts[0], parts[1], parts[2], nil
	default:
		// Two segments means a block id with no nested key underneath,
		// which the flattener never produces.
		return "", "", "", ErrMalformedKey
	}
}
