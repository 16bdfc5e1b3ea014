package fileformat

import (
	"bytes"
	"errors"
)

// Format identifies a persisted translation file format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatZIP  Format = "zip"

	FormatUnknown Format = ""
)

// ErrUnsupportedImportFormat is returned when an importer receives a
// format that is export-only. CSV in particular is never guessed at.
var ErrUnsupportedImportFormat = errors.New("unsupported import format")

// Detect sniffs a stored blob for XML versus JSON by content. Formats
// other than these two are never stored as file sources.
func Detect(blob []byte) Format {
	trimmed := bytes.TrimLeft(blob, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '<':
		return FormatXML
	case '{':
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// ParseFormat maps a file extension to a Format.
func ParseFormat(ext string) (Format, bool) {
	switch Format(ext) {
	case FormatXML, FormatJSON, FormatCSV, FormatZIP:
		return Format(ext), true
	default:
		return FormatUnknown, false
	}
}
