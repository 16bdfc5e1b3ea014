package fileformat

// Conversions between persisted file formats all pass through the flat
// map as the intermediate form: decode source -> flat map -> encode
// target. There is deliberately no csvToXml/csvToJson; an importer
// receiving CSV fails with ErrUnsupportedImportFormat instead of
// guessing.

func XMLToJSON(blob []byte) ([]byte, error) {
	flat, err := DecodeXML(blob)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(flat)
}

func JSONToXML(blob []byte) ([]byte, error) {
	flat, err := DecodeJSON(blob)
	if err != nil {
		return nil, err
	}
	return EncodeXML(flat)
}

func XMLToCSV(blob []byte) ([]byte, error) {
	flat, err := DecodeXML(blob)
	if err != nil {
		return nil, err
	}
	return EncodeCSV(flat)
}

func JSONToCSV(blob []byte) ([]byte, error) {
	flat, err := DecodeJSON(blob)
	if err != nil {
		return nil, err
	}
	return EncodeCSV(flat)
}

// Decode parses a blob in an importable format into the flat map.
func Decode(blob []byte, format Format) (map[string]string, error) {
	switch format {
	case FormatXML:
		return DecodeXML(blob)
	case FormatJSON:
		return DecodeJSON(blob)
	default:
		return nil, ErrUnsupportedImportFormat
	}
}

// Encode serializes the flat map into an exportable format.
func Encode(flat map[string]string, format Format) ([]byte, error) {
	switch format {
	case FormatXML:
		return EncodeXML(flat)
	case FormatJSON:
		return EncodeJSON(flat)
	case FormatCSV:
		return EncodeCSV(flat)
	default:
		return nil, ErrUnsupportedImportFormat
	}
}
