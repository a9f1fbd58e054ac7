package interchange

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/cv-editor/internal/schemas"
	"github.com/jonathan/cv-editor/internal/types"
)

// DecodeError reports an interchange file that could not be read.
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid interchange JSON: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid interchange JSON: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Decode parses interchange JSON after checking that the keys the importer
// reads are present. No version field is required.
func Decode(data []byte) (*Resume, error) {
	if !json.Valid(data) {
		return nil, &DecodeError{Message: "malformed JSON"}
	}
	if err := schemas.Validate(schemas.Interchange, data); err != nil {
		return nil, &DecodeError{Message: "missing or mistyped keys", Cause: err}
	}
	var r Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &DecodeError{Message: "failed to decode", Cause: err}
	}
	return &r, nil
}

// Encode writes r as indented JSON.
func Encode(r *Resume) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode interchange JSON: %w", err)
	}
	return data, nil
}

// Import decodes interchange JSON into a validated document.
func Import(data []byte) (*types.CVDocument, error) {
	r, err := Decode(data)
	if err != nil {
		return nil, err
	}
	doc := FromInterchange(r)
	if err := doc.Validate(); err != nil {
		return nil, &DecodeError{Message: "imported document is invalid", Cause: err}
	}
	return doc, nil
}

// Export encodes locale l of doc and returns it with the suggested file name.
func Export(doc *types.CVDocument, l types.Locale) (data []byte, fileName string, err error) {
	data, err = Encode(ToInterchange(doc, l))
	if err != nil {
		return nil, "", err
	}
	return data, FileName(doc.PersonalInfo.Name), nil
}
