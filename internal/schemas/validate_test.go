package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalResume = `{
	"basics": {"name": "Jane Roe", "label": "Engineer"},
	"work": [],
	"education": [],
	"skills": [{"name": "Go", "keywords": ["generics"]}]
}`

func TestValidate_Interchange(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantError bool
	}{
		{name: "minimal resume", json: minimalResume},
		{name: "missing basics", json: `{"work": [], "education": [], "skills": []}`, wantError: true},
		{name: "missing name", json: `{"basics": {}, "work": [], "education": [], "skills": []}`, wantError: true},
		{name: "work not an array", json: `{"basics": {"name": "x"}, "work": {}, "education": [], "skills": []}`, wantError: true},
		{name: "no version field needed", json: `{"basics": {"name": "x"}, "work": [], "education": [], "skills": [], "meta": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Interchange, []byte(tt.json))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_DocumentRequiresBothLocales(t *testing.T) {
	doc := `{
		"personalInfo": {"name": "x", "title": {"es": "a", "en": "b"}},
		"profile": {"es": "hola"},
		"experience": {"es": [], "en": []},
		"education": {"es": [], "en": []},
		"skills": {}
	}`

	err := Validate(Document, []byte(doc))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	found := false
	for _, fe := range validationErr.Errors {
		if fe.Field == "profile" {
			found = true
		}
	}
	assert.True(t, found, "expected an error on profile, got %v", validationErr.Errors)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(Interchange, []byte("{ invalid json }"))
	require.Error(t, err)
	_, isValidation := err.(*ValidationError)
	assert.False(t, isValidation, "parse failures are not schema violations")
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalResume), 0644))

	assert.NoError(t, ValidateFile(Interchange, path))

	err := ValidateFile(Interchange, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	assert.NoError(t, ValidateJSONString(schemaContent, `{"name": "test"}`))

	err := ValidateJSONString(schemaContent, `{"age": 30}`)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "basics.name", Message: "is required"},
			{Field: "work", Message: "must be an array"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "basics.name")
	assert.Contains(t, errorMsg, "work")
}
