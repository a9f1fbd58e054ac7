package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-editor/internal/types"
)

func TestCreateDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("sample when no file is given", func(t *testing.T) {
		rec, err := createDocument(ctx, newTestRepo(t), "")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", rec.Document.PersonalInfo.Name)
		assert.Equal(t, int64(1), rec.Revision)
	})

	t.Run("from file", func(t *testing.T) {
		doc := types.SampleDocument()
		doc.PersonalInfo.Name = "Jane Smith"
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "cv.json")
		require.NoError(t, os.WriteFile(path, data, 0644))

		rec, err := createDocument(ctx, newTestRepo(t), path)
		require.NoError(t, err)
		assert.Equal(t, "Jane Smith", rec.Document.PersonalInfo.Name)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cv.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"profile": {"en": "only english"}}`), 0644))

		_, err := createDocument(ctx, newTestRepo(t), path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := createDocument(ctx, newTestRepo(t), filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestListDocuments(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var out bytes.Buffer
	require.NoError(t, listDocuments(ctx, repo, &out))
	assert.Equal(t, "No documents.\n", out.String())

	first := newSampleDocument(t, repo)
	second := newSampleDocument(t, repo)

	out.Reset()
	require.NoError(t, listDocuments(ctx, repo, &out))
	assert.Contains(t, out.String(), "REVISION")
	assert.Contains(t, out.String(), first)
	assert.Contains(t, out.String(), second)
	assert.Contains(t, out.String(), "John Doe")
}

func TestValidateDocument(t *testing.T) {
	valid, err := json.Marshal(types.SampleDocument())
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		output  string
	}{
		{name: "valid", data: valid, output: "DOCUMENT IS VALID"},
		{name: "missing locale", data: []byte(`{"profile": {"es": "solo español"}}`), wantErr: true, output: "VALIDATION"},
		{name: "malformed JSON", data: []byte(`{`), wantErr: true, output: "VALIDATION FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := validateDocument(tt.data, &out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.output)
		})
	}
}
