package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/types"
)

// applyEdit runs fn against a fresh sample document and returns the saved result.
func applyEdit(t *testing.T, fn editFunc) (*types.CVDocument, int64, error) {
	t.Helper()
	repo := newTestRepo(t)
	id := newSampleDocument(t, repo)
	rec, err := withDocument(context.Background(), repo, id, fn)
	if err != nil {
		return nil, 0, err
	}
	return rec.Document, rec.Revision, nil
}

func TestEditPersonal(t *testing.T) {
	sample := types.SampleDocument()

	t.Run("title is written in one locale", func(t *testing.T) {
		doc, revision, err := applyEdit(t, editPersonal(types.LocaleEN, "title", "Staff Engineer"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), revision)
		assert.Equal(t, "Staff Engineer", doc.PersonalInfo.Title.Get(types.LocaleEN))
		assert.Equal(t, sample.PersonalInfo.Title.Get(types.LocaleES), doc.PersonalInfo.Title.Get(types.LocaleES))
	})

	t.Run("plain field", func(t *testing.T) {
		doc, _, err := applyEdit(t, editPersonal(types.LocaleES, "location", "Madrid"))
		require.NoError(t, err)
		assert.Equal(t, "Madrid", doc.PersonalInfo.Location)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, _, err := applyEdit(t, editPersonal(types.LocaleES, "age", "40"))
		assert.ErrorIs(t, err, document.ErrUnknownField)
	})
}

func TestEditProfile(t *testing.T) {
	sample := types.SampleDocument()

	doc, _, err := applyEdit(t, editProfile(types.LocaleES, "Nuevo resumen"))
	require.NoError(t, err)
	assert.Equal(t, "Nuevo resumen", doc.Profile.Get(types.LocaleES))
	assert.Equal(t, sample.Profile.Get(types.LocaleEN), doc.Profile.Get(types.LocaleEN))
}

func TestEditEntry(t *testing.T) {
	tests := []struct {
		name    string
		section types.Section
		index   int
		field   string
		wantErr bool
		verify  func(t *testing.T, doc *types.CVDocument)
	}{
		{
			name: "experience title", section: types.SectionExperience, index: 0, field: "title",
			verify: func(t *testing.T, doc *types.CVDocument) {
				assert.Equal(t, "Updated", doc.Experience.Get(types.LocaleEN)[0].Title)
			},
		},
		{
			name: "education degree", section: types.SectionEducation, index: 1, field: "degree",
			verify: func(t *testing.T, doc *types.CVDocument) {
				assert.Equal(t, "Updated", doc.Education.Get(types.LocaleEN)[1].Degree)
			},
		},
		{name: "index out of range", section: types.SectionEducation, index: 99, field: "degree", wantErr: true},
		{name: "unknown field", section: types.SectionExperience, index: 0, field: "salary", wantErr: true},
		{name: "not a sequence", section: types.SectionSkills, index: 0, field: "title", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := applyEdit(t, editEntry(types.LocaleEN, tt.section, tt.index, tt.field, "Updated"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.verify(t, doc)
		})
	}
}

func TestEditEntry_IndexError(t *testing.T) {
	_, _, err := applyEdit(t, editEntry(types.LocaleEN, types.SectionExperience, 42, "title", "x"))
	var indexErr *document.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, 42, indexErr.Index)
}

func TestEditResponsibilities(t *testing.T) {
	original := types.SampleDocument().Experience.Get(types.LocaleEN)[0].Responsibilities
	require.NotEmpty(t, original)

	t.Run("replace drops blank items", func(t *testing.T) {
		doc, _, err := applyEdit(t, editResponsibilities(types.LocaleEN, 0, []string{"Shipped", "  ", "Mentored"}, -1))
		require.NoError(t, err)
		assert.Equal(t, []string{"Shipped", "Mentored"}, doc.Experience.Get(types.LocaleEN)[0].Responsibilities)
	})

	t.Run("remove one item", func(t *testing.T) {
		doc, _, err := applyEdit(t, editResponsibilities(types.LocaleEN, 0, nil, 0))
		require.NoError(t, err)
		assert.Equal(t, original[1:], doc.Experience.Get(types.LocaleEN)[0].Responsibilities)
	})

	t.Run("entry out of range", func(t *testing.T) {
		_, _, err := applyEdit(t, editResponsibilities(types.LocaleEN, 10, []string{"x"}, -1))
		var indexErr *document.IndexError
		assert.ErrorAs(t, err, &indexErr)
	})
}

func TestEditSequences(t *testing.T) {
	sample := types.SampleDocument()
	experience := sample.Experience.Get(types.LocaleEN)
	education := sample.Education.Get(types.LocaleEN)

	t.Run("append placeholder", func(t *testing.T) {
		doc, _, err := applyEdit(t, editAppend(types.LocaleEN, types.SectionExperience))
		require.NoError(t, err)
		entries := doc.Experience.Get(types.LocaleEN)
		require.Len(t, entries, len(experience)+1)
		assert.Equal(t, types.NewExperienceEntry(types.LocaleEN).Title, entries[len(entries)-1].Title)
		assert.Len(t, doc.Experience.Get(types.LocaleES), len(sample.Experience.Get(types.LocaleES)))
	})

	t.Run("move down", func(t *testing.T) {
		doc, _, err := applyEdit(t, editMove(types.LocaleEN, types.SectionExperience, 0, document.Down))
		require.NoError(t, err)
		entries := doc.Experience.Get(types.LocaleEN)
		assert.Equal(t, experience[1].Title, entries[0].Title)
		assert.Equal(t, experience[0].Title, entries[1].Title)
	})

	t.Run("move past the top", func(t *testing.T) {
		_, _, err := applyEdit(t, editMove(types.LocaleEN, types.SectionEducation, 0, document.Up))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot move")
	})

	t.Run("remove", func(t *testing.T) {
		doc, _, err := applyEdit(t, editRemove(types.LocaleEN, types.SectionEducation, 0))
		require.NoError(t, err)
		entries := doc.Education.Get(types.LocaleEN)
		require.Len(t, entries, len(education)-1)
		assert.Equal(t, education[1].Degree, entries[0].Degree)
	})

	t.Run("remove out of range", func(t *testing.T) {
		_, _, err := applyEdit(t, editRemove(types.LocaleEN, types.SectionExperience, 99))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no entry")
	})

	t.Run("not a sequence", func(t *testing.T) {
		_, _, err := applyEdit(t, editAppend(types.LocaleEN, types.SectionProfile))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an entry sequence")
	})
}

func TestEditSkills(t *testing.T) {
	t.Run("set adds a category", func(t *testing.T) {
		fn, err := editSkills("set", "Languages", []string{"Go", "Rust"})
		require.NoError(t, err)
		doc, _, err := applyEdit(t, fn)
		require.NoError(t, err)
		skills, ok := doc.Skills.Get("Languages")
		require.True(t, ok)
		assert.Equal(t, []string{"Go", "Rust"}, skills)
	})

	t.Run("rename", func(t *testing.T) {
		fn, err := editSkills("rename", "Frontend", []string{"UI"})
		require.NoError(t, err)
		doc, _, err := applyEdit(t, fn)
		require.NoError(t, err)
		assert.True(t, doc.Skills.Has("UI"))
		assert.False(t, doc.Skills.Has("Frontend"))
	})

	t.Run("rename overwrites an existing category", func(t *testing.T) {
		backend, _ := types.SampleDocument().Skills.Get("Backend")
		fn, err := editSkills("rename", "Backend", []string{"Tools"})
		require.NoError(t, err)
		doc, _, err := applyEdit(t, fn)
		require.NoError(t, err)
		tools, ok := doc.Skills.Get("Tools")
		require.True(t, ok)
		assert.Equal(t, backend, tools)
		assert.False(t, doc.Skills.Has("Backend"))
	})

	t.Run("remove", func(t *testing.T) {
		fn, err := editSkills("remove", "Tools", nil)
		require.NoError(t, err)
		doc, _, err := applyEdit(t, fn)
		require.NoError(t, err)
		assert.False(t, doc.Skills.Has("Tools"))
	})

	errTests := []struct {
		name     string
		op       string
		category string
		rest     []string
		wantErr  string
	}{
		{name: "unknown operation", op: "merge", category: "Tools", wantErr: "unknown skills operation"},
		{name: "rename without target", op: "rename", category: "Tools", wantErr: "new category name"},
		{name: "empty category", op: "remove", category: "", wantErr: "empty"},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := editSkills(tt.op, tt.category, tt.rest)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseIndex(t *testing.T) {
	index, err := parseIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	for _, bad := range []string{"-1", "x", ""} {
		_, err := parseIndex(bad)
		assert.Error(t, err, bad)
	}
}
