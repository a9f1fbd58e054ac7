package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-editor/internal/types"
)

func TestView_UpdateSliceLeavesOtherLocale(t *testing.T) {
	s := newSampleStore(t)
	require.NoError(t, s.ReplaceSection(types.SectionProfile, types.NewLocalized("a", "b")))

	require.NoError(t, s.In(types.LocaleEN).UpdateSlice(types.SectionProfile, "new"))

	assert.Equal(t, types.NewLocalized("a", "new"), s.Document().Profile)
}

func TestView_UpdateSliceSeedsEmptySection(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)

	require.NoError(t, s.In(types.LocaleEN).UpdateSlice(types.SectionProfile, "hello"))

	assert.Equal(t, types.NewLocalized("hello", "hello"), s.Document().Profile)
}

func TestView_UpdateSliceRejectsNonBilingual(t *testing.T) {
	s := newSampleStore(t)
	assert.Error(t, s.Active().UpdateSlice(types.SectionSkills, types.NewSkillSet()))

	var terr *TypeError
	assert.ErrorAs(t, s.Active().UpdateSlice(types.SectionProfile, 42), &terr)
}

func TestView_UpdatePersonalTitle(t *testing.T) {
	s := newSampleStore(t)
	require.NoError(t, s.In(types.LocaleEN).UpdatePersonalField("title", "Staff Engineer"))

	title := s.Document().PersonalInfo.Title
	assert.Equal(t, "Staff Engineer", title[types.LocaleEN])
	assert.Equal(t, "Ingeniero de Software", title[types.LocaleES])

	assert.ErrorIs(t, s.Active().UpdatePersonalField("age", "40"), ErrUnknownField)
}

func TestView_UpdateExperience(t *testing.T) {
	s := newSampleStore(t)
	view := s.In(types.LocaleEN)

	require.NoError(t, view.UpdateExperience(1, "company", "Acme"))
	require.NoError(t, view.UpdateExperience(1, "responsibilities", []any{"one", "two"}))

	doc := s.Document()
	assert.Equal(t, "Acme", doc.Experience[types.LocaleEN][1].Company)
	assert.Equal(t, []string{"one", "two"}, doc.Experience[types.LocaleEN][1].Responsibilities)
	assert.Equal(t, "Software Solutions LLC", doc.Experience[types.LocaleES][1].Company)
}

func TestView_UpdateExperienceOutOfRange(t *testing.T) {
	s := newSampleStore(t)
	before := s.Document()

	err := s.Active().UpdateExperience(10, "title", "x")

	var ierr *IndexError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 10, ierr.Index)
	assert.Equal(t, 3, ierr.Len)
	assert.Same(t, before, s.Document())
}

func TestView_UpdateExperienceBadField(t *testing.T) {
	s := newSampleStore(t)
	assert.ErrorIs(t, s.Active().UpdateExperience(0, "salary", "x"), ErrUnknownField)

	var terr *TypeError
	assert.ErrorAs(t, s.Active().UpdateExperience(0, "title", 3), &terr)
}

func TestView_UpdateEducation(t *testing.T) {
	s := newSampleStore(t)
	require.NoError(t, s.In(types.LocaleES).UpdateEducation(0, "details", "Cum laude"))
	assert.Equal(t, "Cum laude", s.Document().Education[types.LocaleES][0].Details)

	var ierr *IndexError
	assert.ErrorAs(t, s.Active().UpdateEducation(-1, "degree", "x"), &ierr)
}

func TestView_ExperienceSequenceOps(t *testing.T) {
	s := newSampleStore(t)
	view := s.In(types.LocaleEN)

	require.NoError(t, view.AppendExperience(types.NewExperienceEntry(types.LocaleEN)))
	doc := s.Document()
	assert.Len(t, doc.Experience[types.LocaleEN], 4)
	assert.Len(t, doc.Experience[types.LocaleES], 3)
	assert.Equal(t, "New Position", doc.Experience[types.LocaleEN][3].Title)

	moved, err := view.MoveExperience(3, Up)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "New Position", s.Document().Experience[types.LocaleEN][2].Title)
	assert.Equal(t, "Junior Developer", s.Document().Experience[types.LocaleEN][3].Title)

	moved, err = view.MoveExperience(3, Down)
	require.NoError(t, err)
	assert.False(t, moved)

	removed, err := view.RemoveExperience(2)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, s.Document().Experience[types.LocaleEN], 3)

	removed, err = view.RemoveExperience(3)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestView_EducationSequenceOps(t *testing.T) {
	s := newSampleStore(t)
	view := s.In(types.LocaleES)

	require.NoError(t, view.AppendEducation(types.NewEducationEntry(types.LocaleES)))
	assert.Len(t, s.Document().Education[types.LocaleES], 3)

	moved, err := view.MoveEducation(0, Down)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "Certificación en Desarrollo Web", s.Document().Education[types.LocaleES][0].Degree)

	removed, err := view.RemoveEducation(0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, s.Document().Education[types.LocaleES], 2)
}
