package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-editor/internal/types"
)

func newSampleStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.SampleDocument())
	require.NoError(t, err)
	return s
}

func TestNewStore_RejectsIncompleteDocument(t *testing.T) {
	doc := types.SampleDocument()
	delete(doc.Education, types.LocaleEN)

	_, err := NewStore(doc)
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewStore_NilStartsEmpty(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	assert.Equal(t, types.PrimaryLocale, s.Locale())
	assert.Equal(t, 0, s.Document().Skills.Len())
}

func TestStore_MutationReplacesSnapshot(t *testing.T) {
	s := newSampleStore(t)
	before := s.Document()

	require.NoError(t, s.In(types.LocaleEN).UpdatePersonalField("name", "Jane Roe"))

	after := s.Document()
	assert.NotSame(t, before, after)
	assert.Equal(t, "John Doe", before.PersonalInfo.Name, "old snapshot must not change")
	assert.Equal(t, "Jane Roe", after.PersonalInfo.Name)
	assert.Equal(t, int64(1), s.Version())
}

func TestStore_FailedMutationKeepsSnapshot(t *testing.T) {
	s := newSampleStore(t)
	before := s.Document()

	err := s.Active().UpdatePersonalField("email", "not-an-email")
	require.Error(t, err)

	assert.Same(t, before, s.Document())
	assert.Equal(t, int64(0), s.Version())
}

func TestStore_Section(t *testing.T) {
	s := newSampleStore(t)

	profile, err := s.Section(types.SectionProfile, types.LocaleEN)
	require.NoError(t, err)
	assert.Contains(t, profile.(string), "Software engineer")

	exp, err := s.Section(types.SectionExperience, types.LocaleES)
	require.NoError(t, err)
	assert.Equal(t, "Ingeniero de Software Senior", exp.([]types.ExperienceEntry)[0].Title)

	skills, err := s.Section(types.SectionSkills, types.LocaleEN)
	require.NoError(t, err)
	assert.Equal(t, 5, skills.(types.SkillSet).Len())

	_, err = s.Section(types.Section("hobbies"), types.LocaleEN)
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestStore_SectionReturnsCopy(t *testing.T) {
	s := newSampleStore(t)
	exp, err := s.Section(types.SectionExperience, types.LocaleEN)
	require.NoError(t, err)
	exp.([]types.ExperienceEntry)[0].Title = "changed"

	assert.Equal(t, "Senior Software Engineer", s.Document().Experience[types.LocaleEN][0].Title)
}

func TestStore_ReplaceSection(t *testing.T) {
	s := newSampleStore(t)

	require.NoError(t, s.ReplaceSection(types.SectionProfile, types.NewLocalized("hola", "hello")))
	assert.Equal(t, types.NewLocalized("hola", "hello"), s.Document().Profile)

	err := s.ReplaceSection(types.SectionProfile, types.Localized[string]{types.LocaleES: "solo"})
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)

	err = s.ReplaceSection(types.SectionCertifications, "not a list")
	var terr *TypeError
	assert.ErrorAs(t, err, &terr)

	require.NoError(t, s.ReplaceSection(types.SectionCertifications, []string{"CKA"}))
	assert.Equal(t, []string{"CKA"}, s.Document().Certifications)
}

func TestStore_ReplaceSections(t *testing.T) {
	s := newSampleStore(t)

	err := s.ReplaceSections(map[types.Section]any{
		types.SectionProfile:        types.NewLocalized("hola", "hello"),
		types.SectionCertifications: []string{"CKA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", s.Document().Profile.Get(types.LocaleEN))
	assert.Equal(t, []string{"CKA"}, s.Document().Certifications)
	assert.Equal(t, int64(1), s.Version())
}

func TestStore_ReplaceSectionsAllOrNothing(t *testing.T) {
	s := newSampleStore(t)
	before := s.Document()

	err := s.ReplaceSections(map[types.Section]any{
		types.SectionProfile:    types.NewLocalized("hola", "hello"),
		types.SectionExperience: types.Localized[[]types.ExperienceEntry]{types.LocaleES: nil},
	})
	require.Error(t, err)
	assert.Same(t, before, s.Document())

	err = s.ReplaceSections(map[types.Section]any{types.Section("languages"): []string{"es"}})
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.Equal(t, int64(0), s.Version())
}

func TestStore_Replace(t *testing.T) {
	s := newSampleStore(t)
	doc := types.SampleDocument()
	doc.PersonalInfo.Name = "Replaced"

	require.NoError(t, s.Replace(doc))
	doc.PersonalInfo.Name = "mutated after replace"

	assert.Equal(t, "Replaced", s.Document().PersonalInfo.Name)
}

func TestStore_SkillCategories(t *testing.T) {
	s := newSampleStore(t)

	renamed, err := s.RenameSkillCategory("Tools", "Database")
	require.NoError(t, err)
	assert.True(t, renamed)
	skills := s.Document().Skills
	assert.False(t, skills.Has("Tools"))
	db, _ := skills.Get("Database")
	assert.Equal(t, []string{"Git", "VS Code", "Jira", "Figma"}, db)

	renamed, err = s.RenameSkillCategory("Missing", "Other")
	require.NoError(t, err)
	assert.False(t, renamed)

	require.NoError(t, s.SetSkillCategory("Languages", []string{"Go"}))
	assert.Equal(t, "Languages", s.Document().Skills.Categories()[s.Document().Skills.Len()-1])

	deleted, err := s.DeleteSkillCategory("Languages")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.DeleteSkillCategory("Languages")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_Subscribe(t *testing.T) {
	s := newSampleStore(t)

	var versions []int64
	var docs []*types.CVDocument
	unsubscribe := s.Subscribe(func(doc *types.CVDocument, version int64) {
		versions = append(versions, version)
		docs = append(docs, doc)
	})

	require.NoError(t, s.SetSkillCategory("A", nil))
	require.NoError(t, s.SetSkillCategory("B", nil))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SetSkillCategory("C", nil))

	assert.Equal(t, []int64{1, 2}, versions)
	require.Len(t, docs, 2)
	assert.NotSame(t, docs[0], docs[1])
}

func TestStore_NoOpDoesNotNotify(t *testing.T) {
	s := newSampleStore(t)
	calls := 0
	s.Subscribe(func(*types.CVDocument, int64) { calls++ })

	moved, err := s.Active().MoveExperience(0, Up)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 0, calls)
}

func TestStore_Locale(t *testing.T) {
	s := newSampleStore(t)
	assert.Equal(t, types.LocaleES, s.Locale())
	assert.Equal(t, types.LocaleEN, s.ToggleLocale())
	assert.Equal(t, types.LocaleEN, s.Active().Locale())

	assert.Error(t, s.SetLocale("fr"))
	require.NoError(t, s.SetLocale(types.LocaleES))
	assert.Equal(t, types.LocaleES, s.Locale())
}
