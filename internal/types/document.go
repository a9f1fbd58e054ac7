package types

import (
	"fmt"
	"strings"
)

// PersonalInfo holds the contact header. Only Title is bilingual.
type PersonalInfo struct {
	Name     string            `json:"name"`
	Title    Localized[string] `json:"title" validate:"bilingual"`
	Email    string            `json:"email" validate:"omitempty,email"`
	Phone    string            `json:"phone"`
	Location string            `json:"location"`
	LinkedIn string            `json:"linkedin"`
	GitHub   string            `json:"github"`
}

// ExperienceEntry is a single job in the experience section.
type ExperienceEntry struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	CompanyURL       string   `json:"companyUrl,omitempty"`
	Period           string   `json:"period"`
	Responsibilities []string `json:"responsibilities"`
}

// EducationEntry is a single degree or course in the education section.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
	Details     string `json:"details,omitempty"`
}

// CVDocument is the root aggregate. Instances are treated as immutable
// snapshots: mutations produce a new document via Clone.
type CVDocument struct {
	PersonalInfo   PersonalInfo                 `json:"personalInfo"`
	Profile        Localized[string]            `json:"profile" validate:"bilingual"`
	Experience     Localized[[]ExperienceEntry] `json:"experience" validate:"bilingual"`
	Education      Localized[[]EducationEntry]  `json:"education" validate:"bilingual"`
	Skills         SkillSet                     `json:"skills"`
	Certifications []string                     `json:"certifications,omitempty"`
}

// Clone returns a deep copy of the document.
func (d *CVDocument) Clone() *CVDocument {
	if d == nil {
		return nil
	}
	out := &CVDocument{
		PersonalInfo:   d.PersonalInfo,
		Profile:        d.Profile.Clone(cloneString),
		Experience:     d.Experience.Clone(CloneExperience),
		Education:      d.Education.Clone(CloneEducation),
		Skills:         d.Skills.Clone(),
		Certifications: cloneStrings(d.Certifications),
	}
	out.PersonalInfo.Title = d.PersonalInfo.Title.Clone(cloneString)
	return out
}

// Clone returns a deep copy of the entry.
func (e ExperienceEntry) Clone() ExperienceEntry {
	e.Responsibilities = cloneStrings(e.Responsibilities)
	return e
}

// CloneExperience deep-copies an experience sequence.
func CloneExperience(in []ExperienceEntry) []ExperienceEntry {
	if in == nil {
		return nil
	}
	out := make([]ExperienceEntry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

// CloneEducation copies an education sequence.
func CloneEducation(in []EducationEntry) []EducationEntry {
	if in == nil {
		return nil
	}
	out := make([]EducationEntry, len(in))
	copy(out, in)
	return out
}

// CloneStrings copies a string slice, preserving nil.
func CloneStrings(in []string) []string {
	return cloneStrings(in)
}

func cloneString(s string) string { return s }

// NewExperienceEntry returns the localized placeholder appended by "add experience".
func NewExperienceEntry(l Locale) ExperienceEntry {
	if l == LocaleEN {
		return ExperienceEntry{
			Title:            "New Position",
			Company:          "New Company",
			CompanyURL:       "https://example.com",
			Period:           "Month Year — " + l.PresentMarker(),
			Responsibilities: []string{"Responsibility 1", "Responsibility 2"},
		}
	}
	return ExperienceEntry{
		Title:            "Nuevo Puesto",
		Company:          "Nueva Empresa",
		CompanyURL:       "https://example.com",
		Period:           "Mes Año — " + l.PresentMarker(),
		Responsibilities: []string{"Responsabilidad 1", "Responsabilidad 2"},
	}
}

// NewEducationEntry returns the localized placeholder appended by "add education".
func NewEducationEntry(l Locale) EducationEntry {
	if l == LocaleEN {
		return EducationEntry{Degree: "New Degree", Institution: "Institution", Period: "Year - Year"}
	}
	return EducationEntry{Degree: "Nuevo Título", Institution: "Institución", Period: "Año - Año"}
}

// Section names a top-level part of the document.
type Section string

// Section names, matching the JSON keys of CVDocument.
const (
	SectionPersonalInfo   Section = "personalInfo"
	SectionProfile        Section = "profile"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionCertifications Section = "certifications"
)

// Sections lists all sections in document order.
var Sections = []Section{
	SectionPersonalInfo,
	SectionProfile,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
}

// ParseSection validates a section name.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q (valid: %s)", s, sectionList())
}

// Bilingual reports whether the section is stored per locale.
func (s Section) Bilingual() bool {
	switch s {
	case SectionProfile, SectionExperience, SectionEducation:
		return true
	}
	return false
}

func sectionList() string {
	names := make([]string, len(Sections))
	for i, s := range Sections {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
