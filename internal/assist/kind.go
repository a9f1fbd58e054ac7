// Package assist is the AI content-assist gateway: it builds prompts from a
// CV document, streams the model's answer to a cancellable subscription and
// turns the finished text into section replacements that apply all at once.
package assist

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-editor/internal/types"
)

// Kind identifies an assist task. Its value is also the prompt template key.
type Kind string

const (
	KindImproveExperience Kind = "improve-experience"
	KindImproveProfile    Kind = "improve-profile"
	KindImproveEducation  Kind = "improve-education"
	KindImproveSkills     Kind = "improve-skills"
	KindAdvice            Kind = "get-advice"
	KindTailor            Kind = "tailor-to-job-description"
	KindExtract           Kind = "extract-from-raw-text"
)

// Kinds lists every assist task.
var Kinds = []Kind{
	KindImproveExperience,
	KindImproveProfile,
	KindImproveEducation,
	KindImproveSkills,
	KindAdvice,
	KindTailor,
	KindExtract,
}

// ImproveKinds are the single-section improvements run together by ImproveAll.
var ImproveKinds = []Kind{
	KindImproveExperience,
	KindImproveProfile,
	KindImproveEducation,
	KindImproveSkills,
}

// ParseKind validates a task name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("%w %q (valid: %s)", ErrUnknownKind, s, strings.Join(names, ", "))
}

// Section returns the section an improve task rewrites, or "" for tasks that
// work on the whole document.
func (k Kind) Section() types.Section {
	switch k {
	case KindImproveExperience:
		return types.SectionExperience
	case KindImproveProfile:
		return types.SectionProfile
	case KindImproveEducation:
		return types.SectionEducation
	case KindImproveSkills:
		return types.SectionSkills
	}
	return ""
}

// Applies reports whether the task's result can be written into a document.
// Advice is informational only.
func (k Kind) Applies() bool {
	return k != KindAdvice
}

// Title is the human label shown while a task runs.
func (k Kind) Title() string {
	switch k {
	case KindImproveExperience:
		return "AI Job Experience Improvement"
	case KindImproveProfile:
		return "AI Profile Improvement"
	case KindImproveEducation:
		return "AI Education Improvement"
	case KindImproveSkills:
		return "AI Skills Improvement"
	case KindAdvice:
		return "AI CV Advice"
	case KindTailor:
		return "Tailor CV to Job Description"
	case KindExtract:
		return "AI CV Extraction"
	}
	return string(k)
}
