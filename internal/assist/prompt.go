package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cv-editor/internal/prompts"
	"github.com/jonathan/cv-editor/internal/types"
)

// Request describes one assist invocation.
type Request struct {
	Kind Kind
	// JobDescription is required by KindTailor.
	JobDescription string
	// Text is the raw CV text required by KindExtract.
	Text string
}

// BuildPrompt renders the task template with the JSON-serialized part of doc
// the task works on.
func BuildPrompt(req Request, doc *types.CVDocument) (string, error) {
	data := map[string]string{}

	switch req.Kind {
	case KindImproveExperience, KindImproveProfile, KindImproveEducation, KindImproveSkills:
		if doc == nil {
			return "", fmt.Errorf("%w: document is nil", ErrMissingInput)
		}
		section, err := sectionJSON(doc, req.Kind.Section())
		if err != nil {
			return "", err
		}
		data["Section"] = section
	case KindAdvice:
		document, err := documentJSON(doc)
		if err != nil {
			return "", err
		}
		data["Document"] = document
	case KindTailor:
		if strings.TrimSpace(req.JobDescription) == "" {
			return "", fmt.Errorf("%w: job description is required", ErrMissingInput)
		}
		document, err := documentJSON(doc)
		if err != nil {
			return "", err
		}
		data["Document"] = document
		data["JobDescription"] = strings.TrimSpace(req.JobDescription)
	case KindExtract:
		if strings.TrimSpace(req.Text) == "" {
			return "", fmt.Errorf("%w: text is required", ErrMissingInput)
		}
		data["Text"] = req.Text
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKind, req.Kind)
	}

	return prompts.Render(prompts.AssistFile, string(req.Kind), data)
}

func sectionJSON(doc *types.CVDocument, section types.Section) (string, error) {
	var value any
	switch section {
	case types.SectionExperience:
		value = doc.Experience
	case types.SectionProfile:
		value = doc.Profile
	case types.SectionEducation:
		value = doc.Education
	case types.SectionSkills:
		value = doc.Skills
	default:
		return "", fmt.Errorf("section %q cannot be improved", section)
	}
	return indentJSON(value)
}

func documentJSON(doc *types.CVDocument) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: document is nil", ErrMissingInput)
	}
	return indentJSON(doc)
}

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize prompt input: %w", err)
	}
	return string(data), nil
}
