package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid CV document:")
	for _, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func documentValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// A bilingual field is either unpopulated or carries both locales.
		_ = v.RegisterValidation("bilingual", func(fl validator.FieldLevel) bool {
			field := fl.Field()
			if field.Kind() != reflect.Map {
				return false
			}
			if field.Len() == 0 {
				return true
			}
			for _, l := range SupportedLocales {
				if !field.MapIndex(reflect.ValueOf(l)).IsValid() {
					return false
				}
			}
			return true
		})
		validate = v
	})
	return validate
}

// Validate checks the two-locale invariant on every bilingual field and the
// format constraints on scalar fields.
func (d *CVDocument) Validate() error {
	if d == nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document is empty"}}}
	}

	err := documentValidator().Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate document: %w", err)
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), "CVDocument."),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "bilingual":
		return "both locales (es, en) are required"
	case "email":
		return "not a valid email address"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// DecodeDocument parses and validates a full document.
// Documents missing a locale in any populated bilingual field are rejected.
func DecodeDocument(data []byte) (*CVDocument, error) {
	var doc CVDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse CV document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeSection parses a whole-section value. Bilingual sections must carry both locales.
func DecodeSection(section Section, data []byte) (any, error) {
	switch section {
	case SectionPersonalInfo:
		var v PersonalInfo
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", section, err)
		}
		return v, nil
	case SectionProfile:
		var v Localized[string]
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", section, err)
		}
		return v, nil
	case SectionExperience:
		var v Localized[[]ExperienceEntry]
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", section, err)
		}
		return v, nil
	case SectionEducation:
		var v Localized[[]EducationEntry]
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", section, err)
		}
		return v, nil
	case SectionSkills:
		var v SkillSet
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", section, err)
		}
		return v, nil
	case SectionCertifications:
		var v []string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", section, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// DecodeLocaleSlice parses the content of a single locale for a bilingual section.
func DecodeLocaleSlice(section Section, data []byte) (any, error) {
	switch section {
	case SectionProfile:
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s slice: %w", section, err)
		}
		return v, nil
	case SectionExperience:
		var v []ExperienceEntry
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s slice: %w", section, err)
		}
		return v, nil
	case SectionEducation:
		var v []EducationEntry
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s slice: %w", section, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("section %q is not bilingual", section)
}
