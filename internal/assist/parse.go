package assist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/cv-editor/internal/llm"
	"github.com/jonathan/cv-editor/internal/types"
)

// Result is a finished assist. Advice results only carry text; the others
// carry the section values to write into the document.
type Result struct {
	Kind     Kind                  `json:"kind"`
	Raw      string                `json:"raw"`
	Advice   string                `json:"advice,omitempty"`
	Sections map[types.Section]any `json:"sections,omitempty"`
}

// requiredKeys are the gjson paths a response must carry before anything is decoded.
var requiredKeys = map[Kind][]string{
	KindImproveExperience: {"en", "es"},
	KindImproveProfile:    {"en", "es"},
	KindImproveEducation:  {"en", "es"},
	KindTailor:            {"experience.en", "experience.es"},
	KindExtract:           {"experience.en", "experience.es"},
}

// Parse coerces a complete model response into the task's result shape.
// Any failure yields a *ParseError that keeps the raw text.
func Parse(kind Kind, raw string) (*Result, error) {
	res := &Result{Kind: kind, Raw: raw}

	if kind == KindAdvice {
		res.Advice = strings.TrimSpace(raw)
		if res.Advice == "" {
			return nil, &ParseError{Kind: kind, Raw: raw, Err: errors.New("response is empty")}
		}
		return res, nil
	}

	span, err := jsonSpan(raw)
	if err != nil {
		return nil, &ParseError{Kind: kind, Raw: raw, Err: err}
	}
	obj := gjson.Parse(span)
	if !obj.IsObject() {
		return nil, &ParseError{Kind: kind, Raw: raw, Err: errors.New("response is not a JSON object")}
	}
	if missing := missingKeys(obj, requiredKeys[kind]); len(missing) > 0 {
		return nil, &ParseError{Kind: kind, Raw: raw, Err: &MissingKeysError{Keys: missing}}
	}

	sections, err := decodeSections(kind, obj)
	if err != nil {
		return nil, &ParseError{Kind: kind, Raw: raw, Err: err}
	}
	res.Sections = sections
	return res, nil
}

// jsonSpan finds the first balanced object in raw, repairing near-JSON when
// the span does not parse as is.
func jsonSpan(raw string) (string, error) {
	span := llm.ExtractJSONObject(raw)
	if span == "" {
		return "", llm.ErrNoJSON
	}
	if gjson.Valid(span) {
		return span, nil
	}
	repaired := llm.RepairJSON(span)
	if !gjson.Valid(repaired) {
		return "", errors.New("response JSON is malformed even after repair")
	}
	return repaired, nil
}

func missingKeys(obj gjson.Result, keys []string) []string {
	var missing []string
	for _, key := range keys {
		if !obj.Get(key).Exists() {
			missing = append(missing, key)
		}
	}
	return missing
}

func decodeSections(kind Kind, obj gjson.Result) (map[types.Section]any, error) {
	switch kind {
	case KindImproveExperience:
		v, err := decodeLocalized[[]types.ExperienceEntry](types.SectionExperience, obj)
		return single(types.SectionExperience, v, err)
	case KindImproveProfile:
		v, err := decodeLocalized[string](types.SectionProfile, obj)
		return single(types.SectionProfile, v, err)
	case KindImproveEducation:
		v, err := decodeLocalized[[]types.EducationEntry](types.SectionEducation, obj)
		return single(types.SectionEducation, v, err)
	case KindImproveSkills:
		v, err := decodeSkills(obj)
		return single(types.SectionSkills, v, err)
	case KindTailor:
		return decodeDocumentSections(obj, false)
	case KindExtract:
		return decodeDocumentSections(obj, true)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

func single(section types.Section, value any, err error) (map[types.Section]any, error) {
	if err != nil {
		return nil, err
	}
	return map[types.Section]any{section: value}, nil
}

// decodeDocumentSections maps a whole-document response. A tailored CV only
// replaces the sections it carries and never touches certifications; an
// extracted CV replaces every section, leaving absent ones empty.
func decodeDocumentSections(obj gjson.Result, complete bool) (map[types.Section]any, error) {
	out := map[types.Section]any{}

	experience, err := decodeLocalized[[]types.ExperienceEntry](types.SectionExperience, obj.Get("experience"))
	if err != nil {
		return nil, err
	}
	out[types.SectionExperience] = experience

	if v := obj.Get("personalInfo"); v.IsObject() {
		info, err := types.DecodeSection(types.SectionPersonalInfo, []byte(v.Raw))
		if err != nil {
			return nil, err
		}
		p := info.(types.PersonalInfo)
		p.Title = onlySupported(p.Title)
		out[types.SectionPersonalInfo] = p
	} else if complete {
		out[types.SectionPersonalInfo] = types.PersonalInfo{}
	}

	if v := obj.Get("profile"); v.Exists() {
		profile, err := decodeLocalized[string](types.SectionProfile, v)
		if err != nil {
			return nil, err
		}
		out[types.SectionProfile] = profile
	} else if complete {
		out[types.SectionProfile] = types.Localized[string]{}
	}

	if v := obj.Get("education"); v.Exists() {
		education, err := decodeLocalized[[]types.EducationEntry](types.SectionEducation, v)
		if err != nil {
			return nil, err
		}
		out[types.SectionEducation] = education
	} else if complete {
		out[types.SectionEducation] = types.Localized[[]types.EducationEntry]{}
	}

	if v := obj.Get("skills"); v.Exists() {
		skills, err := decodeSkills(v)
		if err != nil {
			return nil, err
		}
		out[types.SectionSkills] = skills
	} else if complete {
		out[types.SectionSkills] = types.NewSkillSet()
	}

	if complete {
		out[types.SectionCertifications] = certificationNames(obj.Get("certifications"))
	}
	return out, nil
}

// decodeLocalized reads the es and en members of obj, ignoring any other key.
func decodeLocalized[T any](section types.Section, obj gjson.Result) (types.Localized[T], error) {
	out := make(types.Localized[T], len(types.SupportedLocales))
	for _, l := range types.SupportedLocales {
		member := obj.Get(string(l))
		if !member.Exists() {
			return nil, &MissingKeysError{Keys: []string{string(section) + "." + string(l)}}
		}
		v, err := types.DecodeLocaleSlice(section, []byte(member.Raw))
		if err != nil {
			return nil, err
		}
		typed, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("unexpected %s value of type %T", section, v)
		}
		out[l] = typed
	}
	return out, nil
}

func decodeSkills(obj gjson.Result) (types.SkillSet, error) {
	if !obj.IsObject() {
		return types.SkillSet{}, errors.New("skills must be an object of category lists")
	}
	v, err := types.DecodeSection(types.SectionSkills, []byte(obj.Raw))
	if err != nil {
		return types.SkillSet{}, err
	}
	skills := v.(types.SkillSet)
	if skills.Len() == 0 {
		return types.SkillSet{}, errors.New("skills response has no categories")
	}
	return skills, nil
}

// certificationNames accepts plain names or {name, issuer, date} objects.
func certificationNames(list gjson.Result) []string {
	var names []string
	list.ForEach(func(_, item gjson.Result) bool {
		name := item.String()
		if item.IsObject() {
			name = item.Get("name").String()
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
		return true
	})
	return names
}

func onlySupported[T any](m types.Localized[T]) types.Localized[T] {
	if m == nil {
		return nil
	}
	out := make(types.Localized[T], len(types.SupportedLocales))
	for _, l := range types.SupportedLocales {
		if v, ok := m[l]; ok {
			out[l] = v
		}
	}
	return out
}
