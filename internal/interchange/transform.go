package interchange

import (
	"strings"

	"github.com/jonathan/cv-editor/internal/types"
)

// workSeparator splits experience periods ("Enero 2022 — Actualidad").
const workSeparator = "—"

// Education details travel as the first course; imported course lists are
// joined with courseSeparator.
const courseSeparator = ", "

// ToInterchange projects locale l of doc into the interchange format.
func ToInterchange(doc *types.CVDocument, l types.Locale) *Resume {
	p := doc.PersonalInfo
	r := &Resume{
		Basics: Basics{
			Name:    p.Name,
			Label:   p.Title.Get(l),
			Email:   p.Email,
			Phone:   p.Phone,
			URL:     withScheme(p.GitHub),
			Summary: doc.Profile.Get(l),
			Location: Location{
				City:   p.Location,
				Region: p.Location,
			},
			Profiles: []Profile{},
		},
		Work:         []Work{},
		Education:    []Education{},
		Skills:       []Skill{},
		Certificates: []Certificate{},
	}

	for _, acct := range []struct{ network, handle string }{
		{NetworkLinkedIn, p.LinkedIn},
		{NetworkGitHub, p.GitHub},
	} {
		if acct.handle == "" {
			continue
		}
		r.Basics.Profiles = append(r.Basics.Profiles, Profile{
			Network:  acct.network,
			Username: lastSegment(acct.handle),
			URL:      withScheme(acct.handle),
		})
	}

	for _, e := range doc.Experience.Get(l) {
		start, end := splitWorkPeriod(e.Period)
		highlights := types.CloneStrings(e.Responsibilities)
		if highlights == nil {
			highlights = []string{}
		}
		r.Work = append(r.Work, Work{
			Name:       e.Company,
			Position:   e.Title,
			URL:        e.CompanyURL,
			StartDate:  start,
			EndDate:    end,
			Highlights: highlights,
		})
	}

	for _, e := range doc.Education.Get(l) {
		start, end := splitEducationPeriod(e.Period)
		courses := []string{}
		if e.Details != "" {
			courses = append(courses, e.Details)
		}
		r.Education = append(r.Education, Education{
			Institution: e.Institution,
			Area:        e.Degree,
			StartDate:   start,
			EndDate:     end,
			Courses:     courses,
		})
	}

	for _, name := range doc.Skills.Categories() {
		keywords, _ := doc.Skills.Get(name)
		if keywords == nil {
			keywords = []string{}
		}
		r.Skills = append(r.Skills, Skill{Name: name, Level: DefaultSkillLevel, Keywords: keywords})
	}

	for _, c := range doc.Certifications {
		r.Certificates = append(r.Certificates, Certificate{Name: c})
	}
	return r
}

// FromInterchange builds a document holding r's content in both locales.
// Profiles are matched by network name; unmatched networks leave the field empty.
func FromInterchange(r *Resume) *types.CVDocument {
	b := r.Basics
	doc := &types.CVDocument{
		PersonalInfo: types.PersonalInfo{
			Name:     b.Name,
			Title:    types.NewLocalized(b.Label, b.Label),
			Email:    b.Email,
			Phone:    b.Phone,
			Location: b.Location.City,
			LinkedIn: stripScheme(findProfile(b.Profiles, NetworkLinkedIn)),
			GitHub:   stripScheme(findProfile(b.Profiles, NetworkGitHub)),
		},
		Profile: types.NewLocalized(b.Summary, b.Summary),
		Skills:  types.NewSkillSet(),
	}

	experience := make([]types.ExperienceEntry, 0, len(r.Work))
	for _, w := range r.Work {
		responsibilities := types.CloneStrings(w.Highlights)
		if responsibilities == nil {
			responsibilities = []string{}
		}
		experience = append(experience, types.ExperienceEntry{
			Title:            w.Position,
			Company:          w.Name,
			CompanyURL:       w.URL,
			Period:           joinWorkPeriod(w.StartDate, w.EndDate),
			Responsibilities: responsibilities,
		})
	}
	doc.Experience = types.Same(experience, types.CloneExperience)

	education := make([]types.EducationEntry, 0, len(r.Education))
	for _, e := range r.Education {
		education = append(education, types.EducationEntry{
			Degree:      e.Area,
			Institution: e.Institution,
			Period:      joinEducationPeriod(e.StartDate, e.EndDate),
			Details:     strings.Join(e.Courses, courseSeparator),
		})
	}
	doc.Education = types.Same(education, types.CloneEducation)

	for _, s := range r.Skills {
		doc.Skills.Set(s.Name, s.Keywords)
	}

	for _, c := range r.Certificates {
		doc.Certifications = append(doc.Certifications, c.Name)
	}
	return doc
}

// FileName is the suggested export file name: spaces in the name become underscores.
func FileName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "CV.json"
	}
	return strings.Join(parts, "_") + "_CV.json"
}

func splitWorkPeriod(period string) (start, end string) {
	before, after, found := strings.Cut(period, workSeparator)
	start = strings.TrimSpace(before)
	end = strings.TrimSpace(after)
	if !found || end == "" || types.IsPresentMarker(end) {
		end = PresentEndDate
	}
	return start, end
}

func joinWorkPeriod(start, end string) string {
	if end == "" {
		end = PresentEndDate
	}
	return start + " " + workSeparator + " " + end
}

// splitEducationPeriod prefers a spaced " - " so hyphenated dates survive.
func splitEducationPeriod(period string) (start, end string) {
	sep := " - "
	if !strings.Contains(period, sep) {
		sep = "-"
	}
	before, after, _ := strings.Cut(period, sep)
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

func joinEducationPeriod(start, end string) string {
	if end == "" {
		return start
	}
	return start + " - " + end
}

func findProfile(profiles []Profile, network string) string {
	for _, p := range profiles {
		if p.Network == network {
			return p.URL
		}
	}
	return ""
}

func withScheme(handle string) string {
	if handle == "" {
		return ""
	}
	if strings.HasPrefix(handle, "https://") || strings.HasPrefix(handle, "http://") {
		return handle
	}
	return "https://" + handle
}

func stripScheme(url string) string {
	url = strings.TrimPrefix(url, "https://")
	return strings.TrimPrefix(url, "http://")
}

func lastSegment(handle string) string {
	handle = strings.TrimRight(handle, "/")
	if i := strings.LastIndex(handle, "/"); i >= 0 {
		return handle[i+1:]
	}
	return handle
}
