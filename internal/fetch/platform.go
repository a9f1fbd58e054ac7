package fetch

import (
	"net/url"
	"strings"
)

// Platform names a job board whose pages get dedicated selectors.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformInfoJobs   Platform = "infojobs"
	PlatformUnknown    Platform = "unknown"
)

// boardRules describes how to recognize a job board and where its
// description lives. A host matches when it equals or ends with one of hosts.
type boardRules struct {
	hosts      []string
	pathPrefix string
	content    []string
	noise      []string
}

var boards = map[Platform]boardRules{
	PlatformGreenhouse: {
		hosts: []string{"greenhouse.io"},
		content: []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		},
		noise: []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobDescription']", ".gwt-HTML", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='descriptionText']", ".ashby-job-posting-right-pane"},
	},
	PlatformLinkedIn: {
		hosts:      []string{"linkedin.com"},
		pathPrefix: "/jobs",
		content:    []string{".show-more-less-html__markup", ".description__text", ".jobs-description"},
		noise:      []string{".top-card-layout__cta-container", ".similar-jobs", ".sign-up-modal"},
	},
	PlatformInfoJobs: {
		hosts:   []string{"infojobs.net"},
		content: []string{"#prefijoDescripcion1", ".ij-OfferDetailDescription", "[class*='OfferDescription']"},
		noise:   []string{".ij-OfferDetailHeader-actions", ".ij-RelatedOffers", ".ij-Footer"},
	},
}

// sharedNoise is removed from every page: application forms, EEO and legal
// notices, share buttons and cookie banners.
var sharedNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// DetectPlatform identifies the job board serving urlStr.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for platform, rules := range boards {
		if rules.pathPrefix != "" && !strings.HasPrefix(parsed.Path, rules.pathPrefix) {
			continue
		}
		for _, domain := range rules.hosts {
			if hostMatches(host, domain) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the description selectors for platform,
// most specific first. Unknown platforms get the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	rules, ok := boards[platform]
	if !ok {
		return JobPostingSelectors()
	}
	return append([]string(nil), rules.content...)
}

// PlatformNoiseSelectors returns the selectors stripped before extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), sharedNoise...)
	return append(out, boards[platform].noise...)
}
