// Package fetch - platform.go recognizes job boards and the page furniture to strip from them.
package fetch

import (
	"net/url"
	"strings"
)

// Platform names a job board or applicant tracking system.
type Platform string

// Known platforms.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformUnknown    Platform = "unknown"
)

type platformSpec struct {
	platform Platform
	// domains match the host itself or any subdomain of it.
	domains []string
	noise   []string
}

var platforms = []platformSpec{
	{
		platform: PlatformGreenhouse,
		domains:  []string{"greenhouse.io"},
		noise: []string{
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		},
	},
	{
		platform: PlatformLever,
		domains:  []string{"lever.co"},
		noise: []string{
			".apply-section",
			".lever-application-form",
			".posting-apply",
		},
	},
	{
		platform: PlatformWorkday,
		domains:  []string{"myworkdayjobs.com", "workday.com"},
		noise: []string{
			"[data-automation-id='applyButton']",
			"[data-automation-id='similarJobs']",
			".WDAF",
		},
	},
	{
		platform: PlatformAshby,
		domains:  []string{"ashbyhq.com"},
		noise: []string{
			".ashby-application-form-container",
			".ashby-job-board-back-to-all-jobs-button",
		},
	},
	{
		platform: PlatformLinkedIn,
		domains:  []string{"linkedin.com"},
		noise: []string{
			".similar-jobs",
			".people-also-viewed",
			".contextual-sign-in-modal",
			".join-form",
			".base-search-card",
		},
	},
	{
		platform: PlatformIndeed,
		domains:  []string{"indeed.com"},
		noise: []string{
			"#jobsearch-ViewJobButtons-container",
			"#mosaic-belowFullJobDescription",
			".jobsearch-JobMetadataFooter",
		},
	},
}

// commonNoise is dropped on every page: apply forms, EEO boilerplate, share widgets and consent banners.
var commonNoise = []string{
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",
	".eeo-statement",
	".eeo-section",
	".voluntary-disclosure",
	".self-identification",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
	"#onetrust-consent-sdk",
}

// DetectPlatform identifies the job board from the URL host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")

	for _, p := range platforms {
		for _, domain := range p.domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformNoiseSelectors returns the selectors CleanHTML should drop for a platform,
// the common set first.
func PlatformNoiseSelectors(platform Platform) []string {
	selectors := append([]string(nil), commonNoise...)
	for _, p := range platforms {
		if p.platform == platform {
			return append(selectors, p.noise...)
		}
	}
	return selectors
}
