package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose markup we know.
type Platform string

// Known platforms.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformStepStone  Platform = "stepstone"
	PlatformUnknown    Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"stepstone.de", PlatformStepStone},
}

// DetectPlatform identifies the job board from the URL host.
func DetectPlatform(urlStr string) Platform {
	u, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range platformHosts {
		if host == p.suffix || strings.HasSuffix(host, "."+p.suffix) {
			return p.platform
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors tried, in order, to locate the
// posting body on platform.
func ContentSelectors(platform Platform) []string {
	generic := []string{
		".job-description",
		"#job-description",
		".posting-content",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	}
	switch platform {
	case PlatformGreenhouse:
		return append([]string{".job__description", "#content"}, generic...)
	case PlatformLever:
		return append([]string{".posting-page", ".posting-description"}, generic...)
	case PlatformWorkday:
		return append([]string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"}, generic...)
	case PlatformStepStone:
		return append([]string{"[data-at='job-ad-content']", "[data-genesis-element='CARD']"}, generic...)
	default:
		return generic
	}
}

// NoiseSelectors returns elements removed before extraction: application
// forms, equal opportunity notices and share widgets.
func NoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".application-form",
		"#application-form",
		".eeo-statement",
		".voluntary-disclosure",
		".social-share",
		".share-buttons",
	}
	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".posting-apply", ".lever-application-form")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return common
	}
}
