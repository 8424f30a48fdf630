// Package locale selects the display language of rendered resumes and AI
// output, and holds the translated labels used by the projections.
package locale

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale is a supported display language.
type Locale string

// Supported locales.
const (
	English Locale = "en"
	German  Locale = "de"

	Default = English
)

// Supported lists every locale, default first.
var Supported = []Locale{English, German}

var (
	tags    = []language.Tag{language.English, language.German}
	matcher = language.NewMatcher(tags)
	labels  = buildCatalog()
)

// Tag returns the BCP 47 tag of l.
func (l Locale) Tag() language.Tag {
	if l == German {
		return language.German
	}
	return language.English
}

func fromTag(t language.Tag) Locale {
	base, _ := t.Base()
	if base.String() == "de" {
		return German
	}
	return English
}

// Parse maps a language code such as "de", "de-AT" or "EN" to a supported
// locale. Unknown or empty input yields Default.
func Parse(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default
	}
	t, err := language.Parse(s)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return Default
	}
	return fromTag(tags[idx])
}

// IsSupported reports whether s names a supported locale exactly.
func IsSupported(s string) bool {
	for _, l := range Supported {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Negotiate picks the best locale for an Accept-Language header.
func Negotiate(acceptLanguage string) Locale {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default
	}
	return fromTag(tags[idx])
}

// LanguageName is the English name of the language, as used in prompts.
func LanguageName(l Locale) string {
	if l == German {
		return "German"
	}
	return "English"
}

// Label returns the translation of key, or key itself when unknown.
func Label(l Locale, key string) string {
	return message.NewPrinter(l.Tag(), message.Catalog(labels)).Sprintf(key)
}

// Present is the label used for the end of an ongoing period.
func Present(l Locale) string {
	return Label(l, "date.present")
}

var months = map[Locale][12]string{
	English: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	German:  {"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sep.", "Okt.", "Nov.", "Dez."},
}

// FormatYearMonth renders "2021-03" as "Mar 2021" (en) or "März 2021" (de).
// A bare year is returned as is; anything unparsable is returned unchanged.
func FormatYearMonth(l Locale, ym string) string {
	ym = strings.TrimSpace(ym)
	year, month, ok := strings.Cut(ym, "-")
	if !ok {
		return ym
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 || len(year) != 4 {
		return ym
	}
	if _, err := strconv.Atoi(year); err != nil {
		return ym
	}
	names, found := months[l]
	if !found {
		names = months[Default]
	}
	return names[m-1] + " " + year
}

// DateRange renders a start/end pair, using Present for ongoing periods.
func DateRange(l Locale, start, end string, current bool) string {
	from := FormatYearMonth(l, start)
	to := FormatYearMonth(l, end)
	if current {
		to = Present(l)
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " – " + to
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		_ = b.SetString(language.English, key, tr[0])
		_ = b.SetString(language.German, key, tr[1])
	}
	return b
}
