package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"en", English},
		{"de", German},
		{"DE", German},
		{"de-AT", German},
		{"en-GB", English},
		{"", English},
		{"fr", English},
		{"not a tag!", English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, German, Negotiate("de-DE,de;q=0.9,en;q=0.8"))
	assert.Equal(t, English, Negotiate("en-US,en;q=0.9"))
	assert.Equal(t, German, Negotiate("fr-FR,fr;q=0.9,de;q=0.5"))
	assert.Equal(t, English, Negotiate("ja"))
	assert.Equal(t, English, Negotiate(""))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("de"))
	assert.False(t, IsSupported("de-AT"))
	assert.False(t, IsSupported(""))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Work Experience", Label(English, "section.experience"))
	assert.Equal(t, "Berufserfahrung", Label(German, "section.experience"))
	assert.Equal(t, "Muttersprache", Label(German, "languages.proficiency.native"))
	assert.Equal(t, "no.such.key", Label(German, "no.such.key"))
}

func TestEveryLabelTranslated(t *testing.T) {
	for key, tr := range translations {
		assert.NotEmpty(t, tr[0], key)
		assert.NotEmpty(t, tr[1], key)
		assert.Equal(t, tr[1], Label(German, key))
	}
}

func TestFormatYearMonth(t *testing.T) {
	tests := []struct {
		locale Locale
		in     string
		want   string
	}{
		{English, "2021-03", "Mar 2021"},
		{German, "2021-03", "März 2021"},
		{German, "2019-12", "Dez. 2019"},
		{English, "2020", "2020"},
		{English, "", ""},
		{English, "2021-13", "2021-13"},
		{English, "21-03", "21-03"},
		{English, "March 2021", "March 2021"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatYearMonth(tt.locale, tt.in), tt.in)
	}
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "Jan 2020 – Jun 2022", DateRange(English, "2020-01", "2022-06", false))
	assert.Equal(t, "Jan. 2020 – Heute", DateRange(German, "2020-01", "2022-06", true))
	assert.Equal(t, "Jan 2020", DateRange(English, "2020-01", "", false))
	assert.Equal(t, "", DateRange(English, "", "", false))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "German", LanguageName(German))
	assert.Equal(t, "English", LanguageName(English))
}
