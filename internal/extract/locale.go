package extract

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// supportedLocales are the label languages the extract view ships with.
// The matcher maps any requested tag onto the closest supported one, so
// "pt" and "pt-PT" both land on Brazilian Portuguese labels.
var supportedLocales = []language.Tag{
	language.AmericanEnglish, // en-US: first entry is the fallback
	language.BrazilianPortuguese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// portugueseMonths holds lowercase month names as Brazilian Portuguese
// renders them in dates.
var portugueseMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// ParseLocale resolves a BCP 47 tag string ("pt-BR", "en") onto one of
// the supported label locales. Unknown or empty input falls back to
// American English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return supportedLocales[0]
	}
	_, index, _ := localeMatcher.Match(tag)
	return supportedLocales[index]
}

// MonthLabel renders a month and year the way the given locale writes
// them, e.g. "January 2024" or "janeiro de 2024".
func MonthLabel(locale language.Tag, year int, month time.Month) string {
	base, _ := locale.Base()
	if base.String() == "pt" {
		return fmt.Sprintf("%s de %d", portugueseMonths[month-1], year)
	}
	return fmt.Sprintf("%s %d", month.String(), year)
}
