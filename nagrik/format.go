// Package nagrik assigns and renders the anonymous citizen numbers that stand
// in for real names everywhere a user is shown publicly.
package nagrik

import "strconv"

// Locale selects the display language for anonymized labels
type Locale string

const (
	English Locale = "en"
	Hindi   Locale = "hi"
)

const (
	prefixEnglish = "Nagrik_"
	prefixHindi   = "नागरिक_"

	fallbackEnglish = "User"
	fallbackHindi   = "उपयोगकर्ता"
)

// Format renders a nagrik number as its public label, e.g. Format(1001, English)
// is "Nagrik_1001". Hindi is the default for any unrecognized locale. The
// label is derived from the number alone; no other profile field is involved.
func Format(n int64, locale Locale) string {
	if n <= 0 {
		return FallbackLabel(locale)
	}
	if locale == English {
		return prefixEnglish + strconv.FormatInt(n, 10)
	}
	return prefixHindi + strconv.FormatInt(n, 10)
}

// FallbackLabel is the generic label used when a profile has no nagrik number
// yet (pre-backfill rows). Callers must use this instead of failing.
func FallbackLabel(locale Locale) string {
	if locale == English {
		return fallbackEnglish
	}
	return fallbackHindi
}

// ParseLocale maps a request language tag to a Locale, defaulting to Hindi
func ParseLocale(lang string) Locale {
	if lang == "en" || lang == "english" {
		return English
	}
	return Hindi
}
