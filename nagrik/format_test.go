package nagrik

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Nagrik_1001", Format(1001, English))
	assert.Equal(t, "नागरिक_1001", Format(1001, Hindi))
	assert.Equal(t, "Nagrik_9999", Format(9999, English))
}

func TestFormatDefaultsToHindi(t *testing.T) {
	assert.Equal(t, "नागरिक_1005", Format(1005, ""))
	assert.Equal(t, "नागरिक_1005", Format(1005, Locale("fr")))
}

func TestFormatMissingNumber(t *testing.T) {
	assert.Equal(t, "User", Format(0, English))
	assert.Equal(t, "उपयोगकर्ता", Format(0, Hindi))
	assert.Equal(t, "उपयोगकर्ता", Format(-3, ""))
}

func TestFallbackLabel(t *testing.T) {
	assert.Equal(t, "User", FallbackLabel(English))
	assert.Equal(t, "उपयोगकर्ता", FallbackLabel(Hindi))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, English, ParseLocale("en"))
	assert.Equal(t, English, ParseLocale("english"))
	assert.Equal(t, Hindi, ParseLocale("hi"))
	assert.Equal(t, Hindi, ParseLocale(""))
	assert.Equal(t, Hindi, ParseLocale("anything"))
}
