package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "hello", SanitizeString("he\x00llo"))
	assert.Equal(t, "a\nb\tc", SanitizeString("a\nb\tc"))
	assert.Equal(t, "ab", SanitizeString("a\x01\x02b"))
}

func TestValidateUnitName(t *testing.T) {
	valid := []string{
		"billing-core",
		"pkg/parser.Tokenize",
		"a",
		"svc_checkout.v2",
	}
	for _, name := range valid {
		assert.NoError(t, ValidateUnitName(name), name)
	}

	invalid := []string{
		"",
		"   ",
		"-starts-with-hyphen",
		".starts-with-dot",
		"has spaces",
		"has;semicolon",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateUnitName(name), name)
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("operator"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3r$ecret"))

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1$"},
		{"no uppercase", "sup3r$ecret"},
		{"no lowercase", "SUP3R$ECRET"},
		{"no number", "Super$ecret"},
		{"no special", "Sup3rSecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidatePassword(tt.password))
		})
	}
}
