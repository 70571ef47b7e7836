package validation

import (
	"regexp"
	"unicode/utf8"
)

// Validation rule patterns
var (
	// EmailPattern is deliberately permissive: non-space@non-space.non-space
	EmailPattern = `^\S+@\S+\.\S+$`

	// Limits mirror the Postgres column widths, counted in characters
	NameMaxLength   = 200
	EmailMaxLength  = 320
	PhoneMaxLength  = 64
	ChatIDMaxLength = 255
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation checks a single string value
type StringValidation struct {
	Value   string
	MaxLen  int
	Pattern *regexp.Regexp
}

// NewStringValidation creates a new string validation. Empty values never pass.
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return false
	}

	if v.MaxLen > 0 && utf8.RuneCountInString(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// IsEmail reports whether value has the accepted email shape
func IsEmail(value string) bool {
	return NewStringValidation(value).WithPattern(CompiledPatterns.Email).Validate()
}
