package shop

import (
	"fmt"
	"regexp"
)

// DefaultPhonePattern accepts Ethiopian mobile numbers in international
// (+2519xxxxxxxx) or local (09xxxxxxxx) form.
const DefaultPhonePattern = `^(\+2519|09)\d{8}$`

// PhoneValidator checks phone numbers against a configured pattern.
// A disabled validator accepts anything.
type PhoneValidator struct {
	enabled bool
	re      *regexp.Regexp
}

// NewPhoneValidator compiles the pattern. An empty pattern falls back to
// DefaultPhonePattern.
func NewPhoneValidator(enabled bool, pattern string) (*PhoneValidator, error) {
	if pattern == "" {
		pattern = DefaultPhonePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("phone pattern %q: %w", pattern, err)
	}
	return &PhoneValidator{enabled: enabled, re: re}, nil
}

// Enabled reports whether validation is active.
func (v *PhoneValidator) Enabled() bool {
	return v != nil && v.enabled
}

// Validate returns a *ValidationError when validation is enabled and the
// input does not match the pattern.
func (v *PhoneValidator) Validate(input string) error {
	if !v.Enabled() {
		return nil
	}
	if !v.re.MatchString(input) {
		return &ValidationError{Field: "phone", Input: input}
	}
	return nil
}
