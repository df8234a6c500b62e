package shop

import (
	"errors"
	"testing"
)

func TestPhoneValidatorDefaults(t *testing.T) {
	v, err := NewPhoneValidator(true, "")
	if err != nil {
		t.Fatalf("NewPhoneValidator: %v", err)
	}

	cases := []struct {
		input string
		ok    bool
	}{
		{"0912345678", true},
		{"+251912345678", true},
		{"12345", false},
		{"091234567", false},
		{"+251712345678", false},
		{"0912345678x", false},
		{"", false},
	}
	for _, tc := range cases {
		err := v.Validate(tc.input)
		if tc.ok && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tc.input, err)
		}
		if !tc.ok {
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Validate(%q) = %v, want *ValidationError", tc.input, err)
			}
		}
	}
}

func TestPhoneValidatorDisabled(t *testing.T) {
	v, err := NewPhoneValidator(false, "")
	if err != nil {
		t.Fatalf("NewPhoneValidator: %v", err)
	}
	if err := v.Validate("anything at all"); err != nil {
		t.Errorf("disabled validator rejected input: %v", err)
	}
	if v.Enabled() {
		t.Error("Enabled() = true")
	}

	var nilV *PhoneValidator
	if err := nilV.Validate("whatever"); err != nil {
		t.Errorf("nil validator rejected input: %v", err)
	}
}

func TestPhoneValidatorCustomPattern(t *testing.T) {
	v, err := NewPhoneValidator(true, `^\+1\d{10}$`)
	if err != nil {
		t.Fatalf("NewPhoneValidator: %v", err)
	}
	if err := v.Validate("+12025550123"); err != nil {
		t.Errorf("custom pattern rejected valid input: %v", err)
	}
	if err := v.Validate("0912345678"); err == nil {
		t.Error("custom pattern accepted foreign format")
	}

	if _, err := NewPhoneValidator(true, `([`); err == nil {
		t.Error("expected compile error for bad pattern")
	}
}
