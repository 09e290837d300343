// Package validate checks decoded form bodies against per-form schemas and
// reports the first offending field.
package validate

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/gym-wars/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s().]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Check validates a present, non-empty value and returns a message when it
// is rejected.
type Check func(v any) (message string, ok bool)

// Field describes one key of a form body.
type Field struct {
	Key      string
	Required bool
	// Strict runs Checks on blank strings too, so a present but empty value
	// is rejected instead of skipped.
	Strict bool
	Checks []Check
}

// Schema is the canonical rule set of one form.
type Schema struct {
	Form   string
	Fields []Field
}

// Validate reports the first missing required field, in declaration order,
// and then the first present field that fails a check.
func (s Schema) Validate(raw map[string]any) error {
	for _, f := range s.Fields {
		if f.Required && !Present(raw, f.Key) {
			return domain.MissingField(f.Key)
		}
	}
	for _, f := range s.Fields {
		if !Present(raw, f.Key) && !(f.Strict && raw[f.Key] != nil) {
			continue
		}
		for _, check := range f.Checks {
			if msg, ok := check(raw[f.Key]); !ok {
				return domain.InvalidField(f.Key, msg)
			}
		}
	}
	return nil
}

// Present reports whether key holds something other than null or a blank string.
func Present(raw map[string]any, key string) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func text(v any) (string, bool) {
	s, ok := v.(string)
	return strings.TrimSpace(s), ok
}

// Text rejects non-string values.
func Text(key string) Check {
	return func(v any) (string, bool) {
		_, ok := text(v)
		return key + " must be a string", ok
	}
}

// Email checks the loose address shape used by every form.
func Email() Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		return "Invalid email", ok && emailPattern.MatchString(s)
	}
}

// IsEmail reports whether s has the shape of an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// StateCode accepts any two-letter code, case-insensitively.
func StateCode() Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		return "Use 2-letter state code", ok && isLetters(s, 2)
	}
}

func isLetters(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i] | 0x20; c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// Phone checks digits and common separators.
func Phone() Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		return "Enter a valid phone", ok && phonePattern.MatchString(s)
	}
}

// MustAgree requires the boolean true.
func MustAgree(message string) Check {
	return func(v any) (string, bool) {
		b, ok := v.(bool)
		return message, ok && b
	}
}

// OneOf restricts a string to a fixed set of values.
func OneOf(message string, values ...string) Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		return message, ok && slices.Contains(values, s)
	}
}

// DateISO requires YYYY-MM-DD.
func DateISO() Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		return "Use YYYY-MM-DD", ok && datePattern.MatchString(s)
	}
}

// URL requires an absolute http or https URL.
func URL() Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		if !ok {
			return "Enter a valid URL", false
		}
		u, err := url.Parse(s)
		valid := err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		return "Enter a valid URL", valid
	}
}

// MinLength requires at least n characters after trimming.
func MinLength(n int, message string) Check {
	return func(v any) (string, bool) {
		s, ok := text(v)
		return message, ok && len([]rune(s)) >= n
	}
}

// Bool rejects non-boolean values.
func Bool(key string) Check {
	return func(v any) (string, bool) {
		_, ok := v.(bool)
		return key + " must be true or false", ok
	}
}
