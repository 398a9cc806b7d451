// Package validate implements declarative per-field request validation.
// Rule sets are plain data evaluated by a single interpreter, so schemas
// stay independent of routing and are testable on their own.
package validate

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/oklog/ulid/v2"
)

// Source names the request location a rule reads from.
type Source string

const (
	// SourceBody reads from the decoded JSON body.
	SourceBody Source = "body"
	// SourceParams reads from route parameters.
	SourceParams Source = "params"
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CheckFunc reports whether a present value satisfies the rule.
// Body values arrive as decoded JSON (string, float64, bool, []any, ...);
// route parameters arrive as string. No type coercion is performed: a
// wrong JSON type simply fails the check.
type CheckFunc func(value any) bool

// FieldRule describes one field's constraints.
type FieldRule struct {
	Field    string
	In       Source
	Required bool
	Check    CheckFunc
	Message  string
}

// Request carries the two validated locations. Body may be nil for
// param-only schemas.
type Request struct {
	Body   map[string]any
	Params map[string]string
}

// Fields evaluates all rules in one pass and returns every violation.
// There is no short-circuit on the first failure: callers always receive
// the complete list. Absent optional fields are skipped; unknown extra
// fields are ignored.
func Fields(req Request, rules []FieldRule) []Violation {
	var violations []Violation

	for _, rule := range rules {
		value, present := lookup(req, rule)

		if !present {
			if rule.Required {
				violations = append(violations, Violation{Field: rule.Field, Message: rule.Message})
			}
			continue
		}

		if rule.Check != nil && !rule.Check(value) {
			violations = append(violations, Violation{Field: rule.Field, Message: rule.Message})
		}
	}

	return violations
}

// Messages flattens violations into their messages.
func Messages(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Message
	}
	return out
}

func lookup(req Request, rule FieldRule) (any, bool) {
	switch rule.In {
	case SourceParams:
		v, ok := req.Params[rule.Field]
		if !ok || v == "" {
			return nil, false
		}
		return v, true
	default:
		v, ok := req.Body[rule.Field]
		// JSON null is treated as absent.
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

// NonEmptyString accepts a string with non-whitespace content.
func NonEmptyString(value any) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) != ""
}

// String accepts any string, including empty.
func String(value any) bool {
	_, ok := value.(string)
	return ok
}

// Bool accepts a JSON boolean.
func Bool(value any) bool {
	_, ok := value.(bool)
	return ok
}

// IntBetween accepts a JSON number holding an integer in [min, max].
func IntBetween(min, max int) CheckFunc {
	return func(value any) bool {
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			return false
		}
		n := int(f)
		return n >= min && n <= max
	}
}

// StringArray accepts a non-empty JSON array whose elements are all
// non-empty strings.
func StringArray(value any) bool {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	for _, item := range arr {
		if !NonEmptyString(item) {
			return false
		}
	}
	return true
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email accepts a plausibly shaped email address.
func Email(value any) bool {
	s, ok := value.(string)
	return ok && emailPattern.MatchString(s)
}

// StrongPassword requires at least 8 characters with one upper case
// letter and one digit.
func StrongPassword(value any) bool {
	s, ok := value.(string)
	if !ok || len(s) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// RecordID accepts a well-formed record identifier (ULID).
func RecordID(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	_, err := ulid.Parse(s)
	return err == nil
}
