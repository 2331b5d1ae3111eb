// Package validation holds the field rules for user records. The rules are a
// declarative table evaluated by a single generic validator, so the server
// gate and the client pre-flight check can never drift apart: both call
// Validate on the identical table.
package validation

import (
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Fields is a candidate set of editable user fields.
type Fields struct {
	Username    string
	FullName    string
	Email       string
	PhoneNumber string
	Location    string
}

// FieldError describes a single failed field. The JSON shape matches the
// `errors` entries of 400 response bodies.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule is one check on a field value. Ok returns true when the value passes.
type Rule struct {
	Ok      func(value string) bool
	Message string
}

type fieldRules struct {
	field string
	value func(Fields) string
	rules []Rule
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRe    = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)

	emailChecker = playground.New()
)

// rules is the single source of truth. Rules are evaluated in order per field
// and the first failing rule wins.
var rules = []fieldRules{
	{
		field: "username",
		value: func(f Fields) string { return f.Username },
		rules: []Rule{
			{required, "Username is required"},
			{lengthBetween(3, 50), "Username must be between 3 and 50 characters"},
			{usernameRe.MatchString, "Username can only contain letters, numbers, and underscores"},
		},
	},
	{
		field: "fullName",
		value: func(f Fields) string { return f.FullName },
		rules: []Rule{
			{required, "Full name is required"},
			{lengthBetween(2, 100), "Full name must be between 2 and 100 characters"},
			{fullNameRe.MatchString, "Full name can only contain letters and spaces"},
		},
	},
	{
		field: "email",
		value: func(f Fields) string { return f.Email },
		rules: []Rule{
			{required, "Email is required"},
			{validEmail, "Please provide a valid email address"},
		},
	},
	{
		field: "phoneNumber",
		value: func(f Fields) string { return f.PhoneNumber },
		rules: []Rule{
			{required, "Phone number is required"},
			{validPhone, "Please provide a valid phone number"},
		},
	},
	{
		field: "location",
		value: func(f Fields) string { return f.Location },
		rules: []Rule{
			{required, "Location is required"},
			{lengthBetween(2, 100), "Location must be between 2 and 100 characters"},
		},
	},
}

// Validate checks every field against its rule list and returns one error per
// failing field, in declaration order. An empty result means the field set is
// valid. Pure and deterministic: no I/O, no hidden state.
func Validate(f Fields) []FieldError {
	var errs []FieldError
	for _, fr := range rules {
		value := fr.value(f)
		for _, r := range fr.rules {
			if !r.Ok(value) {
				errs = append(errs, FieldError{Field: fr.field, Message: r.Message})
				break
			}
		}
	}
	return errs
}

// NormalizeEmail lowercases and trims an email address. Applied before
// storage and before uniqueness checks, making email collisions
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}

func lengthBetween(min, max int) func(string) bool {
	return func(v string) bool {
		n := len(v)
		return n >= min && n <= max
	}
}

func validEmail(v string) bool {
	return emailChecker.Var(v, "email") == nil
}

// validPhone accepts E.164-style numbers, ignoring common separator
// characters (spaces, dashes, parentheses, dots).
func validPhone(v string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, v)
	return phoneRe.MatchString(stripped)
}
