// Package credential holds the password rules used on account creation and the
// one-way comparison used during authentication.
package credential

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 50

	// Symbols is the punctuation set that satisfies the symbol class.
	Symbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"
)

// Rule is one password class check.
type Rule struct {
	Code    apperror.Code
	Message string
	Check   func(string) bool
}

// Rules are listed in reporting priority: the first violated rule wins.
var Rules = []Rule{
	{
		Code:    apperror.CodePasswordLength,
		Message: fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength),
		Check: func(s string) bool {
			n := utf8.RuneCountInString(s)
			return n >= MinPasswordLength && n <= MaxPasswordLength
		},
	},
	{
		Code:    apperror.CodePasswordUppercase,
		Message: "password must contain at least one uppercase letter",
		Check:   func(s string) bool { return strings.IndexFunc(s, unicode.IsUpper) >= 0 },
	},
	{
		Code:    apperror.CodePasswordLowercase,
		Message: "password must contain at least one lowercase letter",
		Check:   func(s string) bool { return strings.IndexFunc(s, unicode.IsLower) >= 0 },
	},
	{
		Code:    apperror.CodePasswordDigit,
		Message: "password must contain at least one digit",
		Check:   func(s string) bool { return strings.IndexFunc(s, unicode.IsDigit) >= 0 },
	},
	{
		Code:    apperror.CodePasswordSymbol,
		Message: "password must contain at least one special character",
		Check:   func(s string) bool { return strings.ContainsAny(s, Symbols) },
	},
	{
		Code:    apperror.CodePasswordWhitespace,
		Message: "password must not contain spaces",
		Check:   func(s string) bool { return strings.IndexFunc(s, unicode.IsSpace) < 0 },
	},
}

// Violations runs every rule and returns the violated ones in priority order.
func Violations(password string) []Rule {
	var out []Rule
	for _, r := range Rules {
		if !r.Check(password) {
			out = append(out, r)
		}
	}
	return out
}

// CheckStrength accepts or rejects a new password, reporting the first
// violated rule as a field error on "password".
func CheckStrength(password string) error {
	v := Violations(password)
	if len(v) == 0 {
		return nil
	}
	return apperror.Field("password", v[0].Code, v[0].Message)
}
