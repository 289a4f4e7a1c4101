// Package naming builds deterministic schema names for promoted inline
// schemas.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) split words; each
// word's first letter is capitalized and the rest is preserved.
// Example: "getPetById" -> "GetPetById"
// Example: "user_profile" -> "UserProfile"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, word := range splitWords(s) {
		b.WriteString(titleCaser.String(word))
	}
	return b.String()
}

// SanitizePath converts an API path into a PascalCase name component.
// Parameter braces are stripped so the parameter name participates as a
// word of its own.
// Example: "/pets/{id}" -> "PetsId"
// Example: "/users/{userId}/orders" -> "UsersUserIdOrders"
func SanitizePath(path string) string {
	cleaned := strings.NewReplacer("{", "", "}", "").Replace(path)
	return ToPascalCase(cleaned)
}

// splitWords splits on separator runes and drops anything that is not a
// letter or digit. Leading digits in the first word survive; callers are
// expected to append suffixes such as "Response" so names never start
// with a digit in practice.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
