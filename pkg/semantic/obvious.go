package semantic

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrianliechti/redactor/pkg/pii"
)

var nonPersonalWords = map[string]bool{
	"based":        true,
	"rank":         true,
	"option":       true,
	"details":      true,
	"name":         true,
	"student":      true,
	"candidate":    true,
	"date":         true,
	"address":      true,
	"phone":        true,
	"email":        true,
	"number":       true,
	"code":         true,
	"id":           true,
	"roll":         true,
	"application":  true,
	"registration": true,
	"allotment":    true,
	"admission":    true,
	"fee":          true,
	"total":        true,
	"amount":       true,
	"page":         true,
	"no":           true,
	"view":         true,
	"system":       true,
	"generated":    true,
	"letters":      true,
}

var labelFragments = []string{"details", "rank", "option", "based"}

// Obvious reports whether text is clearly personal for its category, in which
// case no semantic check is needed.
func Obvious(text string, category pii.Category) bool {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	if utf8.RuneCountInString(text) <= 2 || nonPersonalWords[lower] {
		return false
	}

	switch category {
	case pii.CategoryPersonName:
		if !isCapitalizedWords(text) {
			return false
		}

		for _, f := range labelFragments {
			if strings.Contains(lower, f) {
				return false
			}
		}

		return true

	case pii.CategoryIDNumber:
		digits, letters, other := classify(text)

		if other > 0 {
			return false
		}

		if letters == 0 {
			return digits >= 8
		}

		return digits > 0 && digits+letters >= 6

	case pii.CategoryPhoneNumber:
		digits, _, _ := classify(text)
		return digits >= 10

	case pii.CategoryEmailAddress:
		return strings.Contains(text, "@") && strings.Contains(text, ".")
	}

	return false
}

// isCapitalizedWords accepts letters separated by single spaces with an upper-case first letter.
func isCapitalizedWords(text string) bool {
	first, _ := utf8.DecodeRuneInString(text)

	if !unicode.IsUpper(first) {
		return false
	}

	prevSpace := false

	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				return false
			}

			prevSpace = true
			continue
		}

		if !unicode.IsLetter(r) {
			return false
		}

		prevSpace = false
	}

	return !prevSpace
}

func classify(text string) (digits, letters, other int) {
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		default:
			other++
		}
	}

	return
}
