package detector

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrianliechti/redactor/pkg/pii"
)

var (
	ErrExcluded  = errors.New("excluded word")
	ErrLength    = errors.New("invalid length")
	ErrStructure = errors.New("no valid structure")
)

const (
	minLength = 2
	maxLength = 50
)

// Validate applies the category validator to a trimmed match.
func (d *Detector) Validate(text string, category pii.Category) error {
	lower := strings.ToLower(strings.TrimSpace(text))

	if d.exclusions[lower] {
		return fmt.Errorf("%w: %s", ErrExcluded, lower)
	}

	if n := utf8.RuneCountInString(text); n < minLength || n > maxLength {
		return ErrLength
	}

	switch category {
	case pii.CategoryPersonName:
		if isName(text) {
			return nil
		}

	case pii.CategoryIDNumber:
		if n := utf8.RuneCountInString(text); isDigits(text) && n >= 6 && n <= 15 {
			return nil
		}

	case pii.CategoryPhoneNumber:
		if countDigits(text) >= 10 {
			return nil
		}

	case pii.CategoryEmailAddress:
		if strings.Contains(text, "@") && strings.Contains(text, ".") {
			return nil
		}

	case pii.CategoryDate, pii.CategoryAddress:
		return nil
	}

	return fmt.Errorf("%w for %s", ErrStructure, category)
}

// isName accepts at least three letters starting upper-case; words may be
// separated by single spaces.
func isName(text string) bool {
	if utf8.RuneCountInString(text) < 3 {
		return false
	}

	first, _ := utf8.DecodeRuneInString(text)

	if !unicode.IsUpper(first) {
		return false
	}

	for _, word := range strings.Split(text, " ") {
		if word == "" {
			return false
		}

		for _, r := range word {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}

	return true
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func countDigits(text string) int {
	var n int

	for _, r := range text {
		if unicode.IsDigit(r) {
			n++
		}
	}

	return n
}
