package llm

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrianliechti/redactor/pkg/pii"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

var (
	labelTerms = []string{"TECHNICAL", "SYSTEM", "LABEL", "GENERIC"}
	techTerms  = []string{"js", "py", "api", "sql", "git", "dev", "sys", "app", "web"}
)

// isPII interprets a YES/NO reply. Names and identifiers are only released
// when a NO also calls the text a label or technical term; unclear replies
// fall back to per-category heuristics that lean towards redaction.
func isPII(reply, text string, category pii.Category) bool {
	reply = strings.ToUpper(strings.TrimSpace(thinkBlock.ReplaceAllString(reply, "")))

	if reply == "" {
		return true
	}

	words := strings.FieldsFunc(reply, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	if slices.Contains(words, "YES") {
		return true
	}

	cautious := category == pii.CategoryPersonName || category == pii.CategoryIDNumber

	if slices.Contains(words, "NO") {
		if !cautious {
			return false
		}

		for _, term := range labelTerms {
			if strings.Contains(reply, term) {
				return false
			}
		}

		return true
	}

	switch category {
	case pii.CategoryPersonName:
		lower := strings.ToLower(text)

		for _, term := range techTerms {
			if strings.Contains(lower, term) {
				return false
			}
		}

		return true

	case pii.CategoryIDNumber:
		return utf8.RuneCountInString(text) > 3
	}

	return true
}
