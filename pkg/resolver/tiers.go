package resolver

import (
	"strings"

	"github.com/adrianliechti/redactor/pkg/pii"
)

const DefaultThreshold = 0.7

var (
	_ Tier = (*ExactTier)(nil)
	_ Tier = (*FuzzyTier)(nil)
	_ Tier = (*MultiWordTier)(nil)
	_ Tier = (*ContextTier)(nil)
)

type ExactTier struct{}

func (*ExactTier) Name() string {
	return "exact"
}

func (*ExactTier) Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool) {
	want := fold(target)

	if want == "" {
		return pii.Rect{}, false
	}

	for _, t := range tokens {
		if fold(t.Text) == want {
			return t.Box, true
		}
	}

	return pii.Rect{}, false
}

type FuzzyTier struct{}

func (*FuzzyTier) Name() string {
	return "fuzzy"
}

func (*FuzzyTier) Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool) {
	want := squash(target)

	if want == "" {
		return pii.Rect{}, false
	}

	partial := len([]rune(want)) > 3

	// a token covering only part of a multi-word target is left to the
	// multi-word tier
	single := len(strings.Fields(target)) < 2

	for _, t := range tokens {
		have := squash(t.Text)

		if have == "" {
			continue
		}

		if have == want {
			return t.Box, true
		}

		if !partial {
			continue
		}

		if strings.Contains(have, want) || (single && strings.Contains(want, have)) {
			return t.Box, true
		}
	}

	return pii.Rect{}, false
}

// MultiWordTier merges the boxes of the individual words of a multi-word target.
// The merged box carries no padding.
type MultiWordTier struct {
	Threshold float64
}

func (*MultiWordTier) Name() string {
	return "multiword"
}

func (m *MultiWordTier) Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool) {
	words := strings.Fields(fold(target))

	if len(words) < 2 {
		return pii.Rect{}, false
	}

	threshold := m.Threshold

	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var boxes []pii.Rect

	for _, w := range words {
		for _, t := range tokens {
			if overlaps(w, fold(t.Text)) {
				boxes = append(boxes, t.Box)
				break
			}
		}
	}

	if len(boxes) == 0 || float64(len(boxes)) < float64(len(words))*threshold {
		return pii.Rect{}, false
	}

	result := boxes[0].Normalize()

	for _, b := range boxes[1:] {
		result = result.Union(b)
	}

	return result, true
}

// ContextTier looks for the target next to a field label of its category.
type ContextTier struct{}

func (*ContextTier) Name() string {
	return "context"
}

type labelWindow struct {
	labels []string

	before int
	after  int
}

var contextWindows = map[pii.Category]labelWindow{
	pii.CategoryIDNumber: {
		labels: []string{"number", "roll", "id", "registration", "application", "admission"},
		after:  4,
	},

	pii.CategoryPersonName: {
		labels: []string{"name", "student", "candidate", "person"},
		after:  3,
	},

	pii.CategoryPhoneNumber: {
		labels: []string{"phone", "mobile", "contact", "tel"},
		before: 2,
		after:  4,
	},
}

func (*ContextTier) Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool) {
	if category == pii.CategoryEmailAddress {
		return findEmail(target, tokens)
	}

	window, ok := contextWindows[category]

	if !ok {
		return pii.Rect{}, false
	}

	want := fold(target)
	wantDigits := digits(target)

	for i, t := range tokens {
		if !hasLabel(fold(t.Text), window.labels) {
			continue
		}

		start := i + 1

		if window.before > 0 {
			start = max(0, i-window.before)
		}

		end := min(len(tokens), i+window.after+1)

		for j := start; j < end; j++ {
			candidate := tokens[j].Text

			switch category {
			case pii.CategoryPhoneNumber:
				have := digits(candidate)

				if wantDigits != "" && len(have) >= 8 && strings.Contains(have, wantDigits) {
					return tokens[j].Box, true
				}

			case pii.CategoryIDNumber:
				if overlaps(strings.TrimSpace(target), strings.TrimSpace(candidate)) {
					return tokens[j].Box, true
				}

			default:
				if overlaps(want, fold(candidate)) {
					return tokens[j].Box, true
				}
			}
		}
	}

	return pii.Rect{}, false
}

func findEmail(target string, tokens []pii.WordToken) (pii.Rect, bool) {
	want := fold(target)

	for _, t := range tokens {
		if !strings.Contains(t.Text, "@") {
			continue
		}

		if !strings.Contains(t.Text, ".") && !strings.Contains(target, "@") {
			continue
		}

		if overlaps(want, fold(t.Text)) {
			return t.Box, true
		}
	}

	return pii.Rect{}, false
}

func hasLabel(text string, labels []string) bool {
	for _, l := range labels {
		if strings.Contains(text, l) {
			return true
		}
	}

	return false
}
