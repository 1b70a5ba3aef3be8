package detector

import (
	"log/slog"
	"strings"
	"time"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/dlclark/regexp2"
)

const (
	DefaultConfidence   = 0.9
	DefaultMatchTimeout = 250 * time.Millisecond
)

type Detector struct {
	sets       []compiledSet
	exclusions map[string]bool

	categories map[pii.Category]bool

	confidence float64
	timeout    time.Duration
}

type compiledSet struct {
	category pii.Category
	patterns []*compiledPattern
}

type compiledPattern struct {
	index int
	expr  *regexp2.Regexp
}

type Option func(*Detector)

// WithPatterns replaces the default pattern sets.
func WithPatterns(sets ...PatternSet) Option {
	return func(d *Detector) {
		d.sets = compile(sets, d.timeout)
	}
}

// WithCategories restricts detection to the given categories.
func WithCategories(categories ...pii.Category) Option {
	return func(d *Detector) {
		if len(categories) == 0 {
			return
		}

		d.categories = make(map[pii.Category]bool)

		for _, c := range categories {
			d.categories[c] = true
		}
	}
}

func WithExclusions(words ...string) Option {
	return func(d *Detector) {
		for _, w := range words {
			d.exclusions[strings.ToLower(strings.TrimSpace(w))] = true
		}
	}
}

func WithMatchTimeout(timeout time.Duration) Option {
	return func(d *Detector) {
		d.timeout = timeout

		for _, s := range d.sets {
			for _, p := range s.patterns {
				p.expr.MatchTimeout = timeout
			}
		}
	}
}

func New(options ...Option) *Detector {
	d := &Detector{
		exclusions: make(map[string]bool),

		confidence: DefaultConfidence,
		timeout:    DefaultMatchTimeout,
	}

	d.sets = compile(DefaultPatterns, d.timeout)

	for _, w := range DefaultExclusions {
		d.exclusions[w] = true
	}

	for _, option := range options {
		option(d)
	}

	return d
}

func compile(sets []PatternSet, timeout time.Duration) []compiledSet {
	var result []compiledSet

	for _, s := range sets {
		set := compiledSet{
			category: s.Category,
		}

		for i, p := range s.Patterns {
			expr, err := regexp2.Compile(p, regexp2.IgnoreCase)

			if err != nil {
				slog.Warn("skipping malformed pattern", "category", s.Category, "index", i, "error", err)
				continue
			}

			expr.MatchTimeout = timeout

			set.patterns = append(set.patterns, &compiledPattern{
				index: i,
				expr:  expr,
			})
		}

		result = append(result, set)
	}

	return result
}

// Rejection describes a match dropped by the category validator.
type Rejection struct {
	Text     string
	Category pii.Category
	Reason   error
}

type Scan struct {
	Candidates []pii.Candidate
	Rejections []Rejection

	// Matches counts raw pattern matches before validation.
	Matches int
	// Failures counts patterns that failed while matching.
	Failures int
}

// Detect returns the validated candidates found in text.
func (d *Detector) Detect(text string, page int) []pii.Candidate {
	return d.Scan(text, page).Candidates
}

// Scan runs every pattern over text and reports candidates together with diagnostics.
func (d *Detector) Scan(text string, page int) *Scan {
	result := &Scan{}

	for _, set := range d.sets {
		if d.categories != nil && !d.categories[set.category] {
			continue
		}

		for _, p := range set.patterns {
			matches, err := findAll(p.expr, text)

			if err != nil {
				slog.Warn("pattern failed", "category", set.category, "index", p.index, "error", err)
				result.Failures++
			}

			for _, m := range matches {
				result.Matches++

				if err := d.Validate(m, set.category); err != nil {
					result.Rejections = append(result.Rejections, Rejection{
						Text:     m,
						Category: set.category,
						Reason:   err,
					})

					continue
				}

				result.Candidates = append(result.Candidates, pii.Candidate{
					Text:     m,
					Category: set.category,

					PatternIndex: p.index,
					Confidence:   d.confidence,

					Page: page,
				})
			}
		}
	}

	return result
}

// findAll collects all non-overlapping matches. Matches found before a
// failure are returned together with the error.
func findAll(expr *regexp2.Regexp, text string) ([]string, error) {
	var result []string

	m, err := expr.FindStringMatch(text)

	for m != nil {
		val := m.String()

		if groups := m.Groups(); len(groups) > 1 {
			val = groups[1].String()
		}

		result = append(result, strings.TrimSpace(val))

		m, err = expr.FindNextMatch(m)
	}

	return result, err
}
