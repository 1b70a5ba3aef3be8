package semantic

import (
	"context"

	"github.com/adrianliechti/redactor/pkg/pii"
)

// Filter judges whether an ambiguous candidate is genuine PII.
// Implementations return false on any error, timeout or unclear answer.
type Filter interface {
	IsLikelyNonPII(ctx context.Context, text, surrounding string, category pii.Category) bool
}

type Verdict string

const (
	VerdictObvious   Verdict = "obvious"
	VerdictUnchecked Verdict = "unchecked"
	VerdictConfirmed Verdict = "confirmed"
	VerdictRejected  Verdict = "rejected"
)

// Redact reports whether a candidate with this verdict stays a detection.
func (v Verdict) Redact() bool {
	return v != VerdictRejected
}

type Decider struct {
	filter Filter
	window int
}

type Option func(*Decider)

// WithWindow sets how many characters around the candidate are passed to the filter.
func WithWindow(val int) Option {
	return func(d *Decider) {
		d.window = val
	}
}

// NewDecider returns a Decider consulting filter for ambiguous candidates.
// A nil filter redacts every candidate.
func NewDecider(filter Filter, options ...Option) *Decider {
	d := &Decider{
		filter: filter,
		window: DefaultWindow,
	}

	for _, option := range options {
		option(d)
	}

	return d
}

// Decide applies the decision table to a candidate found in pageText.
func (d *Decider) Decide(ctx context.Context, c pii.Candidate, pageText string) Verdict {
	if Obvious(c.Text, c.Category) {
		return VerdictObvious
	}

	if d.filter == nil {
		return VerdictUnchecked
	}

	surrounding := Surrounding(c.Text, pageText, d.window)

	if d.filter.IsLikelyNonPII(ctx, c.Text, surrounding, c.Category) {
		return VerdictRejected
	}

	return VerdictConfirmed
}
