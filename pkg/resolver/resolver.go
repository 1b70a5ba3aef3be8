package resolver

import (
	"github.com/adrianliechti/redactor/pkg/pii"
)

// Tier is one strategy for locating a text span in a page layout.
type Tier interface {
	Name() string
	Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool)
}

type Resolver struct {
	tiers []Tier
}

type Option func(*Resolver)

// WithTiers replaces the default tier chain.
func WithTiers(tiers ...Tier) Option {
	return func(r *Resolver) {
		r.tiers = tiers
	}
}

// WithThreshold sets the fraction of words the multi-word tier must find.
func WithThreshold(threshold float64) Option {
	return func(r *Resolver) {
		for i, t := range r.tiers {
			if _, ok := t.(*MultiWordTier); ok {
				r.tiers[i] = &MultiWordTier{Threshold: threshold}
			}
		}
	}
}

func New(options ...Option) *Resolver {
	r := &Resolver{
		tiers: DefaultTiers(),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

func DefaultTiers() []Tier {
	return []Tier{
		&ExactTier{},
		&FuzzyTier{},
		&MultiWordTier{Threshold: DefaultThreshold},
		&ContextTier{},
	}
}

// Resolve returns the box of the first tier that locates target.
func (r *Resolver) Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool) {
	rect, _, ok := r.Locate(target, tokens, category)
	return rect, ok
}

// Locate is Resolve that also reports the name of the successful tier.
func (r *Resolver) Locate(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, string, bool) {
	if len(tokens) == 0 {
		return pii.Rect{}, "", false
	}

	for _, t := range r.tiers {
		if rect, ok := t.Resolve(target, tokens, category); ok {
			return rect, t.Name(), true
		}
	}

	return pii.Rect{}, "", false
}
