package resolver

import (
	"sync/atomic"
	"testing"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/stretchr/testify/require"
)

type countingTier struct {
	Tier
	calls atomic.Int64
}

func (c *countingTier) Resolve(target string, tokens []pii.WordToken, category pii.Category) (pii.Rect, bool) {
	c.calls.Add(1)
	return c.Tier.Resolve(target, tokens, category)
}

func token(x0, y0, x1, y1 float64, text string) pii.WordToken {
	return pii.WordToken{
		Box:  pii.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Text: text,
	}
}

func countingResolver() (*Resolver, []*countingTier) {
	var tiers []Tier
	var counters []*countingTier

	for _, t := range DefaultTiers() {
		c := &countingTier{Tier: t}

		tiers = append(tiers, c)
		counters = append(counters, c)
	}

	return New(WithTiers(tiers...)), counters
}

func TestExactMatch(t *testing.T) {
	r, counters := countingResolver()

	tokens := []pii.WordToken{
		token(10, 10, 60, 20, "ASHISH"),
	}

	rect, ok := r.Resolve("ASHISH", tokens, pii.CategoryPersonName)

	require.True(t, ok)
	require.Equal(t, pii.Rect{X0: 10, Y0: 10, X1: 60, Y1: 20}, rect)

	require.Equal(t, int64(1), counters[0].calls.Load())

	for _, c := range counters[1:] {
		require.Zero(t, c.calls.Load(), c.Name())
	}
}

func TestExactMatchIgnoresCaseAndSpace(t *testing.T) {
	r := New()

	tokens := []pii.WordToken{
		token(0, 0, 5, 5, "other"),
		token(10, 10, 60, 20, "Ashish"),
	}

	rect, tier, ok := r.Locate("  ASHISH ", tokens, pii.CategoryPersonName)

	require.True(t, ok)
	require.Equal(t, "exact", tier)
	require.Equal(t, tokens[1].Box, rect)
}

func TestMultiWordMerge(t *testing.T) {
	r := New()

	tokens := []pii.WordToken{
		token(10, 10, 40, 20, "John"),
		token(45, 10, 90, 20, "Smith"),
	}

	rect, tier, ok := r.Locate("John Smith", tokens, pii.CategoryPersonName)

	require.True(t, ok)
	require.Equal(t, "multiword", tier)
	require.Equal(t, pii.Rect{X0: 10, Y0: 10, X1: 90, Y1: 20}, rect)
}

func TestMultiWordThreshold(t *testing.T) {
	tokens := []pii.WordToken{
		token(10, 10, 40, 20, "Asha"),
		token(45, 10, 90, 20, "Rani"),
	}

	target := "Asha Rani Verma Kapoor"

	_, ok := New().Resolve(target, tokens, pii.CategoryAddress)
	require.False(t, ok)

	rect, ok := New(WithThreshold(0.5)).Resolve(target, tokens, pii.CategoryAddress)
	require.True(t, ok)
	require.Equal(t, pii.Rect{X0: 10, Y0: 10, X1: 90, Y1: 20}, rect)
}

func TestFuzzyMatch(t *testing.T) {
	r := New()

	t.Run("punctuation", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(5, 5, 50, 15, "98765-43210"),
		}

		rect, tier, ok := r.Locate("9876543210", tokens, pii.CategoryPhoneNumber)

		require.True(t, ok)
		require.Equal(t, "fuzzy", tier)
		require.Equal(t, tokens[0].Box, rect)
	})

	t.Run("containment", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(5, 5, 50, 15, "ID:128230000295"),
		}

		_, tier, ok := r.Locate("128230000295", tokens, pii.CategoryIDNumber)

		require.True(t, ok)
		require.Equal(t, "fuzzy", tier)
	})

	t.Run("short target needs equality", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(5, 5, 50, 15, "ABCDEF"),
		}

		_, ok := (&FuzzyTier{}).Resolve("BCD", tokens, pii.CategoryIDNumber)

		require.False(t, ok)
	})

	t.Run("partial multi-word target", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(10, 10, 40, 20, "Asha"),
			token(45, 10, 90, 20, "Rani"),
		}

		target := "Asha Rani Verma Kapoor"

		_, ok := (&FuzzyTier{}).Resolve(target, tokens, pii.CategoryPersonName)
		require.False(t, ok)

		// two of four words stay below the multi-word threshold
		_, tier, ok := r.Locate(target, tokens, pii.CategoryPersonName)
		require.False(t, ok)
		require.Empty(t, tier)
	})
}

func TestContextTier(t *testing.T) {
	tier := &ContextTier{}

	t.Run("phone near label", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(0, 0, 30, 10, "Mobile"),
			token(35, 0, 100, 10, "(+91)9876543210"),
		}

		rect, ok := tier.Resolve("98765 43210", tokens, pii.CategoryPhoneNumber)

		require.True(t, ok)
		require.Equal(t, tokens[1].Box, rect)
	})

	t.Run("id outside window", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(0, 0, 30, 10, "Roll"),
			token(0, 0, 30, 10, "a"),
			token(0, 0, 30, 10, "b"),
			token(0, 0, 30, 10, "c"),
			token(0, 0, 30, 10, "e"),
			token(0, 0, 30, 10, "x1234567"),
		}

		_, ok := tier.Resolve("1234567", tokens, pii.CategoryIDNumber)

		require.False(t, ok)
	})

	t.Run("email", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(0, 0, 30, 10, "Email:"),
			token(35, 0, 120, 10, "mail:asha@example.com"),
		}

		rect, ok := tier.Resolve("asha@example.com", tokens, pii.CategoryEmailAddress)

		require.True(t, ok)
		require.Equal(t, tokens[1].Box, rect)
	})

	t.Run("unsupported category", func(t *testing.T) {
		tokens := []pii.WordToken{
			token(0, 0, 30, 10, "Date"),
			token(35, 0, 120, 10, "01/01/2000"),
		}

		_, ok := tier.Resolve("01/01/2000", tokens, pii.CategoryDate)

		require.False(t, ok)
	})
}

func TestNotFound(t *testing.T) {
	r := New()

	tokens := []pii.WordToken{
		token(0, 0, 10, 10, "alpha"),
	}

	_, ok := r.Resolve("omega", tokens, pii.CategoryPersonName)
	require.False(t, ok)

	_, ok = r.Resolve("omega", nil, pii.CategoryPersonName)
	require.False(t, ok)
}

func TestDeterminism(t *testing.T) {
	r := New()

	tokens := []pii.WordToken{
		token(10, 10, 40, 20, "John"),
		token(45, 10, 90, 20, "Smith"),
		token(10, 30, 60, 40, "Name"),
		token(65, 30, 120, 40, "Smithson"),
		token(10, 50, 120, 60, "john.smith@example.com"),
	}

	snapshot := append([]pii.WordToken(nil), tokens...)

	targets := []struct {
		text     string
		category pii.Category
	}{
		{"John Smith", pii.CategoryPersonName},
		{"Smith", pii.CategoryPersonName},
		{"john.smith@example.com", pii.CategoryEmailAddress},
		{"missing", pii.CategoryIDNumber},
	}

	for _, target := range targets {
		first, firstOK := r.Resolve(target.text, tokens, target.category)

		for range 10 {
			rect, ok := r.Resolve(target.text, tokens, target.category)

			require.Equal(t, firstOK, ok)
			require.Equal(t, first, rect)
		}
	}

	require.Equal(t, snapshot, tokens)
}
