package limiter

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/provider"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockCompleter struct {
	calls atomic.Int64
}

func (m *mockCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	m.calls.Add(1)
	return &provider.Completion{}, nil
}

type mockLayout struct {
	calls atomic.Int64
}

func (m *mockLayout) Extract(ctx context.Context, file layout.File, options *layout.ExtractOptions) (*layout.Document, error) {
	m.calls.Add(1)
	return &layout.Document{}, nil
}

func TestNew(t *testing.T) {
	require.Nil(t, New(0))
	require.Nil(t, New(-1))

	l := New(5)
	require.NotNil(t, l)
	require.Equal(t, rate.Limit(5), l.Limit())
	require.Equal(t, 5, l.Burst())
}

func TestCompleter(t *testing.T) {
	m := &mockCompleter{}

	c := NewCompleter(nil, m)

	_, err := c.Complete(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), m.calls.Load())
}

func TestCompleterCanceled(t *testing.T) {
	m := &mockCompleter{}

	l := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := NewCompleter(l, m)

	_, err := c.Complete(context.Background(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = c.Complete(ctx, nil, nil)
	require.Error(t, err)
	require.Equal(t, int64(1), m.calls.Load())
}

func TestLayout(t *testing.T) {
	m := &mockLayout{}

	p := NewLayout(New(100), m)

	for range 3 {
		_, err := p.Extract(context.Background(), layout.File{}, nil)
		require.NoError(t, err)
	}

	require.Equal(t, int64(3), m.calls.Load())
}
