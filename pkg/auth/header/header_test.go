package header

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/redactor/pkg/auth"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	t.Run("email as user", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/jobs", nil)
		r.Header.Set("X-Forwarded-User", "jane@example.com")

		ctx, err := p.Authenticate(context.Background(), r)
		require.NoError(t, err)

		require.Equal(t, "jane@example.com", ctx.Value(auth.UserContextKey))
		require.Equal(t, "jane@example.com", ctx.Value(auth.EmailContextKey))
	})

	t.Run("custom headers", func(t *testing.T) {
		p, err := New(WithUserHeader("X-User"), WithEmailHeader("X-Email"))
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/v1/jobs", nil)
		r.Header.Set("X-User", "jane")

		ctx, err := p.Authenticate(context.Background(), r)
		require.NoError(t, err)

		require.Equal(t, "jane", ctx.Value(auth.UserContextKey))
		require.Nil(t, ctx.Value(auth.EmailContextKey))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := p.Authenticate(context.Background(), httptest.NewRequest("GET", "/", nil))
		require.Error(t, err)
	})
}
