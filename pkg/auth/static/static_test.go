package static

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/redactor/pkg/auth"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p, err := New("secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{"valid", "Bearer secret", true},
		{"missing", "", false},
		{"basic", "Basic secret", false},
		{"wrong", "Bearer other", false},
		{"case", "Bearer SECRET", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/v1/jobs", nil)

			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			ctx, err := p.Authenticate(context.Background(), r)

			if !tt.ok {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "static", ctx.Value(auth.UserContextKey))
		})
	}
}

func TestAuthenticateDisabled(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
}
