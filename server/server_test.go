package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/redactor/config"
	"github.com/adrianliechti/redactor/pkg/jobs/memory"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()

	binary := filepath.Join(dir, "pdftoppm")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	content := `
authorizers:
  - type: static
    token: secret

redaction:
  binary: ` + binary + `

jobs:
  dir: ` + filepath.Join(dir, "jobs") + `
`

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Parse(path)
	require.NoError(t, err)

	s, err := New(cfg, memory.New())
	require.NoError(t, err)

	server := httptest.NewServer(s)
	t.Cleanup(server.Close)

	return server
}

func TestServer(t *testing.T) {
	server := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unauthorized", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/v1/jobs/unknown")
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("authorized", func(t *testing.T) {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+"/v1/jobs/unknown", nil)
		req.Header.Set("Authorization", "Bearer secret")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
