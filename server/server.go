package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianliechti/redactor/config"
	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config
	http.Handler

	api *api.Handler
}

func New(cfg *config.Config, registry jobs.Registry) (*Server, error) {
	p, err := cfg.Pipeline(registry)

	if err != nil {
		return nil, err
	}

	api, err := api.New(cfg, registry, p)

	if err != nil {
		return nil, err
	}

	mux := chi.NewMux()

	s := &Server{
		Config:  cfg,
		Handler: otelhttp.NewHandler(mux, "redactor"),

		api: api,
	}

	mux.Use(middleware.Recoverer)

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1", func(r chi.Router) {
		r.Use(s.handleAuth)

		api.Attach(r)
	})

	return s, nil
}

// ListenAndServe serves until ctx is cancelled, removing expired jobs in the background.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Address,
		Handler: s,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanup(ctx)

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		srv.Shutdown(shutdown)
	}()

	slog.Info("server listening", "address", s.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) cleanup(ctx context.Context) {
	ticker := time.NewTicker(s.Jobs.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			s.api.Cleanup()
		}
	}
}

func (s *Server) handleAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.Authorizers) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		var err error

		for _, a := range s.Authorizers {
			ctx, e := a.Authenticate(r.Context(), r)

			if e == nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			err = e
		}

		slog.Warn("unauthorized request", "path", r.URL.Path, "error", err)

		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	})
}
