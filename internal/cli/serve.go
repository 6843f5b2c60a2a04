package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/microsoft/playwright-go-sub009/pkg/cache"
	"github.com/microsoft/playwright-go-sub009/pkg/gen"
	"github.com/microsoft/playwright-go-sub009/pkg/pipeline"
)

// serveCommand creates the serve command exposing the API description over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		source  string
		version string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API description and reference graph over HTTP",
		Long: `Serve the API description and reference graph over HTTP.

Routes:
  GET /healthz     liveness probe
  GET /api.json    the raw API description
  GET /graph.dot   the reference graph in DOT format
  GET /graph.svg   the reference graph rendered as SVG

Graph routes accept ?detailed=1 to include member counts in node labels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Cache.Close()

			opts := pipeline.Options{Source: source, DriverVersion: version}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			srv := &apiServer{runner: runner, opts: opts}
			return c.serve(cmd.Context(), addr, srv.routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8700", "listen address")
	cmd.Flags().StringVarP(&source, "source", "s", "", "api.json file to serve (default: installed driver)")
	cmd.Flags().StringVar(&version, "driver-version", "", "driver version to query")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serve runs the HTTP server until ctx is cancelled.
func (c *CLI) serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	c.Logger.Info("serving API description", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// apiServer holds the shared state behind the HTTP routes.
type apiServer struct {
	runner *pipeline.Runner
	opts   pipeline.Options
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api.json", s.handleAPIJSON)
	r.Get("/graph.dot", s.handleGraph(pipeline.FormatDOT, "text/vnd.graphviz"))
	r.Get("/graph.svg", s.handleGraph(pipeline.FormatSVG, "image/svg+xml"))

	return r
}

func (s *apiServer) handleAPIJSON(w http.ResponseWriter, r *http.Request) {
	_, raw, _, err := s.runner.LoadWithCacheInfo(r.Context(), s.opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *apiServer) handleGraph(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, raw, _, err := s.runner.LoadWithCacheInfo(r.Context(), s.opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		detailed := r.URL.Query().Get("detailed") == "1"
		artifact, _, err := s.runner.GraphWithCacheInfo(r.Context(), schema, cache.Hash(raw), s.opts, format, gen.GraphOptions{Detailed: detailed})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(artifact)
	}
}
