package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rackscape/pkg/buildinfo"
	rserrors "github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/observability"
	"github.com/matzehuels/rackscape/pkg/pipeline"
	"github.com/matzehuels/rackscape/pkg/rack/profile"
)

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the HTTP artifact server command.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve laid-out halls over HTTP",
		Long: `Serve halls laid out from the configured assets over HTTP.

Endpoints:
  GET /healthz              liveness
  GET /version              build information
  GET /profiles             built-in profiles
  GET /profiles/{name}      devices of a built-in profile
  GET /hall.{format}        the hall as json, svg, png, pdf, dot or tree

/hall accepts profile, cabinets, fill_ratio, seed and title query
parameters. Only built-in profiles can be requested. Results are cached
like the layout command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := c.settings()
			s := &server{runner: runner, base: cfg.PipelineOptions(), logger: c.Logger}
			srv := &http.Server{
				Addr:         c.v.GetString("server.addr"),
				Handler:      s.routes(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			return listenAndServe(ctx, srv, c.Logger)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.bind(cmd, "server.addr", "addr")

	return cmd
}

// listenAndServe runs srv until ctx ends, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatTree: "image/svg+xml",
}

// server serves artifacts of halls laid out with base options.
type server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hookMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, buildinfo.Get())
	})
	r.Get("/profiles", s.handleProfiles)
	r.Get("/profiles/{name}", s.handleProfile)
	r.Get("/hall.{format}", s.handleHall)
	return r
}

// hookMiddleware reports requests and responses to the HTTP hooks.
func hookMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

type profileSummary struct {
	Name    string `json:"name"`
	Devices int    `json:"devices"`
}

func (s *server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	names := profile.Names()
	out := make([]profileSummary, 0, len(names))
	for _, name := range names {
		p, _ := profile.Builtin(name)
		out = append(out, profileSummary{Name: name, Devices: p.Len()})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := profile.Builtin(name)
	if !ok {
		s.respondError(w, rserrors.New(rserrors.ErrCodeNotFound, "no built-in profile %q", name))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := profile.Write(w, p, profile.FormatJSON); err != nil {
		s.logger.Error("encode profile", "err", err)
	}
}

func (s *server) handleHall(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, rserrors.Wrap(rserrors.ErrCodeInvalidFormat, err, "format"))
		return
	}

	opts, err := s.hallOptions(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", strconv.Quote(result.SceneHash))
	if result.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(result.Artifacts[format])
}

// hallOptions overlays query parameters on the base options. Profiles are
// limited to built-ins so requests cannot name files on the server.
func (s *server) hallOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.base
	q := r.URL.Query()

	if name := q.Get("profile"); name != "" {
		if _, ok := profile.Builtin(name); !ok {
			return opts, rserrors.New(rserrors.ErrCodeNotFound, "no built-in profile %q", name)
		}
		opts.Profile = name
	}
	if v := q.Get("cabinets"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return opts, rserrors.New(rserrors.ErrCodeInvalidInput, "cabinets must be 1-100, got %q", v)
		}
		opts.Cabinets = n
	}
	if v := q.Get("fill_ratio"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			err = pipeline.ValidateFillRatio(f)
		}
		if err != nil {
			return opts, rserrors.New(rserrors.ErrCodeInvalidInput, "fill_ratio must be in (0, 1], got %q", v)
		}
		opts.FillRatio = f
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, rserrors.New(rserrors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	return opts, nil
}

func (s *server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *server) respondError(w http.ResponseWriter, err error) {
	status := rserrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respondJSON(w, status, map[string]string{
		"error": rserrors.UserMessage(err),
		"code":  string(rserrors.GetCode(err)),
	})
}
