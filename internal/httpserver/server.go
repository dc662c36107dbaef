// internal/httpserver/server.go
//
// HTTP server wiring for the game backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery,
//     timeouts, JSON content type, CORS).
//   - Public endpoints: "/health", "/api/".
//   - Progress endpoints: mounted under /api/game/progress.
//   - Move catalog: GET /api/moves/available.
//   - Client status checks: /api/status.
//
// Notes:
//   - There is no authentication; every route is public.
//   - Errors are JSON {"error": "<code>", "detail": "<message>"} with the
//     status derived from the apperr code.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
	"github.com/robalobadob/phoenix/apps/go-server/internal/status"
)

// ProgressService is the progress lifecycle used by the progress routes.
type ProgressService interface {
	Create(ctx context.Context, playerID string, stats *game.PlayerStats) (*game.GameProgress, error)
	Get(ctx context.Context, playerID string) (*game.GameProgress, error)
	Update(ctx context.Context, playerID string, u game.ProgressUpdate) (*game.GameProgress, error)
	Ping(ctx context.Context) error
}

// StatusStore records client status checks.
type StatusStore interface {
	Insert(ctx context.Context, clientName string) (*status.Check, error)
	List(ctx context.Context, limit int) ([]status.Check, error)
}

// Options tune the router.
type Options struct {
	CORSOrigins    []string      // "*" allows any origin
	RequestTimeout time.Duration // zero disables the handler timeout
}

// Server bundles router and its dependencies.
type Server struct {
	r        *chi.Mux
	progress ProgressService
	checks   StatusStore
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options, logger zerolog.Logger, ps ProgressService, ss StatusStore) *Server {
	s := &Server{r: chi.NewRouter(), progress: ps, checks: ss}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(logger)) // request-scoped logger
	s.r.Use(withRequestID)           // req_id on every log line
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer) // recover from panics
	if opts.RequestTimeout > 0 {
		s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	}
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(cors(opts.CORSOrigins)) // origin-aware CORS

	// --- diagnostics ---
	s.r.Get("/health", s.handleHealth)

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "Phoenix Flying Game API"})
		})
		s.mountProgress(r)
		s.mountMoves(r)
		s.mountStatus(r)
	})

	// JSON 404/405 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed", "method": r.Method})
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// handleHealth reports {"ok":true} while the progress store answers pings.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.progress.Ping(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// withRequestID copies chi's request id into the request logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one line per request.
func accessLog(r *http.Request, code, size int, dur time.Duration) {
	ev := hlog.FromRequest(r).Info()
	if code >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", code).
		Int("bytes", size).
		Dur("dur", dur).
		Msg("http")
}

// cors enables CORS for the configured origins. A "*" entry allows any
// origin without credentials, matching a public game API.
func cors(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "":
				w.Header().Add("Vary", "Origin")
				if _, ok := allowed[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
