// Package server implements the HTTP generation service: submit a grammar
// description, get back generated Go source, and look up prior jobs.
//
//   - POST /api/v1/login     - exchange username/password for a JWT
//   - POST /api/v1/jobs      - submit a grammar description as a new job
//   - GET  /api/v1/jobs/{id} - fetch a job's current state/result
//   - GET  /api/v1/jobs      - list the calling user's jobs
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dekarrin/ll1gen/internal/cache"
	"github.com/dekarrin/ll1gen/server/api"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
)

// Server is a generation service bound to a dao.Store.
type Server struct {
	router *chi.Mux
	db     dao.Store
}

// New constructs a Server from cfg, connecting to the configured database
// and opening the build cache at cfg.CacheDir.
func New(cfg Config) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, err
	}

	var ch *cache.Cache
	if cfg.CacheDir != "" {
		ch, err = cache.Open(cfg.CacheDir)
		if err != nil {
			return Server{}, err
		}
	}

	deps := api.Deps{
		DB:              db,
		JWTSecret:       cfg.TokenSecret,
		Cache:           ch,
		MaxGrammarBytes: cfg.MaxGrammarBytes,
	}

	return Server{
		db:     db,
		router: newRouter(deps, cfg.UnauthDelay()),
	}, nil
}

func newRouter(deps api.Deps, unauthDelay time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", wrap(deps.Login))

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return middle.RequireAuth(deps.DB.Users(), deps.JWTSecret, unauthDelay, next)
			})
			r.Post("/jobs", wrap(deps.CreateJob))
			r.Get("/jobs", wrap(deps.ListJobs))
			r.Get("/jobs/{id}", wrap(deps.GetJob))
		})
	})

	return r
}

// ServeHTTP makes Server an http.Handler.
func (srv Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	srv.router.ServeHTTP(w, req)
}

// Close releases the underlying store's resources.
func (srv Server) Close() error {
	return srv.db.Close()
}

// wrap adapts an api-style handler (one returning a result.Result) to a
// standard http.HandlerFunc, recovering panics into HTTP-500 responses.
func wrap(h func(*http.Request) result.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				result.InternalServerError("panic: %v", p).WriteResponse(w)
			}
		}()
		h(req).WriteResponse(w)
	}
}
