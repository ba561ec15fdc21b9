package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notelab/braindump/pkg/usecase"
	"github.com/notelab/braindump/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler(uc))
		r.Get("/history", historyHandler(uc))
		r.Post("/sync", syncHandler(uc))
		r.Get("/stats", statsHandler(uc))

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", listEntriesHandler(uc))
			r.Post("/", captureHandler(uc))
			r.Get("/{id}", getEntryHandler(uc))
			r.Put("/{id}", updateEntryHandler(uc))
			r.Delete("/{id}", deleteEntryHandler(uc))
			r.Post("/{id}/review", reviewHandler(uc))
		})

		r.Post("/classify", classifyHandler(uc))
		r.Post("/hint", hintHandler(uc))
		r.Post("/digest", digestHandler(uc))

		r.Route("/coaching", func(r chi.Router) {
			r.Get("/", listRegistrationsHandler(uc))
			r.Post("/", registerHandler(uc))
			r.Delete("/{id}", unregisterHandler(uc))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}
