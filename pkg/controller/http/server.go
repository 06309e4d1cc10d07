package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
)

// maxBodyBytes bounds request bodies. Response content is capped far below this.
const maxBodyBytes = 1 << 20

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		authUC: uc.Auth,
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
		// Public endpoints
		r.Get("/topics", topicsHandler(s.uc))
		r.Get("/suggestions", listSuggestionsHandler(s.uc))
		r.Post("/suggestions", createSuggestionHandler(s.uc))

		if s.authUC != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Get("/login", authLoginHandler(s.authUC))
				r.Get("/callback", authCallbackHandler(s.authUC))
				r.Post("/logout", authLogoutHandler(s.authUC))
				r.Get("/me", authMeHandler(s.authUC))
			})
		}

		// Endpoints acting on behalf of the signed-in user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(s.authUC))

			r.Get("/prompts", listPromptViewsHandler(s.uc))
			r.Get("/prompts/{promptID}", getPromptViewHandler(s.uc))
			r.Put("/prompts/{promptID}/draft", saveDraftHandler(s.uc))
			r.Post("/prompts/{promptID}/submit", submitResponseHandler(s.uc))
			r.Post("/responses/{responseID}/acknowledge", acknowledgeHandler(s.uc))
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

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
