/*
Package handler provides the HTTP handlers and routing setup for the LexDraft server.

This file defines the main Router, applying middleware like logging, CORS, panic
recovery, and IP-based rate limiting before delegating requests to the page and
API handlers.
*/
package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"lexdraft/internal/pkg/auth/jwt"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/limiter"
	"lexdraft/internal/pkg/logx"
	"lexdraft/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 5
	ChatRate  = 1
	ChatBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	chatLimiter := limiter.NewIPRateLimiter(rate.Limit(ChatRate), ChatBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-PoW-Token"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(recoverer)
	r.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "LexDraft Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	// Page views. Every route the client can navigate to resolves here; anything
	// else falls through to the landing redirect.
	r.Get("/", HandleLandingPage(deps))
	r.Get("/auth", HandleAuthPage(deps))
	r.Get("/dashboard", HandleDashboardPage(deps))
	r.Get("/generate", HandleGenerateMenuPage(deps))
	r.Get("/generate/{type}", HandleGenerateFormPage(deps))
	r.Get("/pricing", HandlePricingPage(deps))
	r.Get("/help", HandleHelpPage(deps))
	r.Get("/profile", HandleProfilePage(deps))
	r.Get("/profile/settings", HandleProfileSettingsPage(deps))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/landing", func(l chi.Router) {
			l.Get("/sections", HandleLandingSections(deps))
			l.Post("/navigate", HandleLandingNavigate(deps))
		})

		api.Route("/auth", func(auth chi.Router) {
			auth.Get("/challenge", HandleGetChallenge(deps))
			auth.Post("/challenge", HandleVerifyChallenge(deps))
			auth.Method(http.MethodPost, "/signup", authLimiter.Middleware(HandleSignUp(deps)))
			auth.Method(http.MethodPost, "/signin", authLimiter.Middleware(HandleSignIn(deps)))
			auth.Post("/signout", HandleSignOut(deps))
			auth.Get("/session", HandleGetSession(deps))
		})

		api.Route("/user", func(u chi.Router) {
			u.Get("/profile", HandleGetProfile(deps))
			u.Post("/profile", HandleUpdateProfile(deps))
		})

		api.Route("/assistant", func(a chi.Router) {
			a.Get("/messages", HandleGetMessages(deps))
			a.Method(http.MethodPost, "/messages", chatLimiter.Middleware(HandleSendMessage(deps)))
			a.Post("/panel", HandlePanelAction(deps))
		})

		api.Route("/documents", func(d chi.Router) {
			d.Get("/types", HandleDocumentTypes(deps))
			d.Get("/", HandleListDocuments(deps))
			d.Post("/", HandleGenerateDocument(deps))
			d.Get("/{id}/download", HandleDownloadDocument(deps))
			d.Delete("/{id}", HandleDeleteDocument(deps))
		})

		api.Route("/plans", func(p chi.Router) {
			p.Get("/", HandleListPlans(deps))
			p.Post("/select", HandleSelectPlan(deps))
		})
	})

	r.Get("/ws/assistant", HandleAssistantSocket(wsUpgrader, deps))

	return r
}

// recoverer converts a handler panic into the generic error view instead of a
// dropped connection. The payload carries the recovery actions the client
// renders (back to the homepage, or reload).
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logx.Error(fmt.Errorf("%v", rec), "Panic recovered while serving request", "path", r.URL.Path)

				resp.RespondJSON(w, r, http.StatusInternalServerError, resp.JSONResponse{
					Code:    errs.ErrUnknown,
					Message: "Something went wrong. Please try again.",
					Data: map[string]any{
						"actions":  []string{"go_home", "reload"},
						"homePath": "/",
					},
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
