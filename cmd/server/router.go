package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prapeller/readadvance.backend/internal/api"
	apiMiddleware "github.com/prapeller/readadvance.backend/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. The public surface authenticates with JWT bearer tokens;
// the internal surface is guarded by HMAC request signatures and serves
// sibling services.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.passwordVerifier)
	wordHandler := api.NewWordHandler(app.wordService)
	textHandler := api.NewTextHandler(app.textService)
	translationHandler := api.NewTranslationHandler(app.translationService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/words", wordHandler.CreateWord)
			r.Get("/words", wordHandler.ListWords)
			r.Get("/words/{id}", wordHandler.GetWord)

			r.Post("/texts", textHandler.CreateText)
			r.Get("/texts", textHandler.ListTexts)
			r.Get("/texts/{id}", textHandler.GetText)

			r.Post("/translations/text", translationHandler.TranslateText)
			r.Post("/translations/word", translationHandler.TranslateWord)
		})
	})

	// Internal surface for sibling services, guarded by signed request
	// headers instead of user tokens.
	r.Route("/api/v1/internal", func(r chi.Router) {
		r.Use(app.interAuth.Authenticate)

		r.Post("/words", wordHandler.GetOrCreateWord)
		r.Post("/texts", textHandler.CreateText)
		r.Post("/translations/text", translationHandler.TranslateText)
		r.Post("/translations/word", translationHandler.TranslateWord)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
