package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kliksy/kliksy-be/internal/api/handlers"
	"github.com/kliksy/kliksy-be/internal/auth"
	"github.com/kliksy/kliksy-be/internal/services"
	"github.com/kliksy/kliksy-be/internal/ws"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	a *auth.Auth,
	hub *ws.Hub,
	users services.UserServiceProvider,
	memes services.MemeServiceProvider,
	activity services.ActivityRecorder,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The API is served to any origin; responses carry the wildcard header.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, activity, a)
	memeHandler := handlers.NewMemeHandler(users, memes, activity)
	feedHandler := handlers.NewFeedHandler(memes)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api/v1", func(r chi.Router) {
		// Live feed connection endpoint
		r.Get("/ws/feed", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(a.Middleware()).Get("/me", authHandler.Me)
		})

		r.Route("/memes", func(r chi.Router) {
			r.Post("/", memeHandler.Upload)
			r.Get("/profile", memeHandler.ProfileList)
			// The meme id may also arrive in the body or query, so the
			// collection-level routes accept the mutation verbs too.
			r.Patch("/privacy", memeHandler.ChangePrivacy)
			r.Delete("/", memeHandler.Delete)
			r.Route("/{memeId}", func(r chi.Router) {
				r.Patch("/privacy", memeHandler.ChangePrivacy)
				r.Delete("/", memeHandler.Delete)
			})
		})

		r.Get("/feed", feedHandler.List)
	})

	return r
}
