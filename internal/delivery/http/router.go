package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
	"gatherly/internal/monitoring"
)

// NewRouter initializes the HTTP router with all application routes.
// Reads are open to anonymous callers (with optional auth so my_events,
// my_rsvps, and has_rsvped work); writes require a valid Bearer token.
func NewRouter(
	authController *controllers.AuthController,
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	eventController *controllers.EventController,
	rsvpController *controllers.RSVPController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", requireAuth(userController.UpdateMe))
	mux.HandleFunc("DELETE /users/me", requireAuth(userController.DeleteMe))

	// Categories
	mux.HandleFunc("GET /categories", categoryController.ListCategories)
	mux.HandleFunc("DELETE /categories/{categoryID}", requireAuth(categoryController.DeleteCategory))

	// Events
	mux.HandleFunc("GET /events", optionalAuth(eventController.ListEvents))
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", optionalAuth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/cancel", requireAuth(eventController.CancelEvent))

	// RSVPs
	mux.HandleFunc("POST /events/{eventID}/rsvp", requireAuth(rsvpController.Rsvp))
	mux.HandleFunc("DELETE /events/{eventID}/rsvp", requireAuth(rsvpController.CancelRsvp))

	// Observability and docs
	mux.Handle("GET /metrics", monitoring.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
