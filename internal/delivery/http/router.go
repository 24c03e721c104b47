package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	authed := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events", authed(eventController.CreateEvent))
	mux.HandleFunc("GET /events", eventController.ListUpcoming)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetByID)
	mux.HandleFunc("GET /events/{eventID}/availability", eventController.GetAvailability)
	mux.HandleFunc("GET /events/{eventID}/participants", authed(eventController.ListParticipants))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", authed(registrationController.Register))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", authed(registrationController.Cancel))
	mux.HandleFunc("GET /attendee/events", authed(registrationController.ListMyRegistrations))

	// Categories
	mux.HandleFunc("GET /categories", eventController.ListCategories)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
