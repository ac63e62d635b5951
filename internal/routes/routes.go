package routes

import (
	"net/http"

	"github.com/calendarfirst/accounts/internal/app"
	"github.com/calendarfirst/accounts/internal/handler"
	"github.com/calendarfirst/accounts/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	auth := handler.NewAuthHandler(a.RegistrationService)
	health := handler.NewHealthHandler(a.DB)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("POST /api/signup", auth.Signup)
	mux.HandleFunc("GET /api/verify", auth.Verify)
	mux.HandleFunc("POST /api/resend-verification", auth.ResendVerification)

	// Reserved; returns 501 until a login flow exists
	mux.HandleFunc("POST /api/login", auth.Login)

	return middleware.Chain(mux,
		middleware.RequestLogging,
	)
}
