package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/onboarding/api/handler"
)

type Handlers struct {
	Activation *apiHandler.ActivationHandler
	Auth       *apiHandler.AuthHandler
	Profile    *apiHandler.ProfileHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Activation routes
	r.POST("/api/v1/users/{id}/activation", handlers.Activation.Activate)
	r.GET("/api/v1/users/{id}/activation/message", handlers.Activation.Message)

	// Protected routes
	r.POST("/api/v1/auth/refresh", authMiddleware(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))

	return r
}
