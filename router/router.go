package router

import (
	"log"

	"infracheck/config"
	"infracheck/controllers"
	"infracheck/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
// O gate de autenticação (AuthRequired) roda no grupo inteiro, exatamente
// uma vez por request; rotas públicas passam pela allow-list do próprio gate.
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	api := r.Group("/api/v1")
	api.Use(controllers.AuthRequired())

	// Public (allow-list do gate)
	api.POST("/register", Logger(), controllers.Register)
	api.POST("/login", Logger(), controllers.Login)
	api.POST("/verify-token", Logger(), controllers.VerifyToken)
	api.POST("/refresh", Logger(), controllers.Refresh)
	api.POST("/logout", Logger(), controllers.Logout)

	// Fluxo de recuperação de senha (público, três passos)
	api.POST("/request-password-reset", Logger(), controllers.RequestPasswordReset)
	api.POST("/verify-reset-code", Logger(), controllers.VerifyResetCode)
	api.POST("/reset-password", Logger(), controllers.ResetPassword)

	// Autenticadas (barradas pelo gate)
	api.GET("/profile", Logger(), controllers.Profile)
	api.POST("/change-password", Logger(), controllers.ChangePassword)

	log.Printf("Routes initialized")
}
