package routes

import (
	adminapi "formbuilder-app/internal/api/admin"
	authapi "formbuilder-app/internal/api/auth"
	formsapi "formbuilder-app/internal/api/forms"
	paymentsapi "formbuilder-app/internal/api/payments"
	templatesapi "formbuilder-app/internal/api/templates"
	usersapi "formbuilder-app/internal/api/users"
	"formbuilder-app/internal/app/http/middleware"
	"formbuilder-app/internal/domain/billing"
	"formbuilder-app/internal/domain/quota"
	"formbuilder-app/internal/infra/email"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the route handlers need; main wires it once.
type Deps struct {
	DB       *gorm.DB
	Payments *billing.Service
	Guard    *quota.Guard
	Mailer   *email.Mailer
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	authHandler := authapi.NewHandler(deps.DB, deps.Mailer)
	usersHandler := usersapi.NewHandler(deps.DB, deps.Payments.Ledger())
	formsHandler := formsapi.NewHandler(deps.DB, deps.Guard)
	templatesHandler := templatesapi.NewHandler(deps.DB)
	paymentsHandler := paymentsapi.NewHandler(deps.DB, deps.Payments)
	adminHandler := adminapi.NewHandler(deps.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public, sanitized
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.GET("/verify", authHandler.VerifyEmail)
	public.POST("/resend-verification", authHandler.ResendVerification)
	public.POST("/request-password-reset", authHandler.RequestPasswordReset)
	public.POST("/reset-password", authHandler.ResetPassword)

	public.POST("/auth/google", authHandler.GoogleTokenLogin)
	public.GET("/auth/google", authHandler.GoogleStart)
	public.GET("/auth/google/callback", authHandler.GoogleCallback)

	// Public form surface
	r.GET("/api/templates", templatesHandler.ListTemplates)
	r.GET("/api/templates/:id", templatesHandler.GetTemplate)
	r.GET("/api/forms/by-id/:id", formsHandler.GetForm)
	r.POST("/api/forms/:formId/responses",
		middleware.OptionalAuth(),
		middleware.CheckPlanLimit(deps.Guard, middleware.ActionSubmitResponse),
		formsHandler.SubmitResponse)

	r.GET("/api/payment/get-key", paymentsHandler.GetKey)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())

	auth.GET("/me", usersHandler.GetCurrentUser)
	auth.POST("/change-password", authHandler.ChangePassword)

	auth.POST("/api/forms",
		middleware.CheckPlanLimit(deps.Guard, middleware.ActionCreateForm),
		formsHandler.CreateForm)
	auth.GET("/api/forms", formsHandler.ListMyForms)
	auth.PUT("/api/forms/by-id/:id", formsHandler.UpdateForm)
	auth.DELETE("/api/forms/by-id/:id", formsHandler.DeleteForm)
	auth.GET("/api/forms/:formId/responses", formsHandler.ListResponses)
	auth.POST("/api/templates/:id/use", formsHandler.CloneTemplate)

	auth.POST("/api/payment/create-order", paymentsHandler.CreateOrder)
	auth.POST("/api/payment/verify", paymentsHandler.VerifyPayment)
	auth.GET("/api/payment/status", paymentsHandler.GetPlanStatus)
	auth.GET("/api/payments", paymentsHandler.GetPaymentHistory)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.ListAllUsers)
	admin.GET("/payments", adminHandler.ListAllPayments)
	admin.POST("/templates", templatesHandler.CreateTemplate)
}
