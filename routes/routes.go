package routes

import (
	"net/http"
	"time"

	"elanis/handlers"
	"elanis/middleware"
	"elanis/models"
	"elanis/services/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration, login and logout.
func RegisterAuthRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/logout", middleware.JWTAuthMiddleware(authSvc), h.Logout)
	}
}

// RegisterRequestRoutes registers the service-request lifecycle endpoints.
func RegisterRequestRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	api := r.Group("/api/requests")
	api.Use(middleware.JWTAuthMiddleware(authSvc))
	{
		api.POST("", h.CreateRequest)
		api.GET("/mine", h.ListMyRequests)
		api.GET("/:id", h.GetRequest)
		api.POST("/:id/cancel", h.CancelRequest)

		provider := api.Group("")
		provider.Use(middleware.RequireRole(models.RoleProvider))
		provider.GET("/assigned", h.ListAssignedRequests)
		provider.PUT("/:id/response", h.RespondToRequest)
		provider.POST("/:id/start", h.StartRequest)
		provider.POST("/:id/complete", h.CompleteRequest)
	}
}

// RegisterPaymentRoutes registers checkout and the gateway webhook. The
// webhook endpoint is unauthenticated; the signature check is its gate.
func RegisterPaymentRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	r.POST("/api/payments/webhook", h.StripeWebhook)

	api := r.Group("/api/payments")
	api.Use(middleware.JWTAuthMiddleware(authSvc))
	{
		api.POST("/create-checkout", h.CreateCheckout)
		api.GET("/request/:id", h.GetPayment)
	}
}

// RegisterReviewRoutes registers review submission and reads.
func RegisterReviewRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	api := r.Group("/api/reviews")
	{
		api.GET("/provider/:id", h.GetProviderReviews)
		api.GET("/request/:id", h.GetRequestReview)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(authSvc))
		protected.POST("", h.CreateReview)
		protected.GET("/mine", h.GetMyReviews)
	}
}

// RegisterProviderRoutes registers provider discovery, applications and
// calendars.
func RegisterProviderRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	api := r.Group("/api/providers")
	{
		api.GET("", h.ListProviders)
		api.GET("/:id", h.GetProvider)
		api.GET("/:id/calendar", h.GetProviderCalendar)
		api.GET("/:id/availability", h.CheckAvailability)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(authSvc))
		protected.POST("/apply", h.Apply)
		protected.GET("/application", h.MyApplication)
		protected.POST("/documents", h.UploadDocument)

		own := protected.Group("")
		own.Use(middleware.RequireRole(models.RoleProvider))
		own.PUT("/accepting", h.SetAccepting)
		own.POST("/availability", h.AddAvailability)
		own.POST("/availability/bulk", h.AddAvailabilityBulk)
		own.PUT("/availability/:date", h.UpdateAvailability)
		own.DELETE("/availability/:date", h.DeleteAvailability)
	}
}

// RegisterCatalogRoutes registers category and pricing reads.
func RegisterCatalogRoutes(r *gin.Engine, h *handlers.Handler) {
	api := r.Group("/api/categories")
	{
		api.GET("", h.ListCategories)
		api.GET("/:id/quote", h.GetQuote)
		api.GET("/:id/pricing", h.ListPricing)
	}
}

// RegisterAdminRoutes registers the moderation surface.
func RegisterAdminRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	api := r.Group("/api/admin")
	api.Use(middleware.JWTAuthMiddleware(authSvc), middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/applications", h.ListApplications)
		api.GET("/applications/:id", h.GetApplication)
		api.POST("/applications/:id/approve", h.ApproveApplication)
		api.POST("/applications/:id/reject", h.RejectApplication)

		api.GET("/providers", h.ListProviders)
		api.POST("/providers/:id/suspend", h.SuspendProvider)
		api.POST("/providers/:id/activate", h.ActivateProvider)

		api.POST("/pricing", h.CreatePricing)
		api.PUT("/pricing/:id", h.UpdatePricing)
		api.DELETE("/pricing/:id", h.DeactivatePricing)

		api.GET("/dashboard", h.Dashboard)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, authSvc auth.Service) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, h, authSvc)
	RegisterRequestRoutes(r, h, authSvc)
	RegisterPaymentRoutes(r, h, authSvc)
	RegisterReviewRoutes(r, h, authSvc)
	RegisterProviderRoutes(r, h, authSvc)
	RegisterCatalogRoutes(r, h)
	RegisterAdminRoutes(r, h, authSvc)
}
