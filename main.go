package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elanis/config"
	"elanis/database"
	applicationRepoPkg "elanis/database/repository/application"
	availabilityRepoPkg "elanis/database/repository/availability"
	categoryRepoPkg "elanis/database/repository/category"
	paymentRepoPkg "elanis/database/repository/payment"
	pricingRepoPkg "elanis/database/repository/pricing"
	providerRepoPkg "elanis/database/repository/provider"
	requestRepoPkg "elanis/database/repository/request"
	reviewRepoPkg "elanis/database/repository/review"
	userRepoPkg "elanis/database/repository/user"
	"elanis/handlers"
	"elanis/middleware"
	"elanis/routes"
	"elanis/services/admin"
	"elanis/services/auth"
	"elanis/services/availability"
	"elanis/services/catalog"
	"elanis/services/notify"
	"elanis/services/payment"
	"elanis/services/provider"
	"elanis/services/request"
	"elanis/services/review"
	"elanis/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	stripe.Key = config.AppConfig.StripeKey

	uploader, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary uploader: %v", err)
	}

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	providerRepo := providerRepoPkg.NewMongoProviderRepo()
	applicationRepo := applicationRepoPkg.NewMongoApplicationRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	categoryRepo := categoryRepoPkg.NewMongoCategoryRepo()
	pricingRepo := pricingRepoPkg.NewMongoPricingRepo()
	requestRepo := requestRepoPkg.NewMongoServiceRequestRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// services.
	authService := &auth.DefaultAuthService{
		UserRepo:     userRepo,
		ProviderRepo: providerRepo,
		AuthCache:    utils.GetAuthCacheClient(),
		Logger:       logger,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		AvailRepo:    availabilityRepo,
		ProviderRepo: providerRepo,
		RequestRepo:  requestRepo,
		Cache:        utils.GetCacheClient(),
		Logger:       logger,
	}
	requestService := &request.DefaultRequestService{
		RequestRepo:  requestRepo,
		PricingRepo:  pricingRepo,
		CategoryRepo: categoryRepo,
		ProviderRepo: providerRepo,
		UserRepo:     userRepo,
		Availability: availabilityService,
		Logger:       logger,
	}
	paymentService := &payment.DefaultPaymentService{
		PaymentRepo: paymentRepo,
		RequestRepo: requestRepo,
		Checkout:    payment.StripeCheckoutClient{},
		Logger:      logger,
	}
	reviewService := &review.DefaultReviewService{
		ReviewRepo:   reviewRepo,
		RequestRepo:  requestRepo,
		ProviderRepo: providerRepo,
		UserRepo:     userRepo,
		Logger:       logger,
	}
	providerService := &provider.DefaultProviderService{
		ApplicationRepo: applicationRepo,
		ProviderRepo:    providerRepo,
		Uploader:        uploader,
		Logger:          logger,
	}
	catalogService := &catalog.DefaultCatalogService{
		CategoryRepo: categoryRepo,
		PricingRepo:  pricingRepo,
		Logger:       logger,
	}
	adminService := &admin.DefaultAdminService{
		ApplicationRepo: applicationRepo,
		ProviderRepo:    providerRepo,
		UserRepo:        userRepo,
		CategoryRepo:    categoryRepo,
		RequestRepo:     requestRepo,
		ReviewRepo:      reviewRepo,
		Mailer:          &notify.SMTPMailer{Logger: logger},
		Logger:          logger,
	}

	handler := &handlers.Handler{
		Auth:             authService,
		Requests:         requestService,
		Payments:         paymentService,
		Reviews:          reviewService,
		Providers:        providerService,
		Availability:     availabilityService,
		Catalog:          catalogService,
		Admin:            adminService,
		ProviderProfiles: providerRepo,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, handler, authService)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
}
