package router

import (
	"log"
	"time"

	"bayanihan/config"
	"bayanihan/internal/handler"
	"bayanihan/internal/middleware"
	"bayanihan/internal/repository"
	"bayanihan/internal/security"
	"bayanihan/internal/service"
	"bayanihan/pkg/cloudinary"
	"bayanihan/pkg/ninjavan"
	"bayanihan/pkg/notify"
	"bayanihan/pkg/stripe"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	bankRepo := repository.NewBankRepository(db)
	manualRepo := repository.NewManualPaymentRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ubiRepo := repository.NewUbiRepository(db)
	bulletinRepo := repository.NewBulletinRepository(db)
	academyRepo := repository.NewAcademyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	kycRepo := repository.NewKycRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// External clients
	stripeClient := stripe.New(cfg.Stripe.BaseURL, cfg.Stripe.APIKey, cfg.Stripe.RedirectAllowlist, cfg.Server.Env == "production")
	if stripeClient.IsConfigured() {
		log.Printf("[STRIPE] Card payments enabled")
	} else {
		log.Printf("[STRIPE] Card payments disabled: set STRIPE_API_KEY to enable")
	}

	var uploader service.Uploader = cloudinary.NoopUploader{}
	if cfg.Cloudinary.CloudName != "" {
		cloud, err := cloudinary.New(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Printf("[CLOUDINARY] Disabled: %v", err)
		} else {
			uploader = cloud
		}
	} else {
		log.Printf("[CLOUDINARY] Disabled: file references are local ids")
	}

	carrier := ninjavan.New(cfg.NinjaVan.BaseURL, cfg.NinjaVan.APIToken)
	if carrier.IsConfigured() {
		log.Printf("[NINJAVAN] Carrier shipping enabled")
	} else {
		log.Printf("[NINJAVAN] Carrier shipping disabled: set NINJAVAN_API_TOKEN to enable")
	}

	emailProviders := []service.EmailProvider{
		notify.NewSendgrid(cfg.Notifications.SendgridAPIKey, cfg.Notifications.SendgridFrom),
		notify.NewSMTP(cfg.Notifications.SMTPHost, cfg.Notifications.SMTPPort,
			cfg.Notifications.SMTPUser, cfg.Notifications.SMTPPassword, cfg.Notifications.SMTPFrom),
	}
	smsProviders := []service.SMSProvider{
		notify.NewTwilio(cfg.Notifications.TwilioSID, cfg.Notifications.TwilioToken, cfg.Notifications.TwilioFrom),
	}

	crypto := security.MustNew(cfg.Crypto.DataKey)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	paymentsSvc := service.NewPaymentsService(db, bankRepo, manualRepo, ledgerRepo)
	storeSvc := service.NewStoreService(db, productRepo, orderRepo, ledgerRepo, bankRepo, stripeClient.IsConfigured)
	ubiSvc := service.NewUbiService(db, ubiRepo, ledgerRepo)
	bulletinSvc := service.NewBulletinService(db, bulletinRepo)
	academySvc := service.NewAcademyService(academyRepo, uploader)
	eventSvc := service.NewEventService(eventRepo)
	kycSvc := service.NewKycService(kycRepo, crypto)
	shippingSvc := service.NewShippingService(shipmentRepo, orderRepo, carrier)
	notificationSvc := service.NewNotificationService(notificationRepo, emailProviders, smsProviders)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo, cfg.Server.Env != "production")
	ledgerHandler := handler.NewLedgerHandler(ledgerRepo)
	paymentsHandler := handler.NewPaymentsHandler(paymentsSvc)
	storeHandler := handler.NewStoreHandler(storeSvc)
	stripeHandler := handler.NewStripeHandler(stripeClient, storeSvc, orderRepo)
	ubiHandler := handler.NewUbiHandler(ubiSvc)
	bulletinHandler := handler.NewBulletinHandler(bulletinSvc)
	academyHandler := handler.NewAcademyHandler(academySvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	kycHandler := handler.NewKycHandler(kycSvc)
	shippingHandler := handler.NewShippingHandler(shippingSvc, uploader)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	adminHandler := handler.NewAdminHandler(userRepo)
	healthHandler := handler.NewHealthHandler(db)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()
	financeMw := middleware.RequireRole("admin", "finance")

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.GET("/me", authMw, authHandler.Me)
			authGroup.POST("/dev-token", authMw, authHandler.DevToken)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/balance", ledgerHandler.GetBalance)
			me.GET("/ledger", ledgerHandler.ListEntries)
			me.GET("/ubi-ledger", ubiHandler.MyLedger)
			me.GET("/payment-requests", paymentsHandler.ListMyRequests)
			me.GET("/orders", storeHandler.ListMyOrders)
			me.GET("/enrollments", academyHandler.MyEnrollments)
			me.GET("/registrations", eventHandler.MyRegistrations)
		}

		api.GET("/banks", paymentsHandler.ListBanks)
		api.GET("/banks/:code", paymentsHandler.GetBank)
		api.POST("/payment-requests", authMw, paymentsHandler.CreateManualRequest)

		api.GET("/products", storeHandler.ListProducts)
		orders := api.Group("/orders")
		orders.Use(authMw)
		{
			orders.POST("", storeHandler.CreateOrder)
			orders.GET("/:id/checkout", storeHandler.Checkout)
			orders.POST("/:id/settle", storeHandler.Settle)
		}
		stripeGroup := api.Group("/payments/stripe")
		stripeGroup.Use(authMw)
		{
			stripeGroup.POST("/checkout-session", stripeHandler.CreateCheckoutSession)
			stripeGroup.POST("/confirm", stripeHandler.Confirm)
		}

		api.GET("/ubi/programs", authMw, ubiHandler.ListPrograms)
		api.POST("/ubi/programs/:id/enroll", authMw, ubiHandler.Enroll)

		api.GET("/bulletins", bulletinHandler.List)
		api.GET("/bulletins/:id", authMw, bulletinHandler.Get)

		api.GET("/courses", academyHandler.ListCourses)
		api.GET("/courses/:id/cohorts", academyHandler.ListCohorts)
		api.POST("/cohorts/:id/enroll", authMw, academyHandler.Enroll)
		api.PATCH("/enrollments/:id/progress", authMw, academyHandler.UpdateProgress)

		api.GET("/events", eventHandler.List)
		api.POST("/events/:id/register", authMw, eventHandler.Register)
		api.POST("/events/:id/cancel", authMw, eventHandler.Cancel)

		api.POST("/kyc/applications", authMw, kycHandler.Apply)
		api.GET("/shipments/:id/tracking", authMw, shippingHandler.Track)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id/status", adminHandler.SetUserStatus)
			admin.POST("/users/:id/roles", adminHandler.AddRole)
			admin.DELETE("/users/:id/roles/:role", adminHandler.RemoveRole)
			admin.GET("/tiers", adminHandler.ListTiers)
			admin.PATCH("/users/:id/tier", adminHandler.SetUserTier)

			admin.PUT("/banks/:code/config", paymentsHandler.SetBankConfig)
			admin.PUT("/banks/config", paymentsHandler.SetBankConfigBulk)

			admin.POST("/products", storeHandler.CreateProduct)
			admin.PATCH("/products/:id", storeHandler.UpdateProduct)
			admin.PATCH("/products/:id/status", storeHandler.SetProductStatus)
			admin.PATCH("/products/:id/stock", storeHandler.SetProductStock)
			admin.POST("/orders/:id/fulfill", storeHandler.Fulfill)

			admin.POST("/ubi/programs", ubiHandler.CreateProgram)
			admin.POST("/ubi/programs/:id/cycles", ubiHandler.CreateCycle)
			admin.POST("/ubi/cycles/:id/compute", ubiHandler.ComputeCycle)
			admin.POST("/ubi/cycles/:id/submit", ubiHandler.SubmitCycle)
			admin.GET("/ubi/cycles/:id/payouts", ubiHandler.ListPayouts)

			admin.POST("/bulletins", bulletinHandler.Create)
			admin.PATCH("/bulletins/:id", bulletinHandler.Update)
			admin.POST("/bulletins/:id/publish", bulletinHandler.Publish)
			admin.POST("/bulletins/:id/unpublish", bulletinHandler.Unpublish)
			admin.POST("/bulletins/:id/revert", bulletinHandler.Revert)
			admin.GET("/bulletins/:id/versions", bulletinHandler.Versions)

			admin.POST("/courses", academyHandler.CreateCourse)
			admin.PATCH("/courses/:id", academyHandler.UpdateCourse)
			admin.PATCH("/courses/:id/status", academyHandler.SetCourseStatus)
			admin.POST("/courses/:id/cohorts", academyHandler.CreateCohort)
			admin.POST("/enrollments/:id/certificate", academyHandler.IssueCertificate)

			admin.POST("/events", eventHandler.Create)
			admin.PATCH("/events/:id/status", eventHandler.SetStatus)
			admin.POST("/events/:id/check-in", eventHandler.CheckIn)

			admin.GET("/kyc/applications", kycHandler.List)
			admin.GET("/kyc/applications/:id/decisions", kycHandler.ListDecisions)
			admin.PATCH("/kyc/applications/:id/status", kycHandler.SetStatus)

			admin.POST("/shipments", shippingHandler.Create)
			admin.POST("/shipments/carrier", shippingHandler.CreateCarrier)
			admin.PATCH("/shipments/:id/status", shippingHandler.SetStatus)
			admin.POST("/shipments/:id/events", shippingHandler.AddEvent)
			admin.POST("/shipments/:id/label", shippingHandler.UploadLabel)
			admin.POST("/shipments/:id/refresh-tracking", shippingHandler.RefreshTracking)

			admin.PUT("/notifications/templates", notificationHandler.UpsertTemplate)
			admin.GET("/notifications/templates", notificationHandler.ListTemplates)
			admin.POST("/notifications/send", notificationHandler.Send)
			admin.POST("/notifications/:id/retry", notificationHandler.Retry)
			admin.GET("/notifications/messages", notificationHandler.ListMessages)
		}

		finance := api.Group("/finance")
		finance.Use(authMw, financeMw)
		{
			finance.GET("/payment-requests", paymentsHandler.ListPendingRequests)
			finance.POST("/payment-requests/:id/review", paymentsHandler.ReviewRequest)
			finance.POST("/payment-requests/:id/approve", paymentsHandler.ApproveRequest)
			finance.POST("/payment-requests/:id/reject", paymentsHandler.RejectRequest)
			finance.POST("/ubi/cycles/:id/approve", ubiHandler.ApproveCycle)
		}
	}

	return r
}
