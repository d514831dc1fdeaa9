package router

import (
	"log"
	"strconv"
	"time"

	"referly/config"
	"referly/internal/domain"
	"referly/internal/handler"
	"referly/internal/middleware"
	"referly/internal/repository"
	"referly/internal/service"
	"referly/internal/ws"
	"referly/pkg/cloudinary"
	"referly/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider payment.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewLimiter(100, time.Minute)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	employerRepo := repository.NewEmployerRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	rechargeRepo := repository.NewRechargeRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	if err := settingRepo.SeedDefaults(map[string]string{
		domain.SettingMinRewardCents:     strconv.FormatInt(cfg.Referral.MinRewardCents, 10),
		domain.SettingMaxRewardCents:     strconv.FormatInt(cfg.Referral.MaxRewardCents, 10),
		domain.SettingMinWithdrawalCents: "10000",
	}); err != nil {
		log.Printf("[router] seeding settings failed: %v", err)
	}

	chatHub := ws.NewChatHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)
	walletSvc := service.NewWalletService(db)
	referralSvc := service.NewReferralService(referralRepo, walletRepo, walletSvc, notifSvc,
		cfg.Referral.MinRewardCents, cfg.Referral.MaxRewardCents)
	rechargeSvc := service.NewRechargeService(rechargeRepo, walletSvc, notifSvc, provider, cfg.Payment.OrderExpiry)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, walletSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, walletSvc, auditRepo)
	meHandler := handler.NewMeHandler(userRepo, employerRepo)
	uploadHandler := handler.NewUploadHandler(cloud, userRepo)
	jobHandler := handler.NewJobHandler(jobRepo, employerRepo)
	appHandler := handler.NewApplicationHandler(appRepo, jobRepo, userRepo, notifSvc)
	referralHandler := handler.NewReferralHandler(referralSvc, referralRepo)
	walletHandler := handler.NewWalletHandler(walletSvc, walletRepo)
	rechargeHandler := handler.NewRechargeHandler(rechargeSvc, rechargeRepo)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalRepo, settingRepo, walletSvc, notifSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(rechargeSvc, provider)
	messageHandler := handler.NewMessageHandler(msgRepo, userRepo, chatHub, notifSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(adminRepo, settingRepo, withdrawalRepo, auditRepo, walletSvc, notifSvc, authSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RouteLimit(10, time.Minute))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.PUT("/employer-profile", meHandler.UpsertEmployerProfile)
			me.PUT("/fcm-token", meHandler.UpdateFCMToken)
			me.POST("/avatar", uploadHandler.UploadAvatar)
			me.POST("/resume", uploadHandler.UploadResume)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", jobHandler.List)
			jobs.GET("/:id", jobHandler.Get)
			jobs.POST("", authMw, middleware.RequirePermission(domain.PermPostJobs), jobHandler.Create)
			jobs.GET("/mine", authMw, middleware.RequirePermission(domain.PermPostJobs), jobHandler.ListMine)
			jobs.PATCH("/:id", authMw, middleware.RequirePermission(domain.PermPostJobs), jobHandler.Update)
			jobs.DELETE("/:id", authMw, middleware.RequirePermission(domain.PermPostJobs), jobHandler.Delete)
			jobs.POST("/:id/apply", authMw, middleware.RequirePermission(domain.PermApplyJobs), appHandler.Apply)
			jobs.GET("/:id/applications", authMw, middleware.RequirePermission(domain.PermPostJobs), appHandler.ListForJob)
		}
		api.GET("/applications", authMw, appHandler.ListMine)
		api.PATCH("/applications/:id/status", authMw, middleware.RequirePermission(domain.PermPostJobs), appHandler.UpdateStatus)

		referrals := api.Group("/referrals")
		referrals.Use(authMw)
		{
			referrals.GET("", referralHandler.ListOpen)
			referrals.POST("", middleware.RequirePermission(domain.PermPostReferrals), referralHandler.Create)
			referrals.GET("/mine", referralHandler.ListMine)
			referrals.GET("/claimed", referralHandler.ListClaimed)
			referrals.GET("/:id", referralHandler.Get)
			referrals.POST("/:id/claim", middleware.RequirePermission(domain.PermClaimReferrals), referralHandler.Claim)
			referrals.POST("/:id/complete", referralHandler.Complete)
			referrals.POST("/:id/cancel", referralHandler.Cancel)
		}

		wallet := api.Group("/wallet")
		wallet.Use(authMw, middleware.RequirePermission(domain.PermUseWallet))
		{
			wallet.GET("", walletHandler.GetWallet)
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.GET("/withdrawable", walletHandler.GetWithdrawable)
			wallet.GET("/transactions", walletHandler.ListTransactions)
			wallet.GET("/holds", walletHandler.ListHolds)
			wallet.POST("/debit", walletHandler.Debit)
			wallet.POST("/recharge/create-order", rechargeHandler.CreateOrder)
			wallet.POST("/recharge/verify", middleware.RouteLimit(30, time.Minute), rechargeHandler.Verify)
			wallet.GET("/recharge/history", rechargeHandler.History)
			wallet.POST("/withdraw", middleware.RequirePermission(domain.PermWithdraw), withdrawalHandler.Request)
			wallet.GET("/withdrawals", withdrawalHandler.History)
		}

		api.POST("/webhooks/payment", middleware.RouteLimit(120, time.Minute), webhookHandler.Handle)

		messages := api.Group("/conversations")
		messages.Use(authMw)
		{
			messages.POST("", middleware.RequirePermission(domain.PermMessage), messageHandler.Start)
			messages.GET("", messageHandler.ListConversations)
			messages.GET("/:id/messages", messageHandler.ListMessages)
			messages.POST("/:id/messages", middleware.RequirePermission(domain.PermMessage), messageHandler.Send)
			messages.POST("/:id/read", messageHandler.MarkRead)
		}
		api.GET("/ws/conversations/:id", handler.UpgradeChatWS(&cfg.JWT, chatHub, msgRepo))

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", middleware.RouteLimit(10, time.Minute), adminHandler.Login)
			adminAuth := admin.Group("")
			adminAuth.Use(authMw, middleware.AdminRequired())
			{
				adminAuth.GET("/dashboard", adminHandler.Dashboard)
				adminAuth.GET("/users", adminHandler.ListUsers)
				adminAuth.PATCH("/users/:id/wallet-status", adminHandler.SetWalletStatus)
				adminAuth.GET("/withdrawals", adminHandler.ListWithdrawals)
				adminAuth.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
				adminAuth.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
				adminAuth.GET("/settings", adminHandler.GetSettings)
				adminAuth.PUT("/settings", adminHandler.UpdateSetting)
				adminAuth.GET("/audit-logs", adminHandler.ListAuditLogs)
			}
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "data": gin.H{"status": "ok"}})
	})

	return r
}
