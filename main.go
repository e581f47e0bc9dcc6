package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ooya-dx/config"
	"ooya-dx/database"
	stripewebhooks "ooya-dx/internal/api/stripewebhook"
	routes "ooya-dx/internal/app/http"
	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/infra/identity"
	"ooya-dx/internal/infra/stripeapi"
	"ooya-dx/internal/infra/zipcode"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	log := logger.New(config.LOG_FILE_PATH, config.IsProduction())
	defer func() { _ = log.Sync() }()
	logger.Init(log)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(config.DB_URL, log)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := identity.New(ctx, identity.Options{
		Provider:          config.AUTH_PROVIDER,
		DB:                db,
		JWTSecret:         config.JWT_SECRET,
		SupabaseURL:       config.SUPABASE_URL,
		SupabaseJWTSecret: config.SUPABASE_JWT_SECRET,
	})
	if err != nil {
		log.Fatal("identity provider init failed", zap.String("provider", config.AUTH_PROVIDER), zap.Error(err))
	}

	stripeClient := stripeapi.New(config.STRIPE_SECRET_KEY)
	subs := subscriptions.NewStore(db)
	backfill := stripewebhooks.NewBackfiller(stripeClient, subs, stripewebhooks.DefaultBackfillPolicy, log)
	webhook := stripewebhooks.NewHandler(stripewebhooks.Options{
		Secret:   config.STRIPE_WEBHOOK_SECRET,
		Fetcher:  stripeClient,
		Store:    subs,
		Payments: billing.NewPaymentStore(db),
		Backfill: backfill,
		Log:      log,
	})

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Identity:  provider,
		Gateway:   stripeClient,
		Webhook:   webhook,
		Zipcode:   zipcode.NewClient(config.ZIPCODE_API_URL, &http.Client{Timeout: 5 * time.Second}),
		ProductID: config.STRIPE_PRODUCT_ID,
		AppURL:    config.APP_URL,
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("auth_provider", provider.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := backfill.Shutdown(shutdownCtx); err != nil {
		log.Warn("backfills still running at exit", zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
