package routes

import (
	"net/http"

	addressapi "ooya-dx/internal/api/address"
	adminapi "ooya-dx/internal/api/admin"
	authapi "ooya-dx/internal/api/auth"
	billingapi "ooya-dx/internal/api/billing"
	"ooya-dx/internal/api/calculators"
	plansapi "ooya-dx/internal/api/plans"
	propertiesapi "ooya-dx/internal/api/properties"
	stripewebhooks "ooya-dx/internal/api/stripewebhook"
	usersapi "ooya-dx/internal/api/users"
	"ooya-dx/internal/app/http/middleware"
	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/domain/properties"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/domain/users"
	"ooya-dx/internal/infra/identity"
	"ooya-dx/internal/infra/stripeapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	DB        *gorm.DB
	Identity  identity.Provider
	Gateway   stripeapi.Gateway
	Webhook   *stripewebhooks.Handler
	Zipcode   addressapi.Lookuper
	ProductID string
	AppURL    string
	Log       *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	subs := subscriptions.NewStore(d.DB)
	planStore := plans.NewStore(d.DB)
	payments := billing.NewPaymentStore(d.DB)

	authH := authapi.NewHandler(d.Identity, d.Log)
	usersH := usersapi.NewHandler(d.DB, subs, planStore)
	plansH := plansapi.NewHandler(planStore, d.Gateway, d.ProductID, d.Log)
	billingH := billingapi.NewHandler(billingapi.Options{
		DB:       d.DB,
		Gateway:  d.Gateway,
		Subs:     subs,
		Plans:    planStore,
		Payments: payments,
		AppURL:   d.AppURL,
		Log:      d.Log,
	})
	calcH := calculators.NewHandler(d.Log)
	addressH := addressapi.NewHandler(d.Zipcode, d.Log)
	propertiesH := propertiesapi.NewHandler(properties.NewStore(d.DB), d.Log)
	adminH := adminapi.NewHandler(d.DB, subs, payments)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stripe signs the raw body, so the webhook stays outside the sanitizer.
	r.POST("/api/stripe/webhook", d.Webhook.Handle)

	public := r.Group("/api")
	// Passwords are hashed or compared byte for byte, never rendered.
	public.Use(middleware.SanitizeAndCleanInputMiddleware("password"))

	public.POST("/auth/register", authH.Register)
	public.POST("/auth/login", authH.Login)
	public.GET("/plans", plansH.ListPlans)
	public.GET("/address", addressH.Search)
	calcH.Register(public.Group("/calc"))

	// Authenticated
	auth := public.Group("")
	auth.Use(middleware.AuthMiddleware(d.Identity, d.DB, d.Log))
	auth.GET("/me", usersH.GetCurrentUser)
	auth.POST("/billing/checkout", billingH.CreateCheckoutSession)
	auth.POST("/billing/portal", billingH.CreateBillingPortal)
	auth.GET("/billing/subscription", billingH.GetSubscription)
	auth.GET("/billing/payments", billingH.GetPaymentHistory)
	auth.POST("/billing/cancel", billingH.CancelSubscription)
	auth.POST("/billing/resume", billingH.ResumeSubscription)

	// Subscribed users
	subscribed := auth.Group("")
	subscribed.Use(middleware.RequireActiveSubscription(subs))
	subscribed.POST("/billing/change-plan", billingH.ChangePlan)

	subscribed.GET("/properties", propertiesH.ListProperties)
	subscribed.POST("/properties", propertiesH.CreateProperty)
	subscribed.GET("/properties/:id", propertiesH.GetProperty)
	subscribed.PUT("/properties/:id", propertiesH.UpdateProperty)
	subscribed.DELETE("/properties/:id", propertiesH.DeleteProperty)

	subscribed.GET("/simulations", propertiesH.ListSimulations)
	subscribed.POST("/simulations", propertiesH.CreateSimulation)
	subscribed.DELETE("/simulations/:id", propertiesH.DeleteSimulation)

	// Admin routes
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", adminH.ListAllUsers)
	admin.GET("/users/:id", adminH.GetUserDetails)
	admin.GET("/subscriptions", adminH.ListAllSubscriptions)
	admin.GET("/stats", adminH.GetAdminStats)
	admin.POST("/plans/sync", plansH.SyncPlansFromStripe)
}
