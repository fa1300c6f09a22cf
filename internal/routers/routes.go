package routers

import (
	"context"

	"propt-api-io/api/internal/auth"
	"propt-api-io/api/internal/container"
	"propt-api-io/api/internal/middleware"
	"propt-api-io/api/pkg/controllers"

	"github.com/gin-gonic/gin"
)

// InitRoute creates the gin engine with every /v1 route wired to the container's controllers.
func InitRoute(sc *container.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.CORS(sc.Config.AllowedOrigins))

	api := router.Group("/v1", middleware.ProptRateLimiter(sc.Redis, sc.Config.RateLimitTTL, sc.Config.RateLimitLimit))
	{
		api.GET("/ping", controllers.Ping)
		api.GET("/health", controllers.Health(map[string]controllers.HealthCheck{
			"mongo": func(ctx context.Context) error { return sc.Mongo.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return sc.Redis.Ping(ctx).Err() },
		}))

		secured := auth.Auth(sc.Tokens)
		admin := middleware.AdminOnly(sc.UserService)

		authRoutes(api, sc, secured)
		userRoutes(api, sc, secured, admin)
		propertyRoutes(api, sc, secured)
		agentRoutes(api, sc, secured, admin)
		verificationRoutes(api, sc, secured, admin)
		paymentRoutes(api, sc, secured, admin)
	}

	return router
}

func authRoutes(api *gin.RouterGroup, sc *container.ServiceContainer, secured gin.HandlerFunc) {
	uc := sc.UserController

	api.POST("/auth/register", uc.Register())
	api.POST("/auth/login", uc.Login())
	api.DELETE("/auth/logout", secured, uc.Logout())
	api.GET("/auth/me", secured, uc.Me())
}

func userRoutes(api *gin.RouterGroup, sc *container.ServiceContainer, secured, admin gin.HandlerFunc) {
	uc := sc.UserController

	users := api.Group("/users", secured, admin)
	users.GET("", uc.GetUsers())
	users.GET("/:id", uc.GetUser())
	users.PUT("/:id/role", uc.UpdateUserRole())
	users.PUT("/:id/status", uc.UpdateUserStatus())
}

func propertyRoutes(api *gin.RouterGroup, sc *container.ServiceContainer, secured gin.HandlerFunc) {
	pc := sc.PropertyController

	property := api.Group("/properties")
	property.GET("", pc.GetProperties())
	property.GET("/verified", pc.GetVerifiedProperties())
	property.GET("/:id", pc.GetProperty())
	{
		mine := property.Group("", secured)
		mine.POST("", pc.CreateProperty())
		mine.GET("/my-properties", pc.GetMyProperties())
		mine.PATCH("/:id", pc.UpdateProperty())
		mine.DELETE("/:id", pc.DeleteProperty())
		mine.POST("/:id/rate", pc.RateProperty())
	}
}

func agentRoutes(api *gin.RouterGroup, sc *container.ServiceContainer, secured, admin gin.HandlerFunc) {
	ac := sc.AgentController

	agent := api.Group("/agents")
	agent.GET("", ac.GetAgents())
	agent.GET("/verified", ac.GetVerifiedAgents())
	{
		mine := agent.Group("", secured)
		mine.POST("", ac.CreateAgent())
		mine.GET("/my-profile", ac.GetMyAgentProfile())
		mine.PATCH("/my-profile", ac.UpdateMyAgentProfile())
		mine.POST("/:id/rate", ac.RateAgent())
	}
	agent.GET("/:id", ac.GetAgent())
	{
		managed := agent.Group("", secured, admin)
		managed.PATCH("/:id", ac.UpdateAgent())
		managed.DELETE("/:id", ac.DeleteAgent())
		managed.PUT("/:id/verify", ac.VerifyAgent())
	}
}

func verificationRoutes(api *gin.RouterGroup, sc *container.ServiceContainer, secured, admin gin.HandlerFunc) {
	vc := sc.VerificationController

	verification := api.Group("/verification", secured)
	verification.POST("", vc.CreateVerificationRequest())
	verification.POST("/documents", vc.UploadDocuments())
	verification.GET("/my-requests", vc.GetMyVerificationRequests())
	verification.GET("/property/:propertyId", vc.GetPropertyVerificationRequests())
	verification.GET("/:id", vc.GetVerificationRequest())
	{
		review := verification.Group("", admin)
		review.GET("", vc.GetVerificationRequests())
		review.GET("/pending", vc.GetPendingVerificationRequests())
		review.PATCH("/:id", vc.UpdateVerificationRequest())
		review.POST("/:id/review", vc.BeginReview())
		review.POST("/:id/approve", vc.ApproveVerificationRequest())
		review.POST("/:id/reject", vc.RejectVerificationRequest())
		review.POST("/:id/reopen", vc.ReopenVerificationRequest())
		review.POST("/:id/documents", vc.SubmitDocuments())
		review.PUT("/:id/notes", vc.AnnotateVerificationRequest())
		review.DELETE("/:id", vc.DeleteVerificationRequest())
	}
}

func paymentRoutes(api *gin.RouterGroup, sc *container.ServiceContainer, secured, admin gin.HandlerFunc) {
	pc := sc.PaymentController

	payment := api.Group("/payments", secured)
	payment.POST("", pc.CreatePayment())
	payment.GET("/verification-request/:verificationRequestId", pc.GetPaymentsByVerificationRequest())
	payment.GET("/:id", pc.GetPayment())
	payment.POST("/:id/process", pc.ProcessPayment())
	payment.POST("/:id/fail", pc.MarkPaymentFailed())
	payment.POST("/:id/cancel", pc.CancelPayment())
	{
		managed := payment.Group("", admin)
		managed.GET("", pc.GetPayments())
		managed.GET("/stats", pc.GetPaymentStats())
		managed.PATCH("/:id", pc.UpdatePayment())
		managed.POST("/:id/refund", pc.RefundPayment())
		managed.DELETE("/:id", pc.DeletePayment())
	}
}
