package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jhonnyduque/designfolio/internal/app/controllers"
	"github.com/jhonnyduque/designfolio/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	inviteController *controllers.InviteController,
	profileController *controllers.ProfileController,
	workController *controllers.WorkController,
	feedController *controllers.FeedController,
	commentController *controllers.CommentController,
	moderationController *controllers.ModerationController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
		auth.GET("/google", authController.GoogleAuthURL)
		auth.POST("/google/callback", authController.GoogleCallback)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)

		// Claiming an invite after an OAuth signup needs the caller's identity
		auth.POST("/claim-invite", authMiddleware.JWTAuth(), authController.ClaimInvite)
		auth.POST("/logout", authMiddleware.JWTAuth(), authController.Logout)
	}

	// --- Public invite validation (pre-signup check) ---
	v1.POST("/invites/validate", inviteController.Validate)

	// --- Public browsing routes ---
	// OptionalJWTAuth lets these mark likedByMe and reveal an author's
	// own hidden works without requiring a token.
	public := v1.Group("")
	public.Use(authMiddleware.OptionalJWTAuth())
	{
		public.GET("/feed", feedController.List)
		public.GET("/works/:workId", workController.Get)
		public.GET("/works/:workId/comments", commentController.List)
		public.GET("/profiles/check-username", profileController.CheckUsername)
		public.GET("/profiles/:username", profileController.GetByUsername)
		public.GET("/profiles/:username/works", profileController.GetWorksByUsername)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.ActiveAccountRequired())
	{
		me := authenticated.Group("/me")
		{
			me.GET("", profileController.GetMe)
			me.PATCH("", profileController.UpdateMe)
			me.POST("/onboarding", profileController.CompleteOnboarding)
			me.POST("/avatar", profileController.UploadAvatar)
			me.GET("/works", workController.ListMine)
		}

		works := authenticated.Group("/works")
		{
			works.POST("", workController.Create)
			works.PATCH("/:workId", workController.Update)
			works.DELETE("/:workId", workController.Delete)
			works.POST("/:workId/resubmit", workController.Resubmit)
			works.POST("/:workId/archive", workController.Archive)
			works.POST("/:workId/like", workController.ToggleLike)
			works.POST("/:workId/comments", commentController.Create)
		}

		authenticated.DELETE("/comments/:commentId", commentController.Delete)

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.POST("/read", notificationController.MarkRead)
		}
	}

	// --- Founder routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.ActiveAccountRequired(), authMiddleware.FounderRequired())
	{
		admin.GET("/moderation/queue", moderationController.Queue)
		admin.POST("/works/:workId/moderate", moderationController.Moderate)
		admin.GET("/works/:workId/logs", moderationController.Logs)

		admin.GET("/works", workController.AdminList)
		admin.POST("/works/:workId/archive", workController.AdminArchive)
		admin.DELETE("/works/:workId", workController.AdminDelete)

		admin.GET("/users", profileController.ListUsers)
		admin.POST("/users/:userId/active", profileController.ToggleActive)

		admin.GET("/invites", inviteController.List)
		admin.POST("/invites", inviteController.Create)
	}
}
