package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/handlers"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"go.uber.org/zap"
)

func NewRouter(h *handlers.Handler, authenticator middleware.Authenticator, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.AuthMiddleware(authenticator)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/documents/:document_id", requireAuth, h.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.CreateUser)
			auth.POST("/login", h.LoginUser)
			auth.POST("/refresh", h.RefreshToken)
			auth.POST("/logout", requireAuth, h.LogoutUser)
			auth.GET("/me", requireAuth, h.Me)
		}

		users := api.Group("/users")
		{
			users.GET("/:user_id", h.GetUser)
			users.GET("/:user_id/documents", h.ListUserDocuments)
			users.GET("/:user_id/comments", h.ListUserComments)
			users.PATCH("/:user_id", requireAuth, h.UpdateUser)
			users.PUT("/:user_id/profile-image", requireAuth, h.SetProfileImage)
			users.DELETE("/:user_id", requireAuth, h.DeleteUser)
		}

		documents := api.Group("/documents")
		{
			documents.POST("", requireAuth, h.CreateDocument)
			documents.GET("/:document_id", h.GetDocument)
			documents.DELETE("/:document_id", requireAuth, h.DeleteDocument)
			documents.POST("/:document_id/comments", requireAuth, h.CreateDocumentComment)

			documents.GET("/:document_id/likes", h.GetDocumentLikes)
			documents.POST("/:document_id/likes", requireAuth, h.LikeDocument)
			documents.DELETE("/:document_id/likes", requireAuth, h.UnlikeDocument)
		}

		comments := api.Group("/comments")
		{
			comments.POST("", requireAuth, h.CreateComment)
			comments.GET("/:comment_id", h.GetComment)
			comments.DELETE("/:comment_id", requireAuth, h.DeleteComment)
			comments.POST("/:comment_id/replies", requireAuth, h.CreateReply)

			comments.GET("/:comment_id/likes", h.GetCommentLikes)
			comments.POST("/:comment_id/likes", requireAuth, h.LikeComment)
			comments.DELETE("/:comment_id/likes", requireAuth, h.UnlikeComment)
		}

		files := api.Group("/files", requireAuth)
		{
			files.GET("", h.ListFiles)
			files.POST("", h.UploadFile)
			files.DELETE("/:file_id", h.DeleteFile)
		}
	}

	return r
}
