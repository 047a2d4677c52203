package routes

import (
	"github.com/14kear/pollboard/internal/devapi/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, handler *handlers.AuthHandler) {
	{
		rg.POST("/auth/login", handler.Login)
		rg.POST("/auth/register", handler.Register)
		rg.POST("/auth/refresh", handler.Refresh)
		rg.POST("/auth/logout", handler.Logout)
		rg.GET("/auth/:provider/login", handler.OAuthLogin)
	}
}

// RegisterPublicRoutes expects the optional auth middleware on rg so that
// polls carry the caller's vote when there is one.
func RegisterPublicRoutes(rg *gin.RouterGroup, handler *handlers.PollingHandler) {
	{
		rg.GET("/polls/active", handler.ActivePolls)
		rg.GET("/polls/finished", handler.FinishedPolls)
		rg.GET("/polls/recent", handler.RecentPolls)
		rg.GET("/polls/by-user/:id", handler.UserPolls)
		rg.GET("/polls/:id", handler.GetPollByID)

		rg.GET("/polls/:id/comments", handler.GetComments)
	}
}

func RegisterPrivateRoutes(rg *gin.RouterGroup, handler *handlers.PollingHandler) {
	{
		rg.POST("/polls", handler.CreatePoll)
		rg.DELETE("/polls/:id", handler.DeletePoll)
		rg.POST("/polls/:id/vote", handler.Vote)

		rg.POST("/polls/:id/comments", handler.CreateComment)
		rg.DELETE("/polls/:id/comments/:commentID", handler.DeleteComment)

		rg.PUT("/users/profile", handler.UpdateProfile)
		rg.POST("/users/avatar", handler.UploadAvatar)
		rg.POST("/users/username", handler.SetUsername)
		rg.GET("/users/stats", handler.GetStats)
		rg.DELETE("/users", handler.DeleteAccount)
	}
}
