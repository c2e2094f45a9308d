package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/vkazmin/huddle/internal/config"
	"github.com/vkazmin/huddle/internal/handlers"
	"github.com/vkazmin/huddle/internal/middleware"
	"github.com/vkazmin/huddle/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	cfg config.Config,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	chatH *handlers.ChatHandler,
	uploadH *handlers.UploadHandler,
	wsH *handlers.WebSocketHandler,
) {
	r.POST("/register", authH.Register)
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)

	api := r.Group("/api", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/chats", chatH.CreateChat)
		api.GET("/chats", chatH.ListChats)
		api.POST("/upload/:chatId", uploadH.Upload)
	}

	// The realtime channel is admitted without token verification; the
	// client's claimed identity travels in the query string.
	r.GET("/ws", wsH.HandleWebSocket)

	r.Static("/uploads", cfg.UploadsDir)
}
