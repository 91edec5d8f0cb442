package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/adimehta/skillbridge/internal/handlers"
	"github.com/adimehta/skillbridge/internal/middleware"
	"github.com/adimehta/skillbridge/internal/models"
	"github.com/adimehta/skillbridge/pkg/auth"
)

type routeDeps struct {
	jwtMgr *auth.JWTManager
	redis  *redis.Client
	auth   *handlers.AuthHandler
	user   *handlers.UserHandler
	task   *handlers.TaskHandler
	chat   *handlers.ChatHandler
	notif  *handlers.NotificationHandler
	ws     *handlers.WebSocketHandler
}

func APIEndpoints(r *gin.Engine, d *routeDeps) {
	authRequired := middleware.AuthMiddleware(d.jwtMgr, d.redis)
	msmeOnly := middleware.RequireRole(models.RoleMSME)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", d.auth.Register)
		authGroup.POST("/login", d.auth.Login)
		authGroup.POST("/logout", authRequired, d.auth.Logout)
	}

	// Realtime channel; token accepted via query parameter.
	r.GET("/ws", middleware.WSAuthMiddleware(d.jwtMgr, d.redis), d.ws.HandleWebSocket)

	api := r.Group("/api", authRequired)
	{
		api.GET("/users/me", d.user.GetMe)
		api.PUT("/users/me", d.user.UpdateMe)
		api.GET("/users/:id", d.user.GetUser)

		api.POST("/tasks", msmeOnly, d.task.CreateTask)
		api.GET("/tasks/:id", d.task.GetTask)
		api.POST("/tasks/:id/apply", studentOnly, d.task.ApplyForTask)
		api.GET("/tasks/:id/applicants", msmeOnly, d.task.GetTaskApplicants)
		api.POST("/tasks/:id/assign", msmeOnly, d.task.AssignTask)
		api.POST("/tasks/:id/submit", studentOnly, d.task.SubmitWork)
		api.POST("/tasks/:id/review", msmeOnly, d.task.ReviewWork)

		api.GET("/chat/:taskId", d.chat.GetChatHistory)

		api.GET("/notifications", d.notif.GetNotifications)
		api.PUT("/notifications/read-all", d.notif.MarkAllAsRead)
		api.PUT("/notifications/:id/read", d.notif.MarkAsRead)
	}
}
