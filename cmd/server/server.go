package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/adimehta/skillbridge/internal/config"
	"github.com/adimehta/skillbridge/internal/database"
	"github.com/adimehta/skillbridge/internal/handlers"
	"github.com/adimehta/skillbridge/internal/notifier"
	ws "github.com/adimehta/skillbridge/internal/websocket"
	"github.com/adimehta/skillbridge/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	Config *config.Config
	Hub    *ws.Hub
}

func NewServer() *Server {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	hub := ws.NewHub()
	go hub.Run()

	// The dispatcher works without the gateway (persisted-only
	// delivery); attaching it upgrades pushes to realtime.
	dispatcher := notifier.NewDispatcher(dbConn)
	dispatcher.AttachGateway(hub)

	chatEvents := handlers.NewChatEventHandler(dbConn, hub)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	userH := handlers.NewUserHandler(dbConn)
	taskH := handlers.NewTaskHandler(dbConn, dispatcher)
	chatH := handlers.NewChatHandler(dbConn)
	notificationH := handlers.NewNotificationHandler(dispatcher)
	wsH := handlers.NewWebSocketHandler(hub, chatEvents)

	router := gin.Default()
	APIEndpoints(router, &routeDeps{
		jwtMgr: jwtMgr,
		redis:  rdb,
		auth:   authH,
		user:   userH,
		task:   taskH,
		chat:   chatH,
		notif:  notificationH,
		ws:     wsH,
	})

	return &Server{
		Router: router,
		Config: cfg,
		Hub:    hub,
	}
}

func (s *Server) Run() {
	log.Printf("Server starting on port %s", s.Config.Port)
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
