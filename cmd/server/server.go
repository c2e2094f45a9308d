package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/vkazmin/huddle/internal/config"
	"github.com/vkazmin/huddle/internal/database"
	"github.com/vkazmin/huddle/internal/handlers"
	ws "github.com/vkazmin/huddle/internal/websocket"
	"github.com/vkazmin/huddle/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Hub    *ws.Hub
	Redis  *redis.Client
	cfg    config.Config
	log    zerolog.Logger
}

func NewServer(cfg config.Config, logger zerolog.Logger) (*Server, error) {
	db, err := database.Open(cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hub := ws.NewHub(logger)

	eventH := handlers.NewEventHandler(db, hub, logger)
	authH := handlers.NewAuthHandler(db, jwtMgr, rdb, logger)
	chatH := handlers.NewChatHandler(db, logger)
	wsH := handlers.NewWebSocketHandler(hub, eventH, logger)
	uploadH, err := handlers.NewUploadHandler(cfg.UploadsDir, cfg.MaxUploadBytes(), logger)
	if err != nil {
		return nil, fmt.Errorf("prepare uploads: %w", err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	APIEndpoints(router, cfg, jwtMgr, rdb, authH, chatH, uploadH, wsH)

	return &Server{
		Router: router,
		DB:     db,
		Hub:    hub,
		Redis:  rdb,
		cfg:    cfg,
		log:    logger,
	}, nil
}

func (s *Server) Run() error {
	go s.Hub.Run()
	defer s.Hub.Stop()

	s.log.Info().Str("addr", s.cfg.HTTPAddress()).Msg("server starting")
	return s.Router.Run(s.cfg.HTTPAddress())
}
