package main

import (
	"log"
	"net/http"

	_ "acquisition/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"acquisition/internal/auth"
	"acquisition/internal/cache"
	"acquisition/internal/config"
	"acquisition/internal/db"
	"acquisition/internal/handler"
	"acquisition/internal/model"
	"acquisition/internal/repository"
	"acquisition/internal/router"
	"acquisition/internal/service"
)

// @title Acquisition API
// @version 1.0
// @description User registration, authentication and management API with cookie-based JWT sessions.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	userService := service.NewUserService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, jwtService, cfg)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(e, jwtService, authHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
