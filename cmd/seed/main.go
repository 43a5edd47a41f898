package main

import (
	"context"
	"log"
	"os"

	"acquisition/internal/config"
	"acquisition/internal/db"
	apperrors "acquisition/internal/errors"
	"acquisition/internal/model"
	"acquisition/internal/repository"
	"acquisition/internal/service"
)

// Seeds the initial admin user. Safe to run repeatedly: an existing admin
// email is left untouched.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// The nil cache client behaves like an always-empty cache.
	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, nil)

	user, err := userService.Create(context.Background(), name, email, password, model.RoleAdmin)
	if err == apperrors.ErrEmailAlreadyExists {
		log.Printf("Admin user already exists: %s", service.NormalizeEmail(email))
		return
	}
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Admin user created: %s (id=%d)", user.Email, user.ID)
}
