package main

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/database"
	"github.com/nutricoach/backend/internal/service"
)

type testUser struct {
	name     string
	email    string
	password string
	username string
}

var testUsers = []testUser{
	{"Ana Pruebas", "ana@nutricoach.local", "test-password-1", "ana_test"},
	{"Bruno Pruebas", "bruno@nutricoach.local", "test-password-2", "bruno_test"},
	{"Carla Pruebas", "carla@nutricoach.local", "test-password-3", "carla_test"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	for _, u := range testUsers {
		if _, err := authService.Register(u.name, u.email, u.password, u.username); err != nil {
			if errors.Is(err, service.ErrUserExists) {
				log.Printf("Skipping %s (already exists)", u.email)
				continue
			}
			log.Fatalf("Failed to create %s: %v", u.email, err)
		}
		log.Printf("Created test user %s", u.email)
	}
}
