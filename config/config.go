package config

import (
	"fmt"
	"os"

	"backend/logger"
	"backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// GetEnv returns the value of the environment variable or a fallback.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_USER", "postgres"),
		GetEnv("DB_PASSWORD", "postgres"),
		GetEnv("DB_NAME", "macrobudget"),
		GetEnv("DB_PORT", "5432"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.MacroTargets{},
		&models.MealLogEntry{},
		&models.DayStateSnapshot{},
		&models.ControlModeTransition{},
		&models.Alert{},
	)
	if err != nil {
		logger.Error("AutoMigrate failed", "error", err)
		os.Exit(1)
	}
}
