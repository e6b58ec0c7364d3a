package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"transit_admin/internal/models"
)

// LoadEnv loads .env if present; otherwise plain env vars apply.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, relying on env vars")
	}
}

// OpenDB opens the postgres connection from environment variables and hands
// the handle back to the caller. The handle is constructed once at process
// start and injected into the services; there is no package-global DB.
func OpenDB() (*gorm.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "transit")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every table the core owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.LineType{},
		&models.Line{},
		&models.Route{},
		&models.StopGroup{},
		&models.Stop{},
		&models.FullRoute{},
		&models.DepartureRoute{},
		&models.AdditionalStop{},
		&models.Timetable{},
		&models.User{},
	)
}

// CloseDB releases the underlying connection pool on shutdown.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ServerAddr returns the listen address for the HTTP server.
func ServerAddr() string {
	return getEnv("SERVER_ADDR", "0.0.0.0:8080")
}

// getEnv reads an environment variable or returns the provided default.
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
