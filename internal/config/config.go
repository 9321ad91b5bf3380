package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chocolate-factory/storefront/internal/hash"
	"github.com/chocolate-factory/storefront/internal/models"
)

type Config struct {
	DB_HOST           string
	DB_PORT           string
	DB_USER           string
	DB_PASSWORD       string
	DB_NAME           string
	PORT              string
	JWT_SECRET        string
	STRIPE_SECRET_KEY string
	RAZORPAY_KEY_ID   string
	RAZORPAY_SECRET   string
	KAFKA_ADDRESS     string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	UPLOADS_DIR       string
	LOG_LEVEL         string
	ADMIN_NAME        string
	ADMIN_EMAIL       string
	ADMIN_PASSWORD    string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:           os.Getenv("DB_HOST"),
		DB_PORT:           os.Getenv("DB_PORT"),
		DB_USER:           os.Getenv("DB_USER"),
		DB_PASSWORD:       os.Getenv("DB_PASSWORD"),
		DB_NAME:           os.Getenv("DB_NAME"),
		PORT:              os.Getenv("PORT"),
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		STRIPE_SECRET_KEY: os.Getenv("STRIPE_SECRET_KEY"),
		RAZORPAY_KEY_ID:   os.Getenv("RAZORPAY_KEY_ID"),
		RAZORPAY_SECRET:   os.Getenv("RAZORPAY_SECRET"),
		KAFKA_ADDRESS:     os.Getenv("KAFKA_ADDRESS"),
		ES_URL:            os.Getenv("ES_URL"),
		ES_USER:           os.Getenv("ES_USER"),
		ES_PASSWORD:       os.Getenv("ES_PASSWORD"),
		UPLOADS_DIR:       os.Getenv("UPLOADS_DIR"),
		LOG_LEVEL:         os.Getenv("LOG_LEVEL"),
		ADMIN_NAME:        os.Getenv("ADMIN_NAME"),
		ADMIN_EMAIL:       os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD:    os.Getenv("ADMIN_PASSWORD"),
	}

	if config.PORT == "" {
		config.PORT = "8080"
	}
	if config.UPLOADS_DIR == "" {
		config.UPLOADS_DIR = "uploads"
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// SeedAdmin creates the admin account from env on first boot. A user that
// already holds the configured email is left untouched.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.ADMIN_EMAIL == "" || cfg.ADMIN_PASSWORD == "" {
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", cfg.ADMIN_EMAIL).First(&existing).Error; err == nil {
		return nil
	}

	pwHash, err := hash.HashPassword(cfg.ADMIN_PASSWORD)
	if err != nil {
		return fmt.Errorf("cannot hash admin password: %w", err)
	}

	name := cfg.ADMIN_NAME
	if name == "" {
		name = "Admin"
	}

	admin := models.User{
		Name:         name,
		Email:        cfg.ADMIN_EMAIL,
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}
	return db.Create(&admin).Error
}
