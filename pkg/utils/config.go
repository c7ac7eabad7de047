package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Stripe   StripeConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	SeatCacheTTL time.Duration
}

type BookingConfig struct {
	// HoldTimeout is how long an unpaid booking keeps its seats before the
	// expiry worker releases them.
	HoldTimeout        time.Duration
	MaxSeatsPerBooking int
	ReserveMaxRetries  int
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	SessionExpiry time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SEAT_CACHE_TTL_SECONDS", 5)
	viper.SetDefault("HOLD_TIMEOUT_MINUTES", 10)
	viper.SetDefault("MAX_SEATS_PER_BOOKING", 5)
	viper.SetDefault("RESERVE_MAX_RETRIES", 3)
	viper.SetDefault("STRIPE_SESSION_EXPIRY_MINUTES", 30)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:         viper.GetString("REDIS_ADDR"),
			Password:     viper.GetString("REDIS_PASS"),
			DB:           viper.GetInt("REDIS_DB"),
			SeatCacheTTL: time.Duration(viper.GetInt("SEAT_CACHE_TTL_SECONDS")) * time.Second,
		},
		Booking: BookingConfig{
			HoldTimeout:        time.Duration(viper.GetInt("HOLD_TIMEOUT_MINUTES")) * time.Minute,
			MaxSeatsPerBooking: viper.GetInt("MAX_SEATS_PER_BOOKING"),
			ReserveMaxRetries:  viper.GetInt("RESERVE_MAX_RETRIES"),
		},
		Stripe: StripeConfig{
			SecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
			SuccessURL:    viper.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:     viper.GetString("STRIPE_CANCEL_URL"),
			SessionExpiry: time.Duration(viper.GetInt("STRIPE_SESSION_EXPIRY_MINUTES")) * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
	}

	return config, nil
}
