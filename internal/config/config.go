package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Billing   BillingConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	Debug        bool
	MaxIdleConns int
	MaxOpenConns int
}

// JWTConfig validates bearer tokens issued by the identity provider
type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level string
}

// BillingConfig controls invoice creation
type BillingConfig struct {
	// SupplierState is the store's GST registration state
	SupplierState string
	// InterStateIGST bills customers from another known state as IGST
	InterStateIGST bool
	// AtomicEnabled routes checkout through create_invoice_atomic first
	AtomicEnabled bool
	// InstallProcedure creates create_invoice_atomic at startup
	InstallProcedure bool
	IdempotencyTTL   time.Duration

	// IdempotencyRequired rejects checkouts sent without an Idempotency-Key
	IdempotencyRequired bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			Debug:        viper.GetBool("DB_DEBUG"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			Issuer: viper.GetString("JWT_ISSUER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Billing: BillingConfig{
			SupplierState:    viper.GetString("BILLING_SUPPLIER_STATE"),
			InterStateIGST:   viper.GetBool("BILLING_INTERSTATE_IGST"),
			AtomicEnabled:    viper.GetBool("BILLING_ATOMIC_ENABLED"),
			InstallProcedure: viper.GetBool("BILLING_INSTALL_PROCEDURE"),
			IdempotencyTTL:   time.Duration(viper.GetInt("BILLING_IDEMPOTENCY_TTL_HOURS")) * time.Hour,

			IdempotencyRequired: viper.GetBool("BILLING_IDEMPOTENCY_REQUIRED"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "pos-billing")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_billing")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_DEBUG", false)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BILLING_SUPPLIER_STATE", "")
	viper.SetDefault("BILLING_INTERSTATE_IGST", false)
	viper.SetDefault("BILLING_ATOMIC_ENABLED", true)
	viper.SetDefault("BILLING_INSTALL_PROCEDURE", true)
	viper.SetDefault("BILLING_IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("BILLING_IDEMPOTENCY_REQUIRED", false)
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
