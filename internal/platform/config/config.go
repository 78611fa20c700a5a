package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string
	RefreshTokenSecret         string

	// Ledger pricing. Commission is a fraction of the gross amount; prices
	// convert net currency into meter units.
	CommissionRate         decimal.Decimal
	ElectricityPricePerKwh decimal.Decimal
	WaterPricePerLiter     decimal.Decimal

	// Meter decay simulation.
	SimulationEnabled  bool
	SimulationInterval time.Duration
	AutoPurchaseAmount decimal.Decimal

	// External chatbot/search endpoint.
	ChatbotBaseURL string

	// CORS origins allowed to call the API with credentials. Empty means
	// allow all origins without credentials.
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "utility-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("COMMISSION_RATE", "0.05")
	viper.SetDefault("ELECTRICITY_PRICE_PER_KWH", "1.50")
	viper.SetDefault("WATER_PRICE_PER_LITER", "0.02")
	viper.SetDefault("SIMULATION_ENABLED", true)
	viper.SetDefault("SIMULATION_INTERVAL", "30s")
	viper.SetDefault("AUTO_PURCHASE_AMOUNT", "100.00")
	viper.SetDefault("CHATBOT_BASE_URL", "http://127.0.0.1:8000")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.JWTExpiryDuration = parseDurationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.RefreshTokenExpiryDuration = parseDurationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")
	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")

	cfg.CommissionRate = parseDecimalOrDefault("COMMISSION_RATE", "0.05")
	cfg.ElectricityPricePerKwh = parseDecimalOrDefault("ELECTRICITY_PRICE_PER_KWH", "1.50")
	cfg.WaterPricePerLiter = parseDecimalOrDefault("WATER_PRICE_PER_LITER", "0.02")

	cfg.SimulationEnabled = viper.GetBool("SIMULATION_ENABLED")
	cfg.SimulationInterval = parseDurationOrDefault("SIMULATION_INTERVAL", 30*time.Second)
	cfg.AutoPurchaseAmount = parseDecimalOrDefault("AUTO_PURCHASE_AMOUNT", "100.00")

	cfg.ChatbotBaseURL = viper.GetString("CHATBOT_BASE_URL")

	if origins := viper.GetString("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func parseDecimalOrDefault(key string, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return decimal.RequireFromString(fallback)
	}
	return d
}
