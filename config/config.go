package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT          string
	DB_URL        string
	APP_ENV       string
	APP_URL       string
	CORS_ORIGIN   string
	LOG_FILE_PATH string

	JWT_SECRET          string
	AUTH_PROVIDER       string
	SUPABASE_URL        string
	SUPABASE_JWT_SECRET string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRODUCT_ID     string

	ZIPCODE_API_URL string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	LOG_FILE_PATH = getEnv("LOG_FILE_PATH", "logs/ooya-dx.log")

	AUTH_PROVIDER = getEnv("AUTH_PROVIDER", "neon")
	switch AUTH_PROVIDER {
	case "supabase":
		SUPABASE_URL = mustEnv("SUPABASE_URL")
		SUPABASE_JWT_SECRET = getEnv("SUPABASE_JWT_SECRET", "")
	default:
		JWT_SECRET = mustEnv("JWT_SECRET")
	}

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")
	STRIPE_PRODUCT_ID = getEnv("STRIPE_PRODUCT_ID", "")

	ZIPCODE_API_URL = getEnv("ZIPCODE_API_URL", "https://zipcloud.ibsnet.co.jp/api/search")
}

func IsProduction() bool {
	return APP_ENV == "production"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
