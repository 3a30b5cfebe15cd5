package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port                string
	Env                 string
	LogLevel            string
	BookingStore        string
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool
	BookingTTL          time.Duration
	DatabaseURL         string
	Recognizer          string
	GeminiAPIKey        string
	GeminiModelID       string
	WorkdayStart        string
	WorkdayEnd          string
	AppointmentDuration time.Duration
	TitleSuffix         string
	CORSAllowedOrigins  []string
	OwnerCookie         string
	RateLimitRPS        float64
	RateLimitBurst      int
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		BookingStore:        strings.ToLower(strings.TrimSpace(getEnv("BOOKING_STORE", "memory"))),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		BookingTTL:          getEnvAsDuration("BOOKING_TTL", 720*time.Hour),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		Recognizer:          strings.ToLower(strings.TrimSpace(getEnv("RECOGNIZER", "rules"))),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:       getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		WorkdayStart:        getEnv("WORKDAY_START", "09:00"),
		WorkdayEnd:          getEnv("WORKDAY_END", "17:00"),
		AppointmentDuration: getEnvAsDuration("APPOINTMENT_DURATION", time.Hour),
		// Leading space is significant, so the raw value is used.
		TitleSuffix:        getEnv("TITLE_SUFFIX", " Appointment"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		OwnerCookie:        getEnv("OWNER_COOKIE", "reservation_owner"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
