package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const SearchLimit = 10

// Settings collects every externally supplied knob in one place so nothing
// else in the codebase reads connection strings or secrets from module state.
type Settings struct {
	Port        string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddress string

	StorageProvider string
	UploadDir       string
	UploadBaseURL   string
	GCSBucket       string

	MaxUploadBytes int64
	ThumbnailSize  int

	PubSubTopic string

	TokenLifespan time.Duration
}

// LoadSettings reads the environment (plus an optional .env file) into an
// explicit Settings value. Call once from main and pass the result down.
func LoadSettings() *Settings {
	godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	s := &Settings{
		Port:        port,
		Environment: strings.TrimSpace(os.Getenv("GO_ENV")),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		RedisAddress: os.Getenv("REDIS_ADDRESS"),

		StorageProvider: strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_PROVIDER"))),
		UploadDir:       os.Getenv("UPLOAD_DIR"),
		UploadBaseURL:   os.Getenv("UPLOAD_BASE_URL"),
		GCSBucket:       os.Getenv("GCS_BUCKET"),

		MaxUploadBytes: int64FromEnv("MAX_UPLOAD_BYTES", 5*1024*1024),
		ThumbnailSize:  intFromEnv("THUMBNAIL_SIZE", 300),

		PubSubTopic: os.Getenv("PUBSUB_TOPIC"),

		TokenLifespan: time.Duration(intFromEnv("TOKEN_HOUR_LIFESPAN", 24)) * time.Hour,
	}
	if s.UploadDir == "" {
		s.UploadDir = "uploads"
	}
	if s.UploadBaseURL == "" {
		s.UploadBaseURL = "/uploads"
	}
	return s
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func int64FromEnv(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
