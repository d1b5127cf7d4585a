package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// Upload limits.
	MaxUploadBytes int64

	// Derived asset targets. Both variants are re-encoded as JPEG.
	ThumbnailWidth   int
	ThumbnailHeight  int
	ThumbnailQuality int
	PreviewWidth     int
	PreviewHeight    int
	PreviewQuality   int

	// Cap on concurrent decode/resample work across uploads.
	DerivativeWorkers int

	IngestTimeout time.Duration
	SearchTimeout time.Duration

	MaxSearchRadiusMeters float64

	CORSOrigins string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "stonearchive-photos"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		MaxUploadBytes: getInt64Env("MAX_UPLOAD_BYTES", 20*1024*1024),

		ThumbnailWidth:   getIntEnv("THUMBNAIL_WIDTH", 150),
		ThumbnailHeight:  getIntEnv("THUMBNAIL_HEIGHT", 150),
		ThumbnailQuality: getIntEnv("THUMBNAIL_QUALITY", 85),
		PreviewWidth:     getIntEnv("PREVIEW_WIDTH", 800),
		PreviewHeight:    getIntEnv("PREVIEW_HEIGHT", 600),
		PreviewQuality:   getIntEnv("PREVIEW_QUALITY", 90),

		DerivativeWorkers: getIntEnv("DERIVATIVE_WORKERS", 4),

		IngestTimeout: getDurationEnv("INGEST_TIMEOUT", 30*time.Second),
		SearchTimeout: getDurationEnv("SEARCH_TIMEOUT", 5*time.Second),

		MaxSearchRadiusMeters: float64(getIntEnv("MAX_SEARCH_RADIUS_METERS", 50000)),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
