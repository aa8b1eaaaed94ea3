package config

import (
	"os"
	"strconv"
)

// StampConfig holds overlay rendering settings.
// Label is the fixed stamp text; FontFile points to a TTF able to render it
// (the renderer falls back to a built-in font when it is missing).
type StampConfig struct {
	Label      string
	FontFile   string
	DateFormat string
}

// OutputConfig selects where persisted results go.
// Backend is either "dir" (local directory) or "s3" (MinIO-compatible bucket).
type OutputConfig struct {
	Backend string
	Dir     string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port   string
	Stamp  StampConfig
	Output OutputConfig
	MinIO  MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port: getEnv("PORT", "8080"), // default only for non-sensitive value
		Stamp: StampConfig{
			Label:      getEnv("STAMP_LABEL", "作業完了"),
			FontFile:   getEnv("STAMP_FONT_FILE", ""),
			DateFormat: getEnv("STAMP_DATE_FORMAT", "2006/01/02"),
		},
		Output: OutputConfig{
			Backend: getEnv("DEST_BACKEND", "dir"),
			Dir:     getEnv("OUTPUT_DIR", "processed"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
