package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port           string
	Environment    string
	APIKey         string
	OutputFile     string
	NumSamples     int
	Seed           int64
	DataDir        string
	MaxPreviewRows int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		APIKey:         getEnv("API_KEY", ""),
		OutputFile:     getEnv("OUTPUT_FILE", "simulated_demand_data.csv"),
		NumSamples:     getEnvInt("NUM_SAMPLES", 5000),
		Seed:           getEnvInt64("SEED", 42),
		DataDir:        getEnv("DATA_DIR", "data"),
		MaxPreviewRows: getEnvInt("MAX_PREVIEW_ROWS", 1000),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt 整数の環境変数を取得（解析できない場合はデフォルト値）
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
