package logger

import "os"

// LoggerConfig controls level, encoding and output of the application logger.
type LoggerConfig struct {
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json", "console"
	OutputFile string // "stdout", "stderr" or a file path
}

// DefaultConfig reads the logger configuration from environment variables.
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Format:     getEnv("LOG_FORMAT", "json"),
		OutputFile: getEnv("LOG_OUTPUT", "stdout"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
