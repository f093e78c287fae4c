package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Catalog
	OMDbURL    string
	OMDbAPIKey string

	// Server
	ServerPort string

	// Search
	SearchDebounce time.Duration // Delay before a keystroke triggers a catalog search

	// Paths
	DatabaseFile string // $CONFIG_DIR/watchlistarr.db
	SessionFile  string // $CONFIG_DIR/session.json

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("OMDB_URL", "https://www.omdbapi.com/")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SEARCH_DEBOUNCE_MS", 1000)
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "watchlistarr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		OMDbURL:    viper.GetString("OMDB_URL"),
		OMDbAPIKey: viper.GetString("OMDB_API_KEY"),

		ServerPort: viper.GetString("SERVER_PORT"),

		SearchDebounce: time.Duration(viper.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,

		DatabaseFile: filepath.Join(configDir, "watchlistarr.db"),
		SessionFile:  filepath.Join(configDir, "session.json"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if config.OMDbAPIKey == "" {
		return nil, fmt.Errorf("OMDB_API_KEY is required")
	}

	return config, nil
}
