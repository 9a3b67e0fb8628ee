package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maticef/huddle/go/internal/fights"
)

// Config is the optional yaml config file. Every field has a sensible
// default so the server runs with no file at all.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Registry struct {
		LivenessWindowSeconds int    `yaml:"liveness_window_seconds"`
		MessageCap            int    `yaml:"message_cap"`
		CodeLength            int    `yaml:"code_length"`
		MapImage              string `yaml:"map_image"`
	} `yaml:"registry"`
	Fights fights.Schedule `yaml:"fights"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file; run on defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if config.Server.Port == 0 {
		config.Server.Port = getEnvAsInt("PORT", 8080)
	}
	if len(config.Fights) == 0 {
		config.Fights = fights.Default()
	}
	return &config, nil
}

func (c *Config) livenessWindow() time.Duration {
	return time.Duration(c.Registry.LivenessWindowSeconds) * time.Second
}
