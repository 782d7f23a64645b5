package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	GameAddr string // TCP address of the game server
	APIURL   string // base URL of the HTTP API
	Output   string
	Verbose  bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		GameAddr: getEnvOrDefault("TTTGAME_ADDR", "localhost:5050"),
		APIURL:   getEnvOrDefault("TTTGAME_API", "http://localhost:8080"),
		Output:   "text",
		Verbose:  false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
