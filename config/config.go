package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config returns the value of an environment variable, loading .env once
// for local development. Missing keys resolve to the empty string.
func Config(key string) string {
	godotenv.Load(".env")
	return os.Getenv(key)
}
