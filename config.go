// config.go
package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the environment-backed settings the server needs.
type Config struct {
	DatabasePath string
	SecretKey    string
	TemplateDir  string
	BindAddr     string
	CookieSecure bool
}

// loadConfig reads a .env file if present, then the environment, falling
// back to development defaults for everything except the secret key, which
// the caller must validate before turning on recovery tokens.
func loadConfig() Config {
	_ = godotenv.Load() // ok if missing in prod

	return Config{
		DatabasePath: getenv("DATABASE_PATH", "todos.db"),
		SecretKey:    os.Getenv("APP_SECRET_KEY"),
		TemplateDir:  getenv("TEMPLATE_DIR", "templates"),
		BindAddr:     ":" + getenv("PORT", "8080"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
