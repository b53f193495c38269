package config

import "os"

// Settings holds everything read from the environment at startup. The core
// pipeline receives what it needs as arguments; nothing below is consulted
// after initialization.
type Settings struct {
	Port string

	// Postgres
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Pathway template catalog
	TemplatesDir string

	// Auth
	JWTSecret     string
	SessionSecret string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func Load() Settings {
	return Settings{
		Port: getenv("PORT", "8080"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		TemplatesDir: getenv("TEMPLATES_DIR", "templates"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: getenv("SESSION_SECRET", "something-very-secret"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
