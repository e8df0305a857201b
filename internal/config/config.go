package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// DatabaseURL selects the Postgres store when set; otherwise user
	// records live in the JSON file at UsersFile.
	DatabaseURL string
	UsersFile   string

	JWTSecret     string
	SessionExpiry time.Duration

	BaseURL     string
	CORSOrigins []string

	Google   GoogleConfig
	Apple    AppleConfig
	Facebook FacebookConfig
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

type AppleConfig struct {
	ClientID string
}

type FacebookConfig struct {
	AppID     string
	AppSecret string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionExpiry, err := time.ParseDuration(getEnv("SESSION_EXPIRY", "168h"))
	if err != nil {
		sessionExpiry = 168 * time.Hour
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		UsersFile:   getEnv("USERS_FILE", "users.json"),

		JWTSecret:     getEnvOrPanic("JWT_SECRET"),
		SessionExpiry: sessionExpiry,

		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		Apple: AppleConfig{
			ClientID: getEnv("APPLE_CLIENT_ID", ""),
		},
		Facebook: FacebookConfig{
			AppID:     getEnv("FACEBOOK_APP_ID", ""),
			AppSecret: getEnv("FACEBOOK_APP_SECRET", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GoogleRedirectURL is the fixed OAuth redirect target; Google sends the
// user-agent back to the same endpoint that started the flow.
func (c *Config) GoogleRedirectURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/auth/google"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
