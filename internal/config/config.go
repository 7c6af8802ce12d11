package config

import (
	"os"
	"strconv"
)

// Role lookup failure policies for the role resolver. Earlier portal builds
// disagreed on what to do when the profile read fails mid-session, so the
// behavior is an explicit setting instead of a guess.
const (
	RolePolicyDeny   = "deny"
	RolePolicyPicker = "picker"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	// PublicBaseURL is the externally reachable URL used in emailed links.
	PublicBaseURL string
	// TOTPIssuer is the issuer name shown in authenticator apps.
	TOTPIssuer string
	// RoleLookupFailurePolicy is RolePolicyDeny or RolePolicyPicker.
	RoleLookupFailurePolicy string
	// AppealLimit caps how many appeals a single student may file.
	AppealLimit int

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/pathguider?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		PublicBaseURL:           getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		TOTPIssuer:              getEnv("TOTP_ISSUER", "PathGuider"),
		RoleLookupFailurePolicy: getEnv("ROLE_LOOKUP_FAILURE_POLICY", RolePolicyDeny),
		AppealLimit:             getEnvInt("APPEAL_LIMIT", 2),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@pathguider.local"),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@pathguider.local"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin-change-me"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
