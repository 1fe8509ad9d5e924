package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DBDriver             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	JWTTTL    time.Duration

	// VerifyPassword makes login compare the password hash. Off by default:
	// login only checks that the account exists.
	VerifyPassword bool

	EntryCacheTTL  time.Duration
	MaxUploadBytes int64
	Location       *time.Location
	LogLevel       string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DBDriver:             strings.ToLower(getenv("DB_DRIVER", "postgres")),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		VerifyPassword:       getenv("AUTH_VERIFY_PASSWORD", "false") == "true",
		LogLevel:             strings.ToLower(getenv("LOG_LEVEL", "info")),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var err error
	if cfg.JWTTTL, err = parseDuration("JWT_TTL", "168h"); err != nil {
		return Config{}, err
	}
	if cfg.EntryCacheTTL, err = parseDuration("ENTRY_CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}

	mb, err := strconv.ParseInt(getenv("MAX_UPLOAD_MB", "200"), 10, 64)
	if err != nil || mb <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_MB %q", os.Getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadBytes = mb << 20

	cfg.Location = time.Local
	if tz := getenv("DIARY_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DIARY_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if cfg.DatabaseURL, err = requireEnv("DATABASE_URL"); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func requireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("missing env: %s", key)
	}
	return v, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, os.Getenv(key))
	}
	return d, nil
}
