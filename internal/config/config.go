package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servidor.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Auth      AuthConfig      `json:"auth"`
	JWT       JWTConfig       `json:"jwt"`
	Session   SessionConfig   `json:"session"`
	Articles  ArticlesConfig  `json:"articles"`
	Redis     RedisConfig     `json:"redis"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

type ServerConfig struct {
	Address        string   `json:"address"`
	Mode           string   `json:"mode"`
	LogLevel       string   `json:"log_level"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// AuthConfig describe el único par de credenciales aceptado.
type AuthConfig struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordHash string `json:"password_hash"`
}

type JWTConfig struct {
	Secret     string        `json:"secret"`
	Expiration time.Duration `json:"expiration"`
}

type SessionConfig struct {
	Backend string        `json:"backend"`
	Secret  string        `json:"secret"`
	MaxAge  time.Duration `json:"max_age"`
	Secure  bool          `json:"secure"`
}

type ArticlesConfig struct {
	Source   string        `json:"source"`
	BaseURL  string        `json:"base_url"`
	FeedURL  string        `json:"feed_url"`
	Timeout  time.Duration `json:"timeout"`
	CacheTTL time.Duration `json:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

type SchedulerConfig struct {
	WarmInterval time.Duration `json:"warm_interval"`
}

const (
	BackendCookie = "cookie"
	BackendRedis  = "redis"

	SourceREST = "rest"
	SourceFeed = "feed"
)

const (
	defaultAddress       = ":8080"
	defaultMode          = "release"
	defaultLogLevel      = "info"
	defaultEmail         = "demo@qubicball.com"
	defaultPassword      = "demo123"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTExpiration = 24 * time.Hour
	defaultSessionSecret = "change-me-session-secret-32-bytes"
	defaultSessionMaxAge = 30 * 24 * time.Hour
	defaultBaseURL       = "https://jsonplaceholder.typicode.com"
	defaultTimeout       = 15 * time.Second
	defaultCacheTTL      = 1 * time.Minute
	defaultRedisAddr     = "localhost:6379"
	defaultRedisPrefix   = "postboard:session"
)

// ErrInvalid se devuelve cuando una combinación de valores no tiene sentido.
var ErrInvalid = errors.New("invalid configuration")

// Load construye la configuración a partir de variables de entorno con valores
// por defecto. Un .env en el directorio actual se carga primero; las variables
// ya definidas en el entorno tienen prioridad.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ No .env file loaded, using environment variables: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Address:        getenvDefault("SERVER_ADDRESS", defaultAddress),
			Mode:           getenvDefault("GIN_MODE", defaultMode),
			LogLevel:       getenvDefault("LOG_LEVEL", defaultLogLevel),
			AllowedOrigins: parseListDefault("CORS_ALLOWED_ORIGINS", nil),
		},
		Auth: AuthConfig{
			Email:        getenvDefault("AUTH_EMAIL", defaultEmail),
			Password:     getenvDefault("AUTH_PASSWORD", defaultPassword),
			PasswordHash: getenvDefault("AUTH_PASSWORD_HASH", ""),
		},
		JWT: JWTConfig{
			Secret:     getenvDefault("JWT_SECRET", defaultJWTSecret),
			Expiration: parseDurationDefault("JWT_EXPIRATION", defaultJWTExpiration),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(getenvDefault("SESSION_BACKEND", BackendCookie)),
			Secret:  getenvDefault("SESSION_SECRET", defaultSessionSecret),
			MaxAge:  parseDurationDefault("SESSION_MAX_AGE", defaultSessionMaxAge),
			Secure:  parseBoolDefault("SESSION_SECURE", false),
		},
		Articles: ArticlesConfig{
			Source:   strings.ToLower(getenvDefault("ARTICLES_SOURCE", SourceREST)),
			BaseURL:  strings.TrimRight(getenvDefault("ARTICLES_BASE_URL", defaultBaseURL), "/"),
			FeedURL:  getenvDefault("ARTICLES_FEED_URL", ""),
			Timeout:  parseDurationDefault("ARTICLES_TIMEOUT", defaultTimeout),
			CacheTTL: parseDurationDefault("ARTICLES_CACHE_TTL", defaultCacheTTL),
		},
		Redis: RedisConfig{
			Addr:     getenvDefault("REDIS_ADDR", defaultRedisAddr),
			Password: getenvDefault("REDIS_PASSWORD", ""),
			DB:       parseIntDefault("REDIS_DB", 0),
			Prefix:   getenvDefault("REDIS_PREFIX", defaultRedisPrefix),
		},
		Scheduler: SchedulerConfig{
			WarmInterval: parseDurationDefault("CACHE_WARM_INTERVAL", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate comprueba las combinaciones que Load no puede corregir por sí sola.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendCookie, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown SESSION_BACKEND %q", ErrInvalid, c.Session.Backend)
	}

	switch c.Articles.Source {
	case SourceREST:
		if c.Articles.BaseURL == "" {
			return fmt.Errorf("%w: ARTICLES_BASE_URL is required", ErrInvalid)
		}
	case SourceFeed:
		if c.Articles.FeedURL == "" {
			return fmt.Errorf("%w: ARTICLES_FEED_URL is required when ARTICLES_SOURCE=feed", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown ARTICLES_SOURCE %q", ErrInvalid, c.Articles.Source)
	}

	if c.Auth.Email == "" {
		return fmt.Errorf("%w: AUTH_EMAIL is required", ErrInvalid)
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return fmt.Errorf("%w: AUTH_PASSWORD or AUTH_PASSWORD_HASH is required", ErrInvalid)
	}

	// securecookie exige claves de hash de al menos 32 bytes
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("%w: SESSION_SECRET must be at least 32 bytes", ErrInvalid)
	}

	if c.Articles.Timeout <= 0 {
		c.Articles.Timeout = defaultTimeout
	}
	if c.Articles.CacheTTL < 0 {
		c.Articles.CacheTTL = 0
	}
	if c.JWT.Expiration <= 0 {
		c.JWT.Expiration = defaultJWTExpiration
	}
	if c.Session.MaxAge <= 0 {
		c.Session.MaxAge = defaultSessionMaxAge
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseBoolDefault(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseListDefault(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
