package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Log         LogConfig
	Backend     BackendConfig
	Competition CompetitionConfig
	Cache       CacheConfig
	Storage     StorageConfig
	Email       EmailConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	// BasePath prefixes every API route, e.g. "/steps".
	BasePath       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level   string
	Format  string // json or text
	Enabled bool
}

// BackendConfig describes the hosted backend the data tier fronts.
type BackendConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

type CompetitionMode string

const (
	CompetitionModeInviteOnly CompetitionMode = "invite-only"
	CompetitionModePublic     CompetitionMode = "public"
)

type CompetitionConfig struct {
	Mode         CompetitionMode
	ContactEmail string
}

type CacheConfig struct {
	Backend        string // memory or redis
	DefaultTTL     time.Duration
	Namespace      string
	CoalesceMiss   bool
	QueryTTL       time.Duration
	AggregateTTL   time.Duration
	ReferenceTTL   time.Duration
	ProfileTTL     time.Duration
	LeaderboardTTL time.Duration
}

type StorageConfig struct {
	RootDir string
}

type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

type RateLimitConfig struct {
	DefaultRequestsPerMinute int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
			BasePath:       normalizeBasePath(getEnv("BASE_PATH", "")),
			AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "step_challenge"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "./migrations"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Enabled: getBoolEnv("LOGGING_ENABLED", true),
		},
		Backend: BackendConfig{
			URL:       getEnv("BACKEND_URL", "http://localhost:8080"),
			AnonKey:   getEnv("BACKEND_ANON_KEY", ""),
			JWTSecret: getEnvRequired("BACKEND_JWT_SECRET"),
		},
		Competition: CompetitionConfig{
			Mode:         CompetitionMode(getEnv("COMPETITION_MODE", string(CompetitionModePublic))),
			ContactEmail: getEnv("CONTACT_EMAIL", ""),
		},
		Cache: CacheConfig{
			Backend:        getEnv("CACHE_BACKEND", "memory"),
			DefaultTTL:     getDurationEnv("CACHE_DEFAULT_TTL", 30*time.Minute),
			Namespace:      getEnv("CACHE_NAMESPACE", "stepcache"),
			CoalesceMiss:   getBoolEnv("CACHE_COALESCE_MISSES", false),
			QueryTTL:       getDurationEnv("CACHE_QUERY_TTL", 5*time.Minute),
			AggregateTTL:   getDurationEnv("CACHE_AGGREGATE_TTL", 10*time.Minute),
			ReferenceTTL:   getDurationEnv("CACHE_REFERENCE_TTL", 60*time.Minute),
			ProfileTTL:     getDurationEnv("CACHE_PROFILE_TTL", 10*time.Minute),
			LeaderboardTTL: getDurationEnv("CACHE_LEADERBOARD_TTL", 5*time.Minute),
		},
		Storage: StorageConfig{
			RootDir: getEnv("STORAGE_ROOT", "./data/storage"),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("FROM_EMAIL", "noreply@example.com"),
			FromName:       getEnv("FROM_NAME", "Step Challenge"),
		},
		RateLimit: RateLimitConfig{
			DefaultRequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 120),
			BurstMultiplier:          getFloatEnv("RATE_LIMIT_BURST", 2.0),
			Window:                   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:                getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:user"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

// Validate rejects values the rest of the application cannot run with.
func (c *Config) Validate() error {
	switch c.Competition.Mode {
	case CompetitionModeInviteOnly, CompetitionModePublic:
	default:
		return fmt.Errorf("invalid COMPETITION_MODE %q: expected %q or %q", c.Competition.Mode, CompetitionModeInviteOnly, CompetitionModePublic)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: expected memory or redis", c.Cache.Backend)
	}
	return nil
}

func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
