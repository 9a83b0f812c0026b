package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Catalog sources.
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceCSV      = "csv"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	Scheduler SchedulerConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the Redis backed course listing cache.
type CacheConfig struct {
	Enabled    bool
	CatalogTTL time.Duration
}

// CatalogConfig selects where the read-only course catalog is loaded from and how
// often the in-memory snapshot is rebuilt.
type CatalogConfig struct {
	Source          string
	CSVPath         string
	RefreshInterval time.Duration
	RefreshRetries  int
}

// SchedulerConfig tunes the schedule generation engine.
type SchedulerConfig struct {
	SearchTimeout     time.Duration
	DefaultMaxOptions int
	MaxOptions        int

	WeightMinuteOutside   float64
	WeightCourseWindowCap float64
	WeightDayOff          float64
	WeightInstructor      float64
}

// ExportsConfig configures stored schedule exports and their download links.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_CACHE"),
		CatalogTTL: parseDuration(v.GetString("CATALOG_CACHE_TTL"), 10*time.Minute),
	}

	source := strings.ToLower(strings.TrimSpace(v.GetString("CATALOG_SOURCE")))
	if source != CatalogSourceCSV {
		source = CatalogSourcePostgres
	}
	cfg.Catalog = CatalogConfig{
		Source:          source,
		CSVPath:         v.GetString("CATALOG_CSV_PATH"),
		RefreshInterval: parseDuration(v.GetString("CATALOG_REFRESH_INTERVAL"), 15*time.Minute),
		RefreshRetries:  v.GetInt("CATALOG_REFRESH_RETRIES"),
	}

	cfg.Scheduler = SchedulerConfig{
		SearchTimeout:         parseDuration(v.GetString("SCHEDULER_SEARCH_TIMEOUT"), 2*time.Second),
		DefaultMaxOptions:     v.GetInt("SCHEDULER_DEFAULT_OPTIONS"),
		MaxOptions:            v.GetInt("SCHEDULER_MAX_OPTIONS"),
		WeightMinuteOutside:   v.GetFloat64("SCHEDULER_WEIGHT_MINUTE_OUTSIDE"),
		WeightCourseWindowCap: v.GetFloat64("SCHEDULER_WEIGHT_COURSE_WINDOW_CAP"),
		WeightDayOff:          v.GetFloat64("SCHEDULER_WEIGHT_DAY_OFF"),
		WeightInstructor:      v.GetFloat64("SCHEDULER_WEIGHT_INSTRUCTOR"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), 15*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")

	v.SetDefault("CATALOG_SOURCE", CatalogSourcePostgres)
	v.SetDefault("CATALOG_CSV_PATH", "./data/catalog.csv")
	v.SetDefault("CATALOG_REFRESH_INTERVAL", "15m")
	v.SetDefault("CATALOG_REFRESH_RETRIES", 3)

	v.SetDefault("SCHEDULER_SEARCH_TIMEOUT", "2s")
	v.SetDefault("SCHEDULER_DEFAULT_OPTIONS", 5)
	v.SetDefault("SCHEDULER_MAX_OPTIONS", 20)
	v.SetDefault("SCHEDULER_WEIGHT_MINUTE_OUTSIDE", 0.25)
	v.SetDefault("SCHEDULER_WEIGHT_COURSE_WINDOW_CAP", 30.0)
	v.SetDefault("SCHEDULER_WEIGHT_DAY_OFF", 10.0)
	v.SetDefault("SCHEDULER_WEIGHT_INSTRUCTOR", 15.0)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "15m")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
