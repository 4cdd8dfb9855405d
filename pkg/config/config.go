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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
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

// RedisConfig configures the optional result cache.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CORSConfig lists browser origins allowed to call the API. Empty allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the timetable search and its result cache.
type SchedulerConfig struct {
	DefaultAttempts    int
	MaxAttempts        int
	Workers            int
	DaysPerWeek        int
	HoursPerDay        int
	MultiResourceRooms int
	WeightUnassigned   float64
	WeightWorkload     float64
	WeightGaps         float64
	ResultCacheTTL     time.Duration
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
		Enabled:  v.GetBool("REDIS_ENABLED"),
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

	cfg.Scheduler = SchedulerConfig{
		DefaultAttempts:    v.GetInt("SCHEDULER_DEFAULT_ATTEMPTS"),
		MaxAttempts:        v.GetInt("SCHEDULER_MAX_ATTEMPTS"),
		Workers:            v.GetInt("SCHEDULER_WORKERS"),
		DaysPerWeek:        v.GetInt("SCHEDULER_DAYS_PER_WEEK"),
		HoursPerDay:        v.GetInt("SCHEDULER_HOURS_PER_DAY"),
		MultiResourceRooms: v.GetInt("SCHEDULER_MULTI_RESOURCE_ROOMS"),
		WeightUnassigned:   v.GetFloat64("SCHEDULER_WEIGHT_UNASSIGNED"),
		WeightWorkload:     v.GetFloat64("SCHEDULER_WEIGHT_WORKLOAD"),
		WeightGaps:         v.GetFloat64("SCHEDULER_WEIGHT_GAPS"),
		ResultCacheTTL:     parseDuration(v.GetString("SCHEDULER_RESULT_CACHE_TTL"), 15*time.Minute),
	}
	if cfg.Scheduler.MaxAttempts <= 0 || cfg.Scheduler.MaxAttempts > 500 {
		cfg.Scheduler.MaxAttempts = 500
	}
	if cfg.Scheduler.DefaultAttempts <= 0 || cfg.Scheduler.DefaultAttempts > cfg.Scheduler.MaxAttempts {
		cfg.Scheduler.DefaultAttempts = cfg.Scheduler.MaxAttempts
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_DEFAULT_ATTEMPTS", 50)
	v.SetDefault("SCHEDULER_MAX_ATTEMPTS", 500)
	v.SetDefault("SCHEDULER_WORKERS", 0)
	v.SetDefault("SCHEDULER_DAYS_PER_WEEK", 5)
	v.SetDefault("SCHEDULER_HOURS_PER_DAY", 10)
	v.SetDefault("SCHEDULER_MULTI_RESOURCE_ROOMS", 2)
	v.SetDefault("SCHEDULER_WEIGHT_UNASSIGNED", 1000)
	v.SetDefault("SCHEDULER_WEIGHT_WORKLOAD", 1)
	v.SetDefault("SCHEDULER_WEIGHT_GAPS", 1)
	v.SetDefault("SCHEDULER_RESULT_CACHE_TTL", "15m")
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

// isMissingFile reports an absent .env file, which viper surfaces as a path error when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
