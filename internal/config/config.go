package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Decision DecisionConfig
	Snapshot SnapshotConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	DecisionTTLSeconds int
}

// AuthConfig carries the static bearer token guarding the decision routes.
type AuthConfig struct {
	Token string
}

// DecisionConfig holds the default scoring parameters; requests may override
// them per call.
type DecisionConfig struct {
	WindowDays     int
	LeadTimeDays   int
	StorageDays    int
	NearMarginDays int
}

// SnapshotConfig points at the S3-compatible bucket used for CSV exports.
type SnapshotConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "mldash")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DECISION_TTL_SECONDS", 60)
		viper.SetDefault("AUTH_TOKEN", "")
		viper.SetDefault("DECISION_WINDOW_DAYS", 30)
		viper.SetDefault("DECISION_LEAD_TIME_DAYS", 7)
		viper.SetDefault("DECISION_STORAGE_DAYS", 60)
		viper.SetDefault("DECISION_NEAR_MARGIN_DAYS", 15)
		viper.SetDefault("SNAPSHOT_ENDPOINT", "")
		viper.SetDefault("SNAPSHOT_ACCESS_KEY", "")
		viper.SetDefault("SNAPSHOT_SECRET_KEY", "")
		viper.SetDefault("SNAPSHOT_BUCKET", "")
		viper.SetDefault("SNAPSHOT_REGION", "")
		viper.SetDefault("SNAPSHOT_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				DecisionTTLSeconds: viper.GetInt("CACHE_DECISION_TTL_SECONDS"),
			},
			Auth: AuthConfig{
				Token: viper.GetString("AUTH_TOKEN"),
			},
			Decision: DecisionConfig{
				WindowDays:     viper.GetInt("DECISION_WINDOW_DAYS"),
				LeadTimeDays:   viper.GetInt("DECISION_LEAD_TIME_DAYS"),
				StorageDays:    viper.GetInt("DECISION_STORAGE_DAYS"),
				NearMarginDays: viper.GetInt("DECISION_NEAR_MARGIN_DAYS"),
			},
			Snapshot: SnapshotConfig{
				Endpoint:  viper.GetString("SNAPSHOT_ENDPOINT"),
				AccessKey: viper.GetString("SNAPSHOT_ACCESS_KEY"),
				SecretKey: viper.GetString("SNAPSHOT_SECRET_KEY"),
				Bucket:    viper.GetString("SNAPSHOT_BUCKET"),
				Region:    viper.GetString("SNAPSHOT_REGION"),
				UseSSL:    viper.GetBool("SNAPSHOT_USE_SSL"),
			},
		}
	})

	return instance
}
