package config

import (
	"time"

	pkgconfig "github.com/plumehq/plume/pkg/config"
	"github.com/plumehq/plume/pkg/storage"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Timeline TimelineConfig
	Auth     AuthConfig
	Media    storage.Config
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string `mapstructure:"sslmode"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type TimelineConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Issuer   string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "plume")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/plume.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("cache.ttl", "20s")
	v.SetDefault("cache.sweep_interval", "60s")
	v.SetDefault("timeline.page_size", 10)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.issuer", "plume")
	v.SetDefault("media.backend", "local")
	v.SetDefault("media.local.base_path", "./data/media")
	v.SetDefault("media.s3.region", "us-east-1")
	v.SetDefault("media.s3.use_path_style", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	v.BindEnv("database.max_open_conns", "DB_MAX_OPEN_CONNS")
	v.BindEnv("database.conn_max_lifetime", "DB_CONN_MAX_LIFETIME")
	v.BindEnv("cache.ttl", "CACHE_TTL")
	v.BindEnv("cache.sweep_interval", "CACHE_SWEEP_INTERVAL")
	v.BindEnv("timeline.page_size", "TIMELINE_PAGE_SIZE")
	v.BindEnv("auth.secret", "AUTH_SECRET")
	v.BindEnv("auth.token_ttl", "AUTH_TOKEN_TTL")
	v.BindEnv("auth.issuer", "AUTH_ISSUER")
	v.BindEnv("media.backend", "MEDIA_BACKEND")
	v.BindEnv("media.local.base_path", "MEDIA_BASE_PATH")
	v.BindEnv("media.s3.endpoint", "MEDIA_S3_ENDPOINT")
	v.BindEnv("media.s3.region", "MEDIA_S3_REGION")
	v.BindEnv("media.s3.bucket", "MEDIA_S3_BUCKET")
	v.BindEnv("media.s3.access_key_id", "MEDIA_S3_ACCESS_KEY")
	v.BindEnv("media.s3.secret_access_key", "MEDIA_S3_SECRET_KEY")
	v.BindEnv("media.s3.use_path_style", "MEDIA_S3_PATH_STYLE")
	v.BindEnv("media.s3.public_url", "MEDIA_S3_PUBLIC_URL")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.pretty", "LOG_PRETTY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
