package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StorageImageKit = "imagekit"
	StorageS3       = "s3"
	StorageNone     = "none"

	minSessionSecretLen = 32
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Auth     AuthConfig     `toml:"auth"`
	MySQL    MySQLConfig    `toml:"mysql"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Storage  StorageConfig  `toml:"storage"`
}

type AppConfig struct {
	Name     string `toml:"name"`
	Env      string `toml:"env"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	GinMode  string `toml:"gin_mode"`
	LogLevel string `toml:"log_level"`
}

type AuthConfig struct {
	SessionSecret      string `toml:"session_secret"`
	SessionMaxAgeHours int    `toml:"session_max_age_hours"`
	CookieName         string `toml:"cookie_name"`
	CookieSecure       bool   `toml:"cookie_secure"`
}

type MySQLConfig struct {
	// DSN, when set, wins over the individual fields.
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

// RedisConfig leaves Addr empty to run without the feed cache and the
// session revocation list.
type RedisConfig struct {
	Addr                string `toml:"addr"`
	Password            string `toml:"password"`
	DB                  int    `toml:"db"`
	FeedTTLSeconds      int    `toml:"feed_ttl_seconds"`
	FeedDirtyTTLSeconds int    `toml:"feed_dirty_ttl_seconds"`
}

type RabbitMQConfig struct {
	URL              string `toml:"url"`
	VideoEventsQueue string `toml:"video_events_queue"`
}

type StorageConfig struct {
	Provider string         `toml:"provider"`
	ImageKit ImageKitConfig `toml:"imagekit"`
	S3       S3Config       `toml:"s3"`
}

type ImageKitConfig struct {
	PublicKey           string `toml:"public_key"`
	PrivateKey          string `toml:"private_key"`
	URLEndpoint         string `toml:"url_endpoint"`
	SignatureTTLSeconds int    `toml:"signature_ttl_seconds"`
}

type S3Config struct {
	Region            string `toml:"region"`
	Bucket            string `toml:"bucket"`
	BaseEndpoint      string `toml:"base_endpoint"`
	AccessKey         string `toml:"access_key"`
	SecretKey         string `toml:"secret_key"`
	PresignTTLSeconds int    `toml:"presign_ttl_seconds"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails when a mandatory secret or connection setting is missing.
// Nothing in defaultConfig carries a credential, so a fresh checkout must be
// configured before it starts.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.SessionSecret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("auth.session_secret must be at least %d bytes (SESSION_SECRET)", minSessionSecretLen))
	}
	if c.Auth.SessionMaxAgeHours <= 0 {
		errs = append(errs, errors.New("auth.session_max_age_hours must be positive"))
	}
	if c.MySQL.DSN == "" {
		if c.MySQL.Host == "" || c.MySQL.User == "" || c.MySQL.DB == "" {
			errs = append(errs, errors.New("mysql.host, mysql.user and mysql.db are required (or MYSQL_DSN)"))
		}
	}

	switch c.Storage.Provider {
	case StorageImageKit:
		if c.Storage.ImageKit.PublicKey == "" || c.Storage.ImageKit.PrivateKey == "" {
			errs = append(errs, errors.New("storage.imagekit.public_key and private_key are required"))
		}
	case StorageS3:
		s3 := c.Storage.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKey == "" || s3.SecretKey == "" {
			errs = append(errs, errors.New("storage.s3.bucket, region, access_key and secret_key are required"))
		}
	case StorageNone:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.provider %q", c.Storage.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	if c.MySQL.DSN != "" {
		return c.MySQL.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Auth.SessionMaxAgeHours) * time.Hour
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "vidshare",
			Env:      "dev",
			Host:     "0.0.0.0",
			Port:     8080,
			GinMode:  "debug",
			LogLevel: "info",
		},
		Auth: AuthConfig{
			SessionMaxAgeHours: 30 * 24,
			CookieName:         "session-token",
		},
		MySQL: MySQLConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			DB:     "vidshare",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:                "127.0.0.1:6379",
			DB:                  0,
			FeedTTLSeconds:      60,
			FeedDirtyTTLSeconds: 5,
		},
		RabbitMQ: RabbitMQConfig{
			VideoEventsQueue: "video.events",
		},
		Storage: StorageConfig{
			Provider: StorageImageKit,
			ImageKit: ImageKitConfig{
				SignatureTTLSeconds: 30 * 60,
			},
			S3: S3Config{
				PresignTTLSeconds: 15 * 60,
			},
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.Auth.SessionSecret = getEnv("SESSION_SECRET", cfg.Auth.SessionSecret)
	cfg.Auth.SessionMaxAgeHours = getEnvAsInt("SESSION_MAX_AGE_HOURS", cfg.Auth.SessionMaxAgeHours)
	cfg.Auth.CookieName = getEnv("SESSION_COOKIE_NAME", cfg.Auth.CookieName)
	cfg.Auth.CookieSecure = getEnvAsBool("SESSION_COOKIE_SECURE", cfg.Auth.CookieSecure)

	cfg.MySQL.DSN = getEnv("MYSQL_DSN", cfg.MySQL.DSN)
	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.FeedTTLSeconds = getEnvAsInt("REDIS_FEED_TTL_SECONDS", cfg.Redis.FeedTTLSeconds)
	cfg.Redis.FeedDirtyTTLSeconds = getEnvAsInt("REDIS_FEED_DIRTY_TTL_SECONDS", cfg.Redis.FeedDirtyTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.VideoEventsQueue = getEnv("RABBITMQ_VIDEO_EVENTS_QUEUE", cfg.RabbitMQ.VideoEventsQueue)

	cfg.Storage.Provider = strings.ToLower(getEnv("STORAGE_PROVIDER", cfg.Storage.Provider))
	cfg.Storage.ImageKit.PublicKey = getEnv("IMAGEKIT_PUBLIC_KEY", cfg.Storage.ImageKit.PublicKey)
	cfg.Storage.ImageKit.PrivateKey = getEnv("IMAGEKIT_PRIVATE_KEY", cfg.Storage.ImageKit.PrivateKey)
	cfg.Storage.ImageKit.URLEndpoint = getEnv("IMAGEKIT_URL_ENDPOINT", cfg.Storage.ImageKit.URLEndpoint)
	cfg.Storage.ImageKit.SignatureTTLSeconds = getEnvAsInt("IMAGEKIT_SIGNATURE_TTL_SECONDS", cfg.Storage.ImageKit.SignatureTTLSeconds)
	cfg.Storage.S3.Region = getEnv("S3_REGION", cfg.Storage.S3.Region)
	cfg.Storage.S3.Bucket = getEnv("S3_BUCKET", cfg.Storage.S3.Bucket)
	cfg.Storage.S3.BaseEndpoint = getEnv("S3_BASE_ENDPOINT", cfg.Storage.S3.BaseEndpoint)
	cfg.Storage.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.Storage.S3.AccessKey)
	cfg.Storage.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.Storage.S3.SecretKey)
	cfg.Storage.S3.PresignTTLSeconds = getEnvAsInt("S3_PRESIGN_TTL_SECONDS", cfg.Storage.S3.PresignTTLSeconds)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
