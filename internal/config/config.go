package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"app_env"`
	Version        string   `mapstructure:"app_version"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	StaticDir      string   `mapstructure:"static_dir"`

	DatabaseURL  string         `mapstructure:"database_url"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
	StoreTimeout time.Duration  `mapstructure:"store_timeout"`

	RedisURL string `mapstructure:"redis_url"`

	VotingMode string `mapstructure:"voting_mode"`

	AdminJWTSecret string        `mapstructure:"admin_jwt_secret"`
	AdminTokenTTL  time.Duration `mapstructure:"admin_token_ttl"`

	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	v *viper.Viper
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DB              string        `mapstructure:"db"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	APIRequests     int           `mapstructure:"api_requests"`
	APIWindow       time.Duration `mapstructure:"api_window"`
	VoteRequests    int           `mapstructure:"vote_requests"`
	VoteWindow      time.Duration `mapstructure:"vote_window"`
	CommentRequests int           `mapstructure:"comment_requests"`
	CommentWindow   time.Duration `mapstructure:"comment_window"`
}

// Load reads .env, an optional config.yml and the process environment, in
// increasing order of precedence. Nested keys map to environment variables
// with dots replaced by underscores (log.level -> LOG_LEVEL).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{v: v}
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("static_dir", "")

	v.SetDefault("database_url", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "fanvote")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", "30m")
	v.SetDefault("postgres.conn_max_idle_time", "5m")
	v.SetDefault("store_timeout", "5s")

	v.SetDefault("redis_url", "")
	v.SetDefault("voting_mode", "quota")

	v.SetDefault("admin_jwt_secret", "")
	v.SetDefault("admin_token_ttl", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.api_requests", 100)
	v.SetDefault("rate_limit.api_window", "15m")
	v.SetDefault("rate_limit.vote_requests", 5)
	v.SetDefault("rate_limit.vote_window", "1m")
	v.SetDefault("rate_limit.comment_requests", 5)
	v.SetDefault("rate_limit.comment_window", "15m")
}

func (c *Config) Validate() error {
	switch c.VotingMode {
	case "quota", "open":
	default:
		return fmt.Errorf("invalid VOTING_MODE %q: expected quota or open", c.VotingMode)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	return nil
}

// DSN prefers DATABASE_URL and falls back to the POSTGRES_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return PostgresDSN(c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password, c.Postgres.DB)
}

func PostgresDSN(host, port, user, password, dbName string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins returns the CORS allowlist: the frontend URL plus any extra origins.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	if c.FrontendURL != "" {
		origins = append(origins, strings.TrimRight(c.FrontendURL, "/"))
	}
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	return origins
}

// WatchLogLevel re-applies log.level to logger whenever the config file
// changes. It is a no-op when no config file was loaded.
func (c *Config) WatchLogLevel(logger *logrus.Logger) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		level, err := logrus.ParseLevel(c.v.GetString("log.level"))
		if err != nil {
			logger.WithError(err).Warn("ignoring invalid log level from config file")
			return
		}
		logger.SetLevel(level)
		logger.WithFields(logrus.Fields{"file": e.Name, "level": level.String()}).Info("log level reloaded")
	})
	c.v.WatchConfig()
}
