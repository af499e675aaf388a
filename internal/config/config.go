package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppNews  = "news"
	AppNotes = "notes"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config хранит настройки одного приложения (ya_news или ya_note).
type Config struct {
	App      string         `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	News     NewsConfig     `mapstructure:"news"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

type AuthConfig struct {
	SecretKey     string        `mapstructure:"secret_key"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	LoginURL      string        `mapstructure:"login_url"`
	LoginRedirect string        `mapstructure:"login_redirect"`
	// LoginRate - допустимое число попыток входа в секунду с одного IP.
	LoginRate  float64 `mapstructure:"login_rate"`
	LoginBurst int     `mapstructure:"login_burst"`
}

type NewsConfig struct {
	CountOnHomePage int      `mapstructure:"count_on_home_page"`
	BadWords        []string `mapstructure:"bad_words"`
}

// FeedsConfig хранит список RSS-лент и интервал их опроса.
type FeedsConfig struct {
	URLs         []string      `mapstructure:"rss_feeds"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Workers      int           `mapstructure:"workers"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app", AppNews)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.session_ttl", "336h")
	v.SetDefault("auth.cookie_name", "sessionid")
	v.SetDefault("auth.login_url", "/auth/login/")
	v.SetDefault("auth.login_redirect", "/")
	v.SetDefault("auth.login_rate", 1.0)
	v.SetDefault("auth.login_burst", 5)
	v.SetDefault("news.count_on_home_page", 10)
	v.SetDefault("news.bad_words", []string{})
	v.SetDefault("feeds.rss_feeds", []string{})
	v.SetDefault("feeds.poll_interval", "5m")
	v.SetDefault("feeds.workers", 4)
	v.SetDefault("feeds.timeout", "10s")
	v.SetDefault("feeds.max_retries", 3)
	v.SetDefault("feeds.retry_delay", "2s")
	v.SetDefault("log.level", "info")
}

// Default возвращает конфигурацию со значениями по умолчанию, без файла и окружения.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// значения по умолчанию всегда декодируются
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LoadConfig читает JSON-файл по пути path и накладывает переменные окружения
// с префиксом YA_ (например, YA_DATABASE_URL). Пустой path - только окружение.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("YA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (cfg *Config) Validate() error {
	if cfg.App != AppNews && cfg.App != AppNotes {
		return fmt.Errorf("unknown app %q", cfg.App)
	}
	switch cfg.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Database.URL == "" {
			return errors.New("database url is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if len(cfg.Auth.SecretKey) < 16 {
		return errors.New("auth secret key must be at least 16 characters")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if !strings.HasPrefix(cfg.Auth.LoginURL, "/") {
		return fmt.Errorf("invalid login url: %s", cfg.Auth.LoginURL)
	}
	if cfg.News.CountOnHomePage < 1 {
		return errors.New("news count on home page must be ≥ 1")
	}
	if len(cfg.Feeds.URLs) > 0 {
		if cfg.Feeds.PollInterval < 5*time.Second {
			return errors.New("poll interval must be ≥ 5 seconds")
		}
		if cfg.Feeds.Workers < 1 {
			return errors.New("feed workers must be ≥ 1")
		}
	}
	for _, u := range cfg.Feeds.URLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	return nil
}
