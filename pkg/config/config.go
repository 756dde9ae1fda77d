package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env
// and optionally from a .env file).
type Config struct {
	App     AppConfig
	DB      DBConfig
	HTTP    HTTPConfig
	Auth    AuthConfig
	Billing BillingConfig
	Notify  NotifyConfig
	Cache   CacheConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig PostgreSQL settings. If DatabaseURL is set it is used as the
// complete connection string (e.g. a Supabase DATABASE_URL).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // run SQL migrations at startup
}

// ConnectionString returns the DSN to use: DatabaseURL when set,
// otherwise the one built by DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string with URL encoding for
// special characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig static shared secret for the API gate.
type AuthConfig struct {
	APIKey string
}

// BillingConfig invoice numbering settings. Prefix must stay parseable
// by the fallback allocator (PREFIX-NNNN).
type BillingConfig struct {
	InvoicePrefix string
	NumberPadding int
}

// NotifyConfig post-create document delivery (chat-bot webhook).
// Empty URL disables delivery.
type NotifyConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// CacheConfig Redis-backed ledger statement cache. Empty Addr disables
// caching (a noop cache is wired instead).
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatementTTL  time.Duration
}

// Load reads configuration from environment variables and optionally
// from a .env file. Env vars win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gst-zen"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gst_zen"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Auth: AuthConfig{
			APIKey: getString(v, "API_KEY", ""),
		},
		Billing: BillingConfig{
			InvoicePrefix: getString(v, "BILLING_INVOICE_PREFIX", "INV"),
			NumberPadding: getInt(v, "BILLING_NUMBER_PADDING", 4),
		},
		Notify: NotifyConfig{
			WebhookURL: getString(v, "NOTIFY_WEBHOOK_URL", ""),
			Timeout:    time.Duration(getInt(v, "NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Cache: CacheConfig{
			RedisAddr:     getString(v, "REDIS_ADDR", ""),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
			StatementTTL:  time.Duration(getInt(v, "STATEMENT_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
