package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingConfig — не заданы обязательные переменные окружения.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Port string

	SecretKey string
	DBURI     string

	MailServer   string
	MailPort     int
	MailUseTLS   bool
	MailUsername string
	MailPassword string
	MailSender   string
	EmailWorkers int

	SiteURL            string
	PasswordResetTTL   time.Duration
	SessionTTL         time.Duration
	SessionRememberTTL time.Duration
	CookieSecure       bool
	ProfilePicsDir     string
	CORSOrigins        []string

	Log      string
	LogLevel string
	LogDir   string
}

// Lookup — источник значений (os.LookupEnv в проде, map в тестах).
type Lookup func(key string) (string, bool)

// LoadConfig загружает .env и читает переменные окружения.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")
	return FromLookup(os.LookupEnv)
}

// FromLookup собирает конфиг; отсутствие любого обязательного ключа — фатальная ошибка.
func FromLookup(lookup Lookup) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	def := func(key, d string) string {
		if v := get(key); v != "" {
			return v
		}
		return d
	}

	var missing []string
	required := func(key string) string {
		v := get(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Port: def("PORT", "8080"),

		SecretKey: required("BLOG_SECRET_KEY"),
		DBURI:     required("BLOG_DB_URI"),

		MailServer:   def("MAIL_SERVER", "smtp.googlemail.com"),
		MailUsername: required("EMAIL_USER"),
		MailPassword: required("EMAIL_APP_PASS"),

		SiteURL:        strings.TrimRight(def("SITE_URL", "http://localhost:8080"), "/"),
		ProfilePicsDir: def("PROFILE_PICS_DIR", "static/profile_pics"),

		Log:      get("LOG"),
		LogLevel: strings.ToLower(def("LOGLEVEL", "info")),
		LogDir:   def("LOG_DIR", "logs"),
	}
	cfg.MailSender = def("MAIL_SENDER", cfg.MailUsername)

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	var err error
	if cfg.MailPort, err = strconv.Atoi(def("MAIL_PORT", "587")); err != nil {
		return nil, fmt.Errorf("MAIL_PORT: %w", err)
	}
	if cfg.MailUseTLS, err = strconv.ParseBool(def("MAIL_USE_TLS", "true")); err != nil {
		return nil, fmt.Errorf("MAIL_USE_TLS: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(def("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
	}
	if cfg.EmailWorkers, err = strconv.Atoi(def("EMAIL_WORKERS", "3")); err != nil || cfg.EmailWorkers < 1 {
		return nil, fmt.Errorf("EMAIL_WORKERS: must be a positive integer")
	}

	ttlMin, err := strconv.Atoi(def("PASSWORD_RESET_TTL_MIN", "30"))
	if err != nil || ttlMin <= 0 {
		return nil, fmt.Errorf("PASSWORD_RESET_TTL_MIN: must be a positive integer")
	}
	cfg.PasswordResetTTL = time.Duration(ttlMin) * time.Minute

	if cfg.SessionTTL, err = time.ParseDuration(def("SESSION_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.SessionRememberTTL, err = time.ParseDuration(def("SESSION_REMEMBER_TTL", "720h")); err != nil {
		return nil, fmt.Errorf("SESSION_REMEMBER_TTL: %w", err)
	}

	for _, o := range strings.Split(def("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// Validate возвращает предупреждения о некритичных проблемах.
func (c *Config) Validate() (warnings []string) {
	if len(c.SecretKey) < 32 {
		warnings = append(warnings, "BLOG_SECRET_KEY is shorter than 32 bytes")
	}
	if !c.MailUseTLS {
		warnings = append(warnings, "MAIL_USE_TLS is disabled, credentials are sent in clear text")
	}
	if !c.CookieSecure && strings.HasPrefix(c.SiteURL, "https://") {
		warnings = append(warnings, "COOKIE_SECURE is false while SITE_URL is https")
	}
	return warnings
}

// MailAddr — host:port SMTP-сервера.
func (c *Config) MailAddr() string {
	return fmt.Sprintf("%s:%d", c.MailServer, c.MailPort)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	at := strings.LastIndex(c.DBURI, "@")
	scheme := strings.Index(c.DBURI, "://")
	if at < 0 || scheme < 0 || scheme+3 > at {
		return c.DBURI
	}
	creds := c.DBURI[scheme+3 : at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		return c.DBURI[:scheme+3] + user + ":***" + c.DBURI[at:]
	}
	return c.DBURI
}
