package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes configuration values to the rest of the application.
// Handlers and services depend on this interface so tests can supply a
// minimal mock instead of a fully populated Config.
type Provider interface {
	GetServerAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetLogFormat() string
	GetLogLevel() string
	GetUserStore() string
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetRegistrationAPIURL() string
	GetRegistrationTimeout() time.Duration
	GetRegistrationCallbackURL() string
	GetEnforcePhone() bool
	GetProvidersFile() string
	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string
	GetRateLimitPerMinute() int
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr    string
	AppBaseURL    string
	SessionSecret string
	LogFormat     string
	LogLevel      string

	// UserStore selects the user repository backend: "memory" or "surreal".
	UserStore string
	DBUrl     string
	DBNs      string
	DBDb      string
	DBUser    string
	DBPass    string

	// RegistrationAPIURL points the page at a remote registration endpoint.
	// When empty, the in-process endpoint is used.
	RegistrationAPIURL      string
	RegistrationTimeout     time.Duration
	RegistrationCallbackURL string
	EnforcePhone            bool

	ProvidersFile string

	EmailProvider string
	EmailAPIKey   string
	EmailSender   string

	// RateLimitPerMinute caps form submissions per client IP.
	RateLimitPerMinute int
}

const (
	defaultServerAddr          = ":8080"
	defaultRegistrationTimeout = 10 * time.Second
	defaultCallbackURL         = "/home"
	defaultRateLimitPerMinute  = 30
	devSessionSecret           = "dev-only-session-secret-change-me"
)

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment without
// touching any .env file.
func FromEnv() *Config {
	cfg := &Config{
		ServerAddr:              getEnv("SERVER_ADDR", defaultServerAddr),
		AppBaseURL:              getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret:           os.Getenv("SESSION_SECRET"),
		LogFormat:               getEnv("LOG_FORMAT", "text"),
		LogLevel:                getEnv("LOG_LEVEL", "debug"),
		UserStore:               strings.ToLower(getEnv("USER_STORE", "memory")),
		DBUrl:                   os.Getenv("SURREAL_URL"),
		DBUser:                  os.Getenv("SURREAL_USER"),
		DBPass:                  os.Getenv("SURREAL_PASS"),
		DBNs:                    os.Getenv("SURREAL_NS"),
		DBDb:                    os.Getenv("SURREAL_DB"),
		RegistrationAPIURL:      os.Getenv("REGISTRATION_API_URL"),
		RegistrationTimeout:     getDuration("REGISTRATION_TIMEOUT", defaultRegistrationTimeout),
		RegistrationCallbackURL: getEnv("REGISTRATION_CALLBACK_URL", defaultCallbackURL),
		EnforcePhone:            getBool("REGISTRATION_ENFORCE_PHONE", false),
		ProvidersFile:           os.Getenv("AUTH_PROVIDERS_FILE"),
		EmailProvider:           getEnv("EMAIL_PROVIDER", "log"),
		EmailAPIKey:             os.Getenv("EMAIL_API_KEY"),
		EmailSender:             os.Getenv("EMAIL_SENDER"),
		RateLimitPerMinute:      getInt("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute),
	}

	if cfg.SessionSecret == "" && cfg.LogFormat != "json" {
		// Text logging means a development setup; production runs with JSON logs.
		cfg.SessionSecret = devSessionSecret
	}

	return cfg
}

// Validate reports configuration that would prevent the server from starting.
func (c *Config) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is not set"))
	}
	switch c.UserStore {
	case "memory":
	case "surreal":
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			errs = append(errs, errors.New("USER_STORE=surreal requires SURREAL_URL, SURREAL_NS and SURREAL_DB"))
		}
	default:
		errs = append(errs, errors.New("USER_STORE must be \"memory\" or \"surreal\", got "+strconv.Quote(c.UserStore)))
	}
	if c.RegistrationTimeout <= 0 {
		errs = append(errs, errors.New("REGISTRATION_TIMEOUT must be positive"))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) GetServerAddr() string                 { return c.ServerAddr }
func (c *Config) GetAppBaseURL() string                 { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string              { return c.SessionSecret }
func (c *Config) GetLogFormat() string                  { return c.LogFormat }
func (c *Config) GetLogLevel() string                   { return c.LogLevel }
func (c *Config) GetUserStore() string                  { return c.UserStore }
func (c *Config) GetDBURL() string                      { return c.DBUrl }
func (c *Config) GetDBNs() string                       { return c.DBNs }
func (c *Config) GetDBDb() string                       { return c.DBDb }
func (c *Config) GetDBUser() string                     { return c.DBUser }
func (c *Config) GetDBPass() string                     { return c.DBPass }
func (c *Config) GetRegistrationAPIURL() string         { return c.RegistrationAPIURL }
func (c *Config) GetRegistrationTimeout() time.Duration { return c.RegistrationTimeout }
func (c *Config) GetRegistrationCallbackURL() string    { return c.RegistrationCallbackURL }
func (c *Config) GetEnforcePhone() bool                 { return c.EnforcePhone }
func (c *Config) GetProvidersFile() string              { return c.ProvidersFile }
func (c *Config) GetEmailProvider() string              { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string                { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string                { return c.EmailSender }
func (c *Config) GetRateLimitPerMinute() int            { return c.RateLimitPerMinute }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Ignoring invalid boolean for %s: %q", key, v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Ignoring invalid integer for %s: %q", key, v)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Ignoring invalid duration for %s: %q", key, v)
	}
	return fallback
}
