package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Payment       PaymentConfig       `mapstructure:"payment"`
	Redis         RedisConfig         `mapstructure:"redis"`
	RabbitMQ      RabbitMQConfig      `mapstructure:"rabbitmq"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Checkout      CheckoutConfig      `mapstructure:"checkout"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	BCryptCost          int           `mapstructure:"bcrypt_cost"`
}

// PaymentConfig holds the Razorpay credentials. An empty key pair is valid
// configuration: order creation then answers 503 instead of failing startup.
// Without a webhook secret the webhook endpoint is not mounted.
type PaymentConfig struct {
	RazorpayKeyID     string        `mapstructure:"razorpay_key_id"`
	RazorpayKeySecret string        `mapstructure:"razorpay_key_secret"`
	WebhookSecret     string        `mapstructure:"razorpay_webhook_secret"`
	Currency          string        `mapstructure:"currency"`
	MinAmount         int64         `mapstructure:"min_amount"`
	OrderTimeout      time.Duration `mapstructure:"order_timeout"`
}

type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type SchedulerConfig struct {
	Cron       string        `mapstructure:"cron"`
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
}

type CheckoutConfig struct {
	Port           int           `mapstructure:"port"`
	BackendURL     string        `mapstructure:"backend_url"`
	OrderTimeout   time.Duration `mapstructure:"order_timeout"`
	VerifyPayments bool          `mapstructure:"verify_payments"`
	BrandName      string        `mapstructure:"brand_name"`
	Description    string        `mapstructure:"description"`
	ThemeColor     string        `mapstructure:"theme_color"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultCurrency  = "INR"
	DefaultMinAmount = 100
)

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the configuration from plain environment variables,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTSecret:           getEnv("JWT_SECRET_KEY", ""),
			AccessTokenDuration: getEnvAsDuration("ACCESS_TOKEN_DURATION", 24*time.Hour),
			BCryptCost:          getEnvAsInt("BCRYPT_COST", 12),
		},
		Payment: PaymentConfig{
			RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret:     getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
			Currency:          getEnv("PAYMENT_CURRENCY", DefaultCurrency),
			MinAmount:         int64(getEnvAsInt("DONATION_MIN_AMOUNT", DefaultMinAmount)),
			OrderTimeout:      getEnvAsDuration("PAYMENT_ORDER_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", ""),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			KeyPrefix:       getEnv("REDIS_KEY_PREFIX", "ngo:rate_limit"),
			RateLimit:       getEnvAsInt("CREATE_ORDER_RATE_LIMIT", 5),
			RateLimitWindow: getEnvAsDuration("CREATE_ORDER_RATE_WINDOW", time.Minute),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "donation_events"),
		},
		Scheduler: SchedulerConfig{
			Cron:       getEnv("SCHEDULER_CRON", "@every 15m"),
			PendingTTL: getEnvAsDuration("PENDING_DONATION_TTL", 2*time.Hour),
		},
		Checkout: CheckoutConfig{
			Port:           getEnvAsInt("CHECKOUT_PORT", 8081),
			BackendURL:     getEnv("REACT_APP_BACKEND_URL", "http://localhost:8080/api"),
			OrderTimeout:   getEnvAsDuration("CHECKOUT_ORDER_TIMEOUT", 30*time.Second),
			VerifyPayments: getEnv("CHECKOUT_VERIFY_PAYMENTS", "true") == "true",
			BrandName:      getEnv("CHECKOUT_BRAND_NAME", "RIDS NGO"),
			Description:    getEnv("CHECKOUT_DESCRIPTION", "Donation"),
			ThemeColor:     getEnv("CHECKOUT_THEME_COLOR", "#c2410c"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values that have a sensible fallback.
func (c *Config) ApplyDefaults() {
	if c.Payment.Currency == "" {
		c.Payment.Currency = DefaultCurrency
	}
	if c.Payment.MinAmount <= 0 {
		c.Payment.MinAmount = DefaultMinAmount
	}
	if c.Payment.OrderTimeout <= 0 {
		c.Payment.OrderTimeout = 30 * time.Second
	}
	if c.Security.AccessTokenDuration <= 0 {
		c.Security.AccessTokenDuration = 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 12
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "donation_events"
	}
	if c.Scheduler.Cron == "" {
		c.Scheduler.Cron = "@every 15m"
	}
	if c.Scheduler.PendingTTL <= 0 {
		c.Scheduler.PendingTTL = 2 * time.Hour
	}
	if c.Checkout.OrderTimeout <= 0 {
		c.Checkout.OrderTimeout = 30 * time.Second
	}
	if c.Checkout.Port == 0 {
		c.Checkout.Port = 8081
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Payment.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("payment config: %v", err))
	}

	if err := c.Checkout.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("checkout config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits AllowedOrigins into trimmed entries.
func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return errors.New("bcrypt_cost must be between 4 and 31")
	}
	return nil
}

func (c *PaymentConfig) Validate() error {
	if (c.RazorpayKeyID == "") != (c.RazorpayKeySecret == "") {
		return errors.New("razorpay_key_id and razorpay_key_secret must be set together")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency)
	}
	if c.MinAmount <= 0 {
		return errors.New("min_amount must be positive")
	}
	return nil
}

// Configured reports whether gateway credentials are present.
func (c *PaymentConfig) Configured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func (c *CheckoutConfig) Validate() error {
	if c.BackendURL == "" {
		return nil
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url must be http or https, got %q", u.Scheme)
	}
	return nil
}
