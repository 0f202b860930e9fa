package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds the connection parameters for the POS database.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"` // postgres only
}

// MailConfig holds the outbound SMTP settings.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	Job         string         `yaml:"job"`
	LogLevel    string         `yaml:"log_level"`
	Environment string         `yaml:"environment"`
	Database    DatabaseConfig `yaml:"database"`
	Mail        MailConfig     `yaml:"mail"`

	SiteURL        string        `yaml:"site_url"`
	EmailDomain    string        `yaml:"email_domain"`
	StudentLimit   int           `yaml:"student_limit"`
	ApprovalWindow time.Duration `yaml:"approval_window"`

	CronSpec   string        `yaml:"cron_spec"`
	RunTimeout time.Duration `yaml:"run_timeout"`

	PushgatewayURL      string `yaml:"pushgateway_url"`
	TelegramToken       string `yaml:"telegram_token"`
	TelegramAlertChatID int64  `yaml:"telegram_alert_chat_id"`
}

// Defaults returns the configuration used when nothing overrides it.
// Host names are placeholders; credentials have no default.
func Defaults() *AppConfig {
	return &AppConfig{
		LogLevel:    "info",
		Environment: "development",
		Database: DatabaseConfig{
			Driver:  DriverMySQL,
			Host:    "saacs-database",
			User:    "user-saacsdb",
			Name:    "saacs-db",
			SSLMode: "disable",
		},
		Mail: MailConfig{
			Host:     "smtp.cs.vt.edu",
			Port:     465,
			User:     "peongrad",
			From:     "gradinfo@cs.vt.edu",
			FromName: "SAACS Plan of Study",
		},
		SiteURL:        "https://saacs.discovery.cs.vt.edu",
		EmailDomain:    "vt.edu",
		StudentLimit:   100,
		ApprovalWindow: 24 * time.Hour,
		CronSpec:       "0 * * * *", // hourly; approvals are only mailed within the window
		RunTimeout:     10 * time.Minute,
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables and a .env file (if present).
func Load(path string) (*AppConfig, error) {
	// Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)

	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultPort(cfg.Database.Driver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.Database.Driver, DriverMySQL, DriverPostgres)
	}
	if c.StudentLimit <= 0 {
		return fmt.Errorf("STUDENT_LIMIT must be positive, got %d", c.StudentLimit)
	}
	if c.ApprovalWindow <= 0 {
		return fmt.Errorf("APPROVAL_WINDOW must be positive, got %s", c.ApprovalWindow)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("RUN_TIMEOUT must be positive, got %s", c.RunTimeout)
	}
	if c.EmailDomain == "" {
		return fmt.Errorf("EMAIL_DOMAIN is empty")
	}
	return nil
}

func defaultPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

func applyEnv(cfg *AppConfig) error {
	// Names without a prefix match the variables the deployment already sets.
	setString(&cfg.Job, "job")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Environment, "ENVIRONMENT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "dbhost")
	setString(&cfg.Database.User, "dbuser")
	setString(&cfg.Database.Password, "dbpass")
	setString(&cfg.Database.Name, "dbname")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")

	setString(&cfg.Mail.Host, "SMTP_HOST")
	setString(&cfg.Mail.User, "MAIL_USER")
	setString(&cfg.Mail.Password, "MAIL_PASSWORD")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Mail.FromName, "MAIL_FROM_NAME")

	setString(&cfg.SiteURL, "SITE_URL")
	setString(&cfg.EmailDomain, "EMAIL_DOMAIN")
	setString(&cfg.CronSpec, "CRON_SPEC")
	setString(&cfg.PushgatewayURL, "PUSHGATEWAY_URL")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")

	if err := setInt(&cfg.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Mail.Port, "SMTP_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.StudentLimit, "STUDENT_LIMIT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.ApprovalWindow, "APPROVAL_WINDOW"); err != nil {
		return err
	}
	if err := setDuration(&cfg.RunTimeout, "RUN_TIMEOUT"); err != nil {
		return err
	}

	if v := os.Getenv("TELEGRAM_ALERT_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_ALERT_CHAT_ID: %w", err)
		}
		cfg.TelegramAlertChatID = id
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
