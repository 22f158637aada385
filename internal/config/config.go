package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port        int      `yaml:"port"`
	GinMode     string   `yaml:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

// PolicyRule is one role policy row seeded into an empty policy table
type PolicyRule struct {
	Role   string `yaml:"role"`
	Path   string `yaml:"path"`
	Method string `yaml:"method"`
	Rule   string `yaml:"rule"`
}

type AuthConfig struct {
	Enforce bool `yaml:"enforce"`
	// Policies replaces the built-in default rows when non-empty
	Policies []PolicyRule `yaml:"policies"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type BootstrapConfig struct {
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
	AdminName     string `yaml:"admin_name"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Log       LogConfig       `yaml:"log"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

type Config struct {
	Port          string
	GinMode       string
	CORSOrigins   []string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	JWTIssuer     string
	AccessTTL     time.Duration
	EnforceAuth   bool
	Policies      []PolicyRule
	TwilioSID     string
	TwilioToken   string
	TwilioFrom    string
	LogLevel      string
	LogFormat     string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func defaults() *ConfigFile {
	return &ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release", CORSOrigins: []string{"*"}},
		Database: DatabaseConfig{DSN: "sqlite:healthrecords.db"},
		JWT:      JWTConfig{Issuer: "healthrecords", AccessTTL: "15m"},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path over built-in defaults, then applies
// .env and HR_* environment overrides. A missing file is only an error when
// path is not DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	file := defaults()
	if err := loadConfigFile(path, file); err != nil {
		if !(errors.Is(err, fs.ErrNotExist) && path == DefaultPath) {
			return nil, err
		}
	}
	applyEnv(file)

	accTTL, err := time.ParseDuration(file.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	cfg := &Config{
		Port:          strconv.Itoa(file.App.Port),
		GinMode:       file.App.GinMode,
		CORSOrigins:   file.App.CORSOrigins,
		DSN:           file.Database.DSN,
		RedisAddr:     file.Redis.Addr,
		RedisPassword: file.Redis.Password,
		RedisDB:       file.Redis.DB,
		JWTSecret:     file.JWT.Secret,
		JWTIssuer:     file.JWT.Issuer,
		AccessTTL:     accTTL,
		EnforceAuth:   file.Auth.Enforce,
		Policies:      file.Auth.Policies,
		TwilioSID:     file.Twilio.AccountSID,
		TwilioToken:   file.Twilio.AuthToken,
		TwilioFrom:    file.Twilio.FromNumber,
		LogLevel:      file.Log.Level,
		LogFormat:     file.Log.Format,
		AdminEmail:    file.Bootstrap.AdminEmail,
		AdminPassword: file.Bootstrap.AdminPassword,
		AdminName:     file.Bootstrap.AdminName,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	if c.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("JWT access TTL must be positive, got %s", c.AccessTTL)
	}
	if c.EnforceAuth {
		if c.JWTSecret == "" {
			return errors.New("auth.enforce requires jwt.secret")
		}
		if c.RedisAddr == "" {
			return errors.New("auth.enforce requires redis.addr for sessions")
		}
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return errors.New("bootstrap.admin_password is required with bootstrap.admin_email")
	}
	return nil
}

// TokensEnabled reports whether login should issue sessions and tokens
func (c *Config) TokensEnabled() bool {
	return c.JWTSecret != "" && c.RedisAddr != ""
}

func loadConfigFile(path string, into *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	if err := yaml.Unmarshal(bytes, into); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(f *ConfigFile) {
	setInt(&f.App.Port, "HR_PORT")
	setString(&f.App.GinMode, "HR_GIN_MODE")
	if v := os.Getenv("HR_CORS_ORIGINS"); v != "" {
		f.App.CORSOrigins = splitList(v)
	}
	setString(&f.Database.DSN, "HR_DATABASE_DSN")
	setString(&f.Redis.Addr, "HR_REDIS_ADDR")
	setString(&f.Redis.Password, "HR_REDIS_PASSWORD")
	setInt(&f.Redis.DB, "HR_REDIS_DB")
	setString(&f.JWT.Secret, "HR_JWT_SECRET")
	setString(&f.JWT.Issuer, "HR_JWT_ISSUER")
	setString(&f.JWT.AccessTTL, "HR_JWT_ACCESS_TTL")
	if v := os.Getenv("HR_AUTH_ENFORCE"); v != "" {
		f.Auth.Enforce, _ = strconv.ParseBool(v)
	}
	setString(&f.Twilio.AccountSID, "HR_TWILIO_ACCOUNT_SID")
	setString(&f.Twilio.AuthToken, "HR_TWILIO_AUTH_TOKEN")
	setString(&f.Twilio.FromNumber, "HR_TWILIO_FROM_NUMBER")
	setString(&f.Log.Level, "HR_LOG_LEVEL")
	setString(&f.Log.Format, "HR_LOG_FORMAT")
	setString(&f.Bootstrap.AdminEmail, "HR_BOOTSTRAP_ADMIN_EMAIL")
	setString(&f.Bootstrap.AdminPassword, "HR_BOOTSTRAP_ADMIN_PASSWORD")
	setString(&f.Bootstrap.AdminName, "HR_BOOTSTRAP_ADMIN_NAME")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
