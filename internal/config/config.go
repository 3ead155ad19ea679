// Package config loads screener configuration from defaults, a YAML file,
// the environment and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every configuration key in the environment (matching.threshold -> SCREENER_MATCHING_THRESHOLD).
const EnvPrefix = "SCREENER"

// Config is the complete screener configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Rendering RenderingConfig `mapstructure:"rendering"`
	Auth      AuthConfig      `mapstructure:"auth"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	FreeGuestAnalyses int           `mapstructure:"free_guest_analyses"`
	GuestQuotaTTL     time.Duration `mapstructure:"guest_quota_ttl"`
	MaxUploadMB       int64         `mapstructure:"max_upload_mb"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig selects the history and user store. An empty URL disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// MatchingConfig configures the skill matcher and its vocabulary source.
type MatchingConfig struct {
	Threshold       float64 `mapstructure:"threshold"`
	Mode            string  `mapstructure:"mode"`
	DetectDomain    bool    `mapstructure:"detect_domain"`
	VocabularyPath  string  `mapstructure:"vocabulary_path"`
	VocabularyURL   string  `mapstructure:"vocabulary_url"`
	InheritSynonyms bool    `mapstructure:"inherit_synonyms"`
	Concurrency     int     `mapstructure:"concurrency"`
}

// LLMConfig configures the hosted language model used for rewriting and embeddings.
// An empty API key disables both.
type LLMConfig struct {
	Provider       string `mapstructure:"provider"`
	APIKey         string `mapstructure:"api_key"`
	Tier           string `mapstructure:"tier"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// RenderingConfig configures resume rendering.
type RenderingConfig struct {
	DefaultTemplate string        `mapstructure:"default_template"`
	PDFTimeout      time.Duration `mapstructure:"pdf_timeout"`
}

// AuthConfig holds token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// OAuthConfig holds Google sign-in credentials. Google login is off when the client ID is empty.
type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	AppURL             string `mapstructure:"app_url"`
}

// RateLimitConfig configures the per-client token buckets of the HTTP API.
// Whitelisted clients are never limited; blacklisted ones are always refused.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// legacyEnv maps keys to the unprefixed environment variables deployments already use.
var legacyEnv = map[string]string{
	"database.url":               "DATABASE_URL",
	"llm.api_key":                "GEMINI_API_KEY",
	"auth.jwt_secret":            "JWT_SECRET",
	"auth.jwt_expiration_hours":  "JWT_EXPIRATION_HOURS",
	"auth.bcrypt_cost":           "BCRYPT_COST",
	"auth.password_pepper":       "PASSWORD_PEPPER",
	"oauth.google_client_id":     "GOOGLE_CLIENT_ID",
	"oauth.google_client_secret": "GOOGLE_CLIENT_SECRET",
	"oauth.app_url":              "APP_URL",
	"rate_limit.enabled":         "RATE_LIMIT_ENABLED",
	"rate_limit.default_limit":   "RATE_LIMIT_DEFAULT_LIMIT",
	"rate_limit.default_window":  "RATE_LIMIT_DEFAULT_WINDOW",
	"rate_limit.whitelist":       "RATE_LIMIT_WHITELIST",
	"rate_limit.blacklist":       "RATE_LIMIT_BLACKLIST",
}

// NewViper returns a viper instance with defaults and environment bindings registered.
// Callers bind their flags onto it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, env)
	}
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.free_guest_analyses", 1)
	v.SetDefault("server.guest_quota_ttl", 24*time.Hour)
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)

	v.SetDefault("database.url", "")

	v.SetDefault("matching.threshold", 80.0)
	v.SetDefault("matching.mode", "weighted")
	v.SetDefault("matching.detect_domain", false)
	v.SetDefault("matching.vocabulary_path", "")
	v.SetDefault("matching.vocabulary_url", "")
	v.SetDefault("matching.inherit_synonyms", true)
	v.SetDefault("matching.concurrency", 4)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.tier", "standard")
	v.SetDefault("llm.embedding_model", "text-embedding-004")

	v.SetDefault("rendering.default_template", "ats")
	v.SetDefault("rendering.pdf_timeout", 30*time.Second)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.password_pepper", "")

	v.SetDefault("oauth.google_client_id", "")
	v.SetDefault("oauth.google_client_secret", "")
	v.SetDefault("oauth.app_url", "http://localhost:8080")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.idle_timeout", time.Hour)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads the optional YAML file at path, layers the environment and bound flags
// on top, and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.FreeGuestAnalyses < 0 {
		errs = append(errs, fmt.Errorf("server.free_guest_analyses cannot be negative"))
	}
	if c.Server.GuestQuotaTTL < 0 {
		errs = append(errs, fmt.Errorf("server.guest_quota_ttl cannot be negative"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive"))
	}
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 100 {
		errs = append(errs, fmt.Errorf("matching.threshold must be between 0 and 100, got %v", c.Matching.Threshold))
	}
	if c.Matching.Mode != "weighted" && c.Matching.Mode != "unweighted" {
		errs = append(errs, fmt.Errorf("matching.mode must be weighted or unweighted, got %q", c.Matching.Mode))
	}
	if c.Matching.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("matching.concurrency must be at least 1"))
	}
	if c.LLM.Provider != "gemini" && c.LLM.Provider != "genai" {
		errs = append(errs, fmt.Errorf("llm.provider must be gemini or genai, got %q", c.LLM.Provider))
	}
	if c.Rendering.DefaultTemplate == "" {
		errs = append(errs, fmt.Errorf("rendering.default_template cannot be empty"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		errs = append(errs, fmt.Errorf("rate_limit.default_limit and rate_limit.default_window must be positive"))
	}
	if c.Rendering.PDFTimeout <= 0 {
		errs = append(errs, fmt.Errorf("rendering.pdf_timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// GoogleLoginEnabled reports whether Google OAuth credentials are configured.
func (c *Config) GoogleLoginEnabled() bool {
	return c.OAuth.GoogleClientID != "" && c.OAuth.GoogleClientSecret != ""
}
