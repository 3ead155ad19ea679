package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.Server.FreeGuestAnalyses)
	assert.Equal(t, 24*time.Hour, cfg.Server.GuestQuotaTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 80.0, cfg.Matching.Threshold)
	assert.Equal(t, "weighted", cfg.Matching.Mode)
	assert.False(t, cfg.Matching.DetectDomain)
	assert.True(t, cfg.Matching.InheritSynonyms)
	assert.Equal(t, 4, cfg.Matching.Concurrency)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "ats", cfg.Rendering.DefaultTemplate)
	assert.Equal(t, 30*time.Second, cfg.Rendering.PDFTimeout)
	assert.Equal(t, 24, cfg.Auth.JWTExpirationHours)
	assert.False(t, cfg.GoogleLoginEnabled())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 1000, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.DefaultWindow)
	assert.Empty(t, cfg.RateLimit.Whitelist)
}

func TestLoad_RateLimitEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "30")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1,10.0.0.2")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateLimit.Whitelist)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screener.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
matching:
  threshold: 70
  mode: unweighted
  vocabulary_path: vocab.yaml
rendering:
  pdf_timeout: 45s
`), 0o600))

	t.Setenv("SCREENER_MATCHING_THRESHOLD", "90")
	t.Setenv("DATABASE_URL", "sqlite://history.db")
	t.Setenv("GEMINI_API_KEY", "key-from-env")

	v := NewViper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	require.NoError(t, v.BindPFlag("server.port", flags.Lookup("port")))
	require.NoError(t, flags.Parse([]string{"--port", "9100"}))

	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "flag beats file")
	assert.Equal(t, 90.0, cfg.Matching.Threshold, "env beats file")
	assert.Equal(t, "unweighted", cfg.Matching.Mode)
	assert.Equal(t, "vocab.yaml", cfg.Matching.VocabularyPath)
	assert.Equal(t, 45*time.Second, cfg.Rendering.PDFTimeout)
	assert.Equal(t, "sqlite://history.db", cfg.Database.URL)
	assert.Equal(t, "key-from-env", cfg.LLM.APIKey)
}

func TestLoad_PrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://legacy")
	t.Setenv("SCREENER_DATABASE_URL", "postgres://prefixed")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://prefixed", cfg.Database.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(NewViper(), "")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "port", mutate: func(c *Config) { c.Server.Port = 0 }, errMsg: "server.port"},
		{name: "negative guest quota", mutate: func(c *Config) { c.Server.FreeGuestAnalyses = -1 }, errMsg: "free_guest_analyses"},
		{name: "negative guest quota ttl", mutate: func(c *Config) { c.Server.GuestQuotaTTL = -time.Minute }, errMsg: "guest_quota_ttl"},
		{name: "upload limit", mutate: func(c *Config) { c.Server.MaxUploadMB = 0 }, errMsg: "max_upload_mb"},
		{name: "threshold", mutate: func(c *Config) { c.Matching.Threshold = 120 }, errMsg: "matching.threshold"},
		{name: "mode", mutate: func(c *Config) { c.Matching.Mode = "fancy" }, errMsg: "matching.mode"},
		{name: "concurrency", mutate: func(c *Config) { c.Matching.Concurrency = 0 }, errMsg: "matching.concurrency"},
		{name: "provider", mutate: func(c *Config) { c.LLM.Provider = "openai" }, errMsg: "llm.provider"},
		{name: "template", mutate: func(c *Config) { c.Rendering.DefaultTemplate = "" }, errMsg: "default_template"},
		{name: "pdf timeout", mutate: func(c *Config) { c.Rendering.PDFTimeout = 0 }, errMsg: "pdf_timeout"},
		{name: "rate limit", mutate: func(c *Config) { c.RateLimit.DefaultLimit = 0 }, errMsg: "rate_limit.default_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_JWT(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{JWTSecret: "secret", JWTExpirationHours: 12}}
	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "secret", jwtCfg.Secret)
	assert.Equal(t, 12, jwtCfg.ExpirationHours)

	_, err = (&Config{Auth: AuthConfig{JWTExpirationHours: 24}}).JWT()
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = (&Config{Auth: AuthConfig{JWTSecret: "secret"}}).JWT()
	assert.ErrorContains(t, err, "at least 1 hour")
}

func TestConfig_Password(t *testing.T) {
	for _, cost := range []int{9, 15} {
		_, err := (&Config{Auth: AuthConfig{BcryptCost: cost}}).Password()
		assert.ErrorContains(t, err, "out of range")
	}

	pwCfg, err := (&Config{Auth: AuthConfig{BcryptCost: 10, PasswordPepper: "pepper"}}).Password()
	require.NoError(t, err)

	hash, err := pwCfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, pwCfg.VerifyPassword("correct horse", hash))
	assert.False(t, pwCfg.VerifyPassword("wrong horse", hash))

	unpeppered := &PasswordConfig{BcryptCost: 10}
	assert.False(t, unpeppered.VerifyPassword("correct horse", hash), "pepper must be part of the hash")
}
