package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", RunMode: "longpoll"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = ""

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Nominatim.BaseURL != "https://nominatim.openstreetmap.org" {
		t.Fatalf("base_url = %q", cfg.Nominatim.BaseURL)
	}
	if cfg.Nominatim.UserAgent == "" {
		t.Fatal("user agent must get a default")
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeTrimsBaseURLSlash(t *testing.T) {
	cfg := validConfig()
	cfg.Nominatim.BaseURL = "https://geo.example.com/"

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Nominatim.BaseURL != "https://geo.example.com" {
		t.Fatalf("base_url = %q", cfg.Nominatim.BaseURL)
	}
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "token"},
		{"missing redis addr", func(c *Config) { c.Redis.Addr = " " }, "redis.addr"},
		{"unknown run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, "run_mode"},
		{"webhook without url", func(c *Config) { c.Telegram.RunMode = "webhook" }, "webhook.url"},
		{"webhook without port", func(c *Config) {
			c.Telegram.RunMode = "webhook"
			c.Webhook.URL = "https://bot.example.com"
			c.Webhook.Listen = "0.0.0.0"
		}, "webhook.port"},
		{"negative poll timeout", func(c *Config) { c.Telegram.LongPollTimeoutSeconds = -1 }, "longpoll_timeout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadAppliesEnvOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `
telegram:
  token: "from-file"
  run_mode: "longpoll"
redis:
  addr: "localhost:6379"
nominatim:
  user_agent: "testbot/0.1"
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, env must win over file", cfg.Telegram.Token)
	}
	if cfg.Nominatim.UserAgent != "testbot/0.1" {
		t.Fatalf("user_agent = %q", cfg.Nominatim.UserAgent)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
