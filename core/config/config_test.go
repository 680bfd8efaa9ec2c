package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", RunMode: "webhook"},
		Webhook:  WebhookConfig{URL: "https://bot.example.com/", Listen: "0.0.0.0", Port: 8080},
	}
}

func TestNormalizeDefaultsToWebhook(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = ""
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeWebhook {
		t.Fatalf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeWebhook)
	}
	if cfg.Fetch.Dir != "downloads" {
		t.Fatalf("fetch.dir default = %q", cfg.Fetch.Dir)
	}
}

func TestNormalizeTrimsWebhookURL(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if strings.HasSuffix(cfg.Webhook.URL, "/") {
		t.Fatalf("webhook url not trimmed: %q", cfg.Webhook.URL)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRequiresWebhookURL(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.URL = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing webhook url")
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejectsUnknownExclusion(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion")
	}
}
