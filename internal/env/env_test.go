package env

import (
	"reflect"
	"testing"
)

func TestLoadServerDefaults(t *testing.T) {
	for _, key := range []string{ChatAddr, ChatAllowedOrigins, ChatQueueSize, ChatWorkers, LogLevel, LogPretty} {
		t.Setenv(key, "")
	}

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.Workers != 8 || cfg.QueueSize != 64 {
		t.Fatalf("unexpected queue config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv(ChatAddr, ":9090")
	t.Setenv(ChatAllowedOrigins, "http://localhost:3000,https://chat.example.com")
	t.Setenv(ChatWorkers, "2")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer error: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.Workers != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://chat.example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadServerRejectsZeroWorkers(t *testing.T) {
	t.Setenv(ChatWorkers, "0")
	if _, err := LoadServer(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestLoadClientReadsViteOverrides(t *testing.T) {
	t.Setenv(ChatPageURL, "https://chat.example.com")
	t.Setenv(WSHost, "relay.internal")
	t.Setenv(WSPort, "9000")
	t.Setenv(ChatVariant, "basic")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient error: %v", err)
	}
	if cfg.PageURL != "https://chat.example.com" || cfg.WSHost != "relay.internal" || cfg.WSPort != "9000" || cfg.Variant != "basic" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
