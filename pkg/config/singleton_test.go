package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetSingleton() {
	globalConfig = nil
	initOnce = *new(sync.Once)
}

func TestInitialize(t *testing.T) {
	resetSingleton()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
server:
  listen_address: "127.0.0.1:8080"

telemetry:
  logging:
    level: "info"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Initialize(configPath); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("expected listen address %q, got %q", "127.0.0.1:8080", cfg.Server.ListenAddress)
	}
}

func TestInitialize_MultipleCallsIgnored(t *testing.T) {
	resetSingleton()

	tmpDir := t.TempDir()
	configPath1 := filepath.Join(tmpDir, "config1.yaml")
	configPath2 := filepath.Join(tmpDir, "config2.yaml")

	config1 := `
server:
  listen_address: "127.0.0.1:8080"
`
	config2 := `
server:
  listen_address: "0.0.0.0:9090"
`

	if err := os.WriteFile(configPath1, []byte(config1), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if err := os.WriteFile(configPath2, []byte(config2), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Initialize(configPath1); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}
	if err := Initialize(configPath2); err != nil {
		t.Fatalf("second initialize returned error: %v", err)
	}

	cfg := GetConfig()
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("expected first config to win, got listen address %q", cfg.Server.ListenAddress)
	}
}

func TestGetConfig_NilBeforeInitialize(t *testing.T) {
	resetSingleton()

	if cfg := GetConfig(); cfg != nil {
		t.Errorf("expected nil config before initialization, got %+v", cfg)
	}
}

func TestSetConfig(t *testing.T) {
	resetSingleton()

	cfg := validConfig()
	cfg.Server.ListenAddress = "10.1.2.3:7070"
	SetConfig(cfg)

	got := GetConfig()
	if got == nil {
		t.Fatal("expected config after SetConfig")
	}
	if got.Server.ListenAddress != "10.1.2.3:7070" {
		t.Errorf("expected listen address %q, got %q", "10.1.2.3:7070", got.Server.ListenAddress)
	}
}

func TestMustGetConfig_PanicsWhenUninitialized(t *testing.T) {
	resetSingleton()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic from MustGetConfig without initialization")
		}
	}()

	MustGetConfig()
}

func TestMustGetConfig_ReturnsConfig(t *testing.T) {
	resetSingleton()

	SetConfig(validConfig())

	cfg := MustGetConfig()
	if cfg == nil {
		t.Fatal("expected config from MustGetConfig")
	}
}
