package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := "SERVER_ADDRESS=127.0.0.1:9000\nSTORAGE_DRIVER=memory\nMEMORY_SEED_FILE=fixtures/memory_seed.json\nREQUEST_TIMEOUT=2s\nJWT_SECRET=file-secret\nREDIS_DB=3\n"
	if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write app.env: %v", err)
	}
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ServerAddress != "127.0.0.1:9000" {
		t.Errorf("Expected server address from file, got %s", cfg.ServerAddress)
	}
	if cfg.StorageDriver != StorageMemory || cfg.MemorySeed != "fixtures/memory_seed.json" {
		t.Errorf("Expected seeded memory storage, got %s with %q", cfg.StorageDriver, cfg.MemorySeed)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("Expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("Expected environment to override file, got %s", cfg.JWTSecret)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("Expected missing app.env to be tolerated, got %v", err)
	}

	if cfg.StorageDriver != StoragePostgres {
		t.Errorf("Expected postgres storage by default, got %s", cfg.StorageDriver)
	}
	if cfg.DefaultMinutesPerPiece != 15 {
		t.Errorf("Expected 15 minutes per piece, got %d", cfg.DefaultMinutesPerPiece)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.MigrationURL != "file://migrations" {
		t.Errorf("Expected default migration url, got %s", cfg.MigrationURL)
	}
}
