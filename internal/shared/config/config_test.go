package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("port: got %s", cfg.Port)
	}
	if cfg.GetAPIBasePath() != "/api/v1" {
		t.Fatalf("base path: got %s", cfg.GetAPIBasePath())
	}
	if cfg.Persistence.OperationTimeout != 5*time.Second {
		t.Fatalf("op timeout: got %v", cfg.Persistence.OperationTimeout)
	}
	if cfg.Persistence.MaxRetries != 3 {
		t.Fatalf("max retries: got %d", cfg.Persistence.MaxRetries)
	}
	if cfg.Kafka.Enabled {
		t.Fatalf("kafka should be disabled by default")
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr: got %s", cfg.Redis.Addr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "travel")
	t.Setenv("PERSISTENCE_OP_TIMEOUT", "750ms")
	t.Setenv("PERSISTENCE_MAX_RETRIES", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	if cfg.Database.DSN != "host=db.internal port=5432 user=umrah_user password=umrah_password dbname=travel sslmode=disable" {
		t.Fatalf("dsn: got %q", cfg.Database.DSN)
	}
	if cfg.Persistence.OperationTimeout != 750*time.Millisecond {
		t.Fatalf("op timeout: got %v", cfg.Persistence.OperationTimeout)
	}
	if cfg.Persistence.MaxRetries != 3 {
		t.Fatalf("invalid int should fall back, got %d", cfg.Persistence.MaxRetries)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers: got %v", cfg.Kafka.Brokers)
	}
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Fatalf("release mode should be production")
	}
}
