package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.HTTP.Port != 3000 {
		t.Errorf("HTTP.Port = %d, want 3000", cfg.HTTP.Port)
	}
	if cfg.Mongo.Database != "restro" {
		t.Errorf("Mongo.Database = %q, want restro", cfg.Mongo.Database)
	}
	if cfg.Messaging.Kafka.Topic != "orders.events" {
		t.Errorf("Kafka.Topic = %q, want orders.events", cfg.Messaging.Kafka.Topic)
	}
	if cfg.Payments.Currency != "INR" {
		t.Errorf("Payments.Currency = %q, want INR", cfg.Payments.Currency)
	}
	if cfg.Reporting.CacheTTL != 30*time.Second {
		t.Errorf("Reporting.CacheTTL = %v, want 30s", cfg.Reporting.CacheTTL)
	}

	want := []string{"incoming", "preparing", "ready", "completed", "deleted"}
	if len(cfg.Orders.AllowedStatuses) != len(want) {
		t.Fatalf("AllowedStatuses = %v, want %v", cfg.Orders.AllowedStatuses, want)
	}
	for i, s := range want {
		if cfg.Orders.AllowedStatuses[i] != s {
			t.Errorf("AllowedStatuses[%d] = %q, want %q", i, cfg.Orders.AllowedStatuses[i], s)
		}
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("ORDER_STATUSES", "incoming, completed ,deleted")
	t.Setenv("PAYMENTS_CURRENCY", "USD")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP.Port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Payments.Currency != "USD" {
		t.Errorf("Payments.Currency = %q, want USD", cfg.Payments.Currency)
	}

	want := []string{"incoming", "completed", "deleted"}
	if len(cfg.Orders.AllowedStatuses) != len(want) {
		t.Fatalf("AllowedStatuses = %v, want %v", cfg.Orders.AllowedStatuses, want)
	}
	for i, s := range want {
		if cfg.Orders.AllowedStatuses[i] != s {
			t.Errorf("AllowedStatuses[%d] = %q, want %q", i, cfg.Orders.AllowedStatuses[i], s)
		}
	}
}

func TestNewDisabledSubsystemsFallBackToNoop(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MESSAGING_ENABLED", "false")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Cache.Driver != "noop" {
		t.Errorf("Cache.Driver = %q, want noop", cfg.Cache.Driver)
	}
	if cfg.Messaging.Driver != "noop" {
		t.Errorf("Messaging.Driver = %q, want noop", cfg.Messaging.Driver)
	}
}

func TestNewRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unsupportedCacheDriver", key: "CACHE_DRIVER", value: "memcache"},
		{name: "unsupportedMessagingDriver", key: "MESSAGING_DRIVER", value: "nats"},
		{name: "negativePort", key: "HTTP_PORT", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%s expected error", tt.key, tt.value)
			}
		})
	}
}

func TestGetEnvAsStringSliceIgnoresBlankEntries(t *testing.T) {
	t.Setenv("SLICE_TEST", " a, ,b,,c ")

	got := getEnvAsStringSlice("SLICE_TEST", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("slice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slice[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
