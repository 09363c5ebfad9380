package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/appconfig"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/booking"
)

func TestOpenStore_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "appointments.db")
	s, closeStore, err := openStore(context.Background(), "sqlite:"+path, runtime.DiscardLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closeStore()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenStore_UnsupportedScheme(t *testing.T) {
	if _, _, err := openStore(context.Background(), "mysql://root@localhost/db", runtime.DiscardLogger()); err == nil {
		t.Fatal("expected error for mysql url")
	}
}

func TestNewApp_WithoutLLM(t *testing.T) {
	cfg := appconfig.Config{
		Service:         appconfig.ServiceName,
		DatabaseURL:     "sqlite::memory:",
		RephraseEnabled: true,
	}
	a, err := newApp(context.Background(), cfg, runtime.DiscardLogger())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.close()

	if a.agent != nil {
		t.Fatal("agent must be nil without an api key")
	}
	res, err := a.registry.Call(context.Background(), "search_data", []byte(`{"user_id":1}`))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if res.Kind != booking.KindNotFound.String() {
		t.Fatalf("unexpected kind %q", res.Kind)
	}
}
