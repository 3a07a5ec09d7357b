package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/mmynk/splitledger/internal/storage"
)

func TestKeyPrefix(t *testing.T) {
	store := NewWithClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}), "splitledger:")
	defer store.Close()

	if got := store.key("auth-storage"); got != "splitledger:auth-storage" {
		t.Errorf("key() = %q, want %q", got, "splitledger:auth-storage")
	}
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, Config{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected error connecting to closed port")
	}
}

func TestGet_ErrorIsNotNotFound(t *testing.T) {
	store := NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	}), "")
	defer store.Close()

	_, err := store.Get(context.Background(), "ledger")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Error("connection failures must not look like a missing namespace")
	}
}
