package redis

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
)

func TestNewClientConnectsAndLogs(t *testing.T) {
	s := miniredis.RunT(t)

	var buf bytes.Buffer
	client, err := NewClient(context.Background(), ClientConfig{
		URL:      "redis://" + s.Addr() + "/2",
		PoolSize: 7,
		Logger:   zerolog.New(&buf),
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if got := client.Options().PoolSize; got != 7 {
		t.Fatalf("expected pool size 7, got %d", got)
	}
	if got := client.Options().DB; got != 2 {
		t.Fatalf("expected db 2 from URL, got %d", got)
	}

	out := buf.String()
	if !strings.Contains(out, `"pool_size":7`) || !strings.Contains(out, "connected to redis") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestNewClientKeepsURLPoolSize(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), ClientConfig{
		URL:    "redis://" + s.Addr() + "?pool_size=3",
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if got := client.Options().PoolSize; got != 3 {
		t.Fatalf("expected pool size from URL, got %d", got)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{URL: "://bad-url", Logger: zerolog.Nop()})
	if err == nil || !strings.Contains(err.Error(), "parse redis URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewClient(context.Background(), ClientConfig{
		URL:         "redis://" + addr,
		PingTimeout: 500 * time.Millisecond,
		Logger:      zerolog.Nop(),
	})
	if err == nil || !strings.Contains(err.Error(), addr) {
		t.Fatalf("expected ping error naming %s, got %v", addr, err)
	}
}
