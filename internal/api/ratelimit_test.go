package api

import (
	"net/http"
	"testing"
	"time"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request past burst allowed")
	}
	if rl.RetryAfter("10.0.0.1") < 1 {
		t.Error("expected positive retry-after once exhausted")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	// 10 per 100ms: one token every 10ms.
	rl := NewRateLimiter(10, 100*time.Millisecond)

	for i := 0; i < 10; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("request past burst allowed")
	}

	time.Sleep(50 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Error("no token after refill interval")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first client denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("first client not limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client affected by first client's bucket")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"host and port", "10.0.0.1:5432", "", "10.0.0.1"},
		{"bare host", "192.168.1.9", "", "192.168.1.9"},
		{"forwarded", "10.0.0.1:5432", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain", "10.0.0.1:5432", "203.0.113.7, 70.1.2.3", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
