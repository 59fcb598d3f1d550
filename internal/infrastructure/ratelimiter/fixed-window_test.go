package ratelimiter

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewFixedWindowRateLimiter(3, time.Hour)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}

	ok, retryAfter := rl.Allow("1.2.3.4")
	if ok {
		t.Fatal("request over the limit allowed")
	}
	if retryAfter <= 0 {
		t.Fatalf("retryAfter %v", retryAfter)
	}

	// Other sources have their own window.
	if ok, _ := rl.Allow("5.6.7.8"); !ok {
		t.Fatal("independent source denied")
	}
}

func TestWindowReset(t *testing.T) {
	rl := NewFixedWindowRateLimiter(1, 20*time.Millisecond)
	defer rl.Close()

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("first request denied")
	}

	time.Sleep(50 * time.Millisecond)

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("request denied after window reset")
	}
}
