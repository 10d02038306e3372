package httpmiddleware

import "testing"

func TestTokenBucketAllow(t *testing.T) {
	l := NewTokenBucket(3, 60)
	for i := 0; i < 3; i++ {
		if !l.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("client-a") {
		t.Error("request over capacity should be denied")
	}
}

func TestTokenBucketPerKey(t *testing.T) {
	l := NewTokenBucket(1, 60)
	if !l.Allow("client-a") {
		t.Fatal("first request for client-a should be allowed")
	}
	if !l.Allow("client-b") {
		t.Error("client-b has its own bucket and should be allowed")
	}
	if l.Allow("client-a") {
		t.Error("client-a is out of tokens")
	}
}

func TestTokenBucketZeroCapacityDefaults(t *testing.T) {
	l := NewTokenBucket(0, 10)
	if !l.Allow("client-a") {
		t.Error("capacity should default to the per-minute rate")
	}
}
