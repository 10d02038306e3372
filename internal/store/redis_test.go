package store

import (
	"context"
	"testing"
)

func TestRedisClose(t *testing.T) {
	r := NewRedis("localhost:0") // lazy dial; no server needed
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRedisNilSafety(t *testing.T) {
	var r *Redis
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil wrapper: %v", err)
	}
	if r.Healthy(context.Background()) {
		t.Error("nil wrapper should never report healthy")
	}
}
