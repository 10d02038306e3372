package store

import (
	"context"
	"testing"
)

func TestMongoNilSafety(t *testing.T) {
	var m *Mongo
	if m.GridFS() != nil {
		t.Error("nil store should yield a nil bucket")
	}
	if m.Healthy(context.Background()) {
		t.Error("nil store should never report healthy")
	}
	if err := m.Close(context.Background()); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}
