package auth

import (
	"errors"
	"testing"
	"time"
)

const (
	testKey    = "unit-test-signing-key"
	testIssuer = "university-api"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("alice", "teacher", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) < 55*time.Minute {
		t.Errorf("expiry %v too soon", exp)
	}

	claims, err := Parse(token, testKey, testIssuer)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", claims.Subject)
	}
	if claims.Role != "teacher" {
		t.Errorf("Role = %q, want teacher", claims.Role)
	}
}

func TestParseExpired(t *testing.T) {
	token, _, err := Issue("alice", "student", testIssuer, testKey, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := Parse(token, testKey, testIssuer); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Parse expired token: err = %v, want ErrTokenExpired", err)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("not-a-jwt", testKey, testIssuer); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Parse garbage: err = %v, want ErrTokenMalformed", err)
	}
}

func TestParseTamperedSignature(t *testing.T) {
	token, _, err := Issue("alice", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	// Flip the last signature byte.
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}
	if _, err := Parse(tampered, testKey, testIssuer); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Parse tampered token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseWrongKey(t *testing.T) {
	token, _, err := Issue("alice", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := Parse(token, "some-other-key", testIssuer); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Parse with wrong key: err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseWrongIssuer(t *testing.T) {
	token, _, err := Issue("alice", "student", "someone-else", testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := Parse(token, testKey, testIssuer); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Parse with wrong issuer: err = %v, want ErrTokenInvalid", err)
	}
}
