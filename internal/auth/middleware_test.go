package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeStore struct {
	principals map[string]*Principal
}

func (f *fakeStore) PrincipalByUsername(_ context.Context, username string) (*Principal, error) {
	return f.principals[username], nil
}

func newTestRouter(store PrincipalStore, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticated(testKey, testIssuer, store)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": p.Username})
	})
	r.GET("/protected", handlers...)
	return r
}

func request(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticatedMissingToken(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	if w := request(t, r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}
}

func TestAuthenticatedBadToken(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	if w := request(t, r, "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}
}

func TestAuthenticatedUnknownSubject(t *testing.T) {
	r := newTestRouter(&fakeStore{principals: map[string]*Principal{}})
	token, _, err := Issue("ghost", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := request(t, r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("unknown subject: status = %d, want 401", w.Code)
	}
}

func TestAuthenticatedInactiveAccount(t *testing.T) {
	store := &fakeStore{principals: map[string]*Principal{
		"alice": {UserID: "u1", Username: "alice", Role: RoleStudent, IsActive: false},
	}}
	r := newTestRouter(store)
	token, _, err := Issue("alice", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := request(t, r, token); w.Code != http.StatusForbidden {
		t.Errorf("inactive account: status = %d, want 403", w.Code)
	}
}

func TestAuthenticatedActiveAccount(t *testing.T) {
	store := &fakeStore{principals: map[string]*Principal{
		"alice": {UserID: "u1", Username: "alice", Role: RoleStudent, IsActive: true},
	}}
	r := newTestRouter(store)
	token, _, err := Issue("alice", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := request(t, r, token); w.Code != http.StatusOK {
		t.Errorf("active account: status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRoleTiers(t *testing.T) {
	cases := []struct {
		role        Role
		middleware  gin.HandlerFunc
		wantAllowed bool
		name        string
	}{
		{RoleStudent, TeacherRequired(), false, "student vs teacher tier"},
		{RoleTeacher, TeacherRequired(), true, "teacher vs teacher tier"},
		{RoleAdmin, TeacherRequired(), true, "admin vs teacher tier"},
		{RoleStudent, AdminRequired(), false, "student vs admin tier"},
		{RoleTeacher, AdminRequired(), false, "teacher vs admin tier"},
		{RoleAdmin, AdminRequired(), true, "admin vs admin tier"},
	}
	for _, tc := range cases {
		store := &fakeStore{principals: map[string]*Principal{
			"bob": {UserID: "u2", Username: "bob", Role: tc.role, IsActive: true},
		}}
		r := newTestRouter(store, tc.middleware)
		token, _, err := Issue("bob", string(tc.role), testIssuer, testKey, time.Hour)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		w := request(t, r, token)
		if tc.wantAllowed && w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tc.name, w.Code)
		}
		if !tc.wantAllowed && w.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d, want 403", tc.name, w.Code)
		}
	}
}
