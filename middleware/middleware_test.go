package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"camellia/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedToken(t *testing.T, email, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "alice",
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestAuthenticatePutsIdentityOnContext(t *testing.T) {
	var gotEmail, gotRole string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotEmail, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRole, _ = r.Context().Value(globals.RoleKey).(string)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "alice@example.com", "admin"))
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotEmail != "alice@example.com" || gotRole != "admin" {
		t.Errorf("context identity = (%q, %q), want alice@example.com/admin", gotEmail, gotRole)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler must not run for a rejected token")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no bearer prefix", signedToken(t, "alice@example.com", "user")},
		{"garbage", "Bearer not.a.token"},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		w := httptest.NewRecorder()
		handler(w, r, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", c.name, w.Code)
		}
	}
}

func TestAdminOnlyRequiresAdminRole(t *testing.T) {
	ran := false
	handler := Authenticate(AdminOnly(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ran = true
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "bob@example.com", "user"))
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if ran {
		t.Error("handler must not run for a non-admin caller")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
