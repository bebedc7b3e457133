package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kliksy/kliksy-be/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret")
	user := models.User{ID: "u1", Username: "alice"}

	token, err := a.GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := a.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := New("secret-a").GenerateToken(models.User{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New("secret-b").ValidateToken(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}

func TestMiddleware(t *testing.T) {
	a := New("test-secret")
	token, err := a.GenerateToken(models.User{ID: "u1", Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	var gotClaims *Claims
	protected := a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = r.Context().Value(UserClaimsKey).(*Claims)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		setup  func(*http.Request)
		want   int
		claims bool
	}{
		{"bearer header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK, true},
		{"token cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: token})
		}, http.StatusOK, true},
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, false},
		{"garbage token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not-a-token")
		}, http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.claims && (gotClaims == nil || gotClaims.UserID != "u1") {
				t.Errorf("claims not propagated: %+v", gotClaims)
			}
		})
	}
}
