package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kliksy/kliksy-be/internal/apperr"
)

func appStatus(t *testing.T, err error) int {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected an application error, got %v", err)
	}
	return ae.Status
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	created, err := svc.Create("alice@example.com", "Alice", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created user has empty id")
	}

	// Login by email returns the same account.
	byEmail, err := svc.Authenticate("alice@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("authenticated id = %s, want %s", byEmail.ID, created.ID)
	}
	if byEmail.PasswordHash != "" {
		t.Error("password hash leaked from Authenticate")
	}

	// Username matching is exact against the stored value.
	byName, err := svc.Authenticate("Alice", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if byName.ID != created.ID {
		t.Errorf("authenticated id = %s, want %s", byName.ID, created.ID)
	}
}

func TestUserAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	if _, err := svc.Create("bob@example.com", "bob", "hunter2"); err != nil {
		t.Fatal(err)
	}

	_, wrongPw := svc.Authenticate("bob@example.com", "wrong")
	_, noUser := svc.Authenticate("nobody@example.com", "hunter2")

	if appStatus(t, wrongPw) != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", appStatus(t, wrongPw))
	}
	if appStatus(t, noUser) != http.StatusUnauthorized {
		t.Errorf("absent user status = %d, want 401", appStatus(t, noUser))
	}
	if wrongPw.Error() != noUser.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPw.Error(), noUser.Error())
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	if _, err := svc.Create("carol@example.com", "carol", "pw"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Create("carol@example.com", "other", "pw")
	if appStatus(t, err) != http.StatusConflict {
		t.Errorf("duplicate email status = %d, want 409", appStatus(t, err))
	}

	_, err = svc.Create("other@example.com", "carol", "pw")
	if appStatus(t, err) != http.StatusConflict {
		t.Errorf("duplicate username status = %d, want 409", appStatus(t, err))
	}
}

func TestUserCreateUniqueConstraintFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	if _, err := svc.Create("dave@example.com", "dave", "pw"); err != nil {
		t.Fatal(err)
	}

	// Insert around the pre-check to hit the constraint directly, the way a
	// concurrent signup would.
	_, err := db.Exec(
		`INSERT INTO users (id, email, username, password_hash, created_at) VALUES ('x', 'dave@example.com', 'dave2', 'h', CURRENT_TIMESTAMP)`)
	if !isUniqueViolation(err) {
		t.Fatalf("expected a unique violation, got %v", err)
	}
}

func TestUserResolve(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	created, err := svc.Create("erin@example.com", "erin", "pw")
	if err != nil {
		t.Fatal(err)
	}

	for _, identifier := range []string{"erin@example.com", "erin"} {
		user, err := svc.Resolve(identifier)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", identifier, err)
		}
		if user.ID != created.ID {
			t.Errorf("Resolve(%q) id = %s, want %s", identifier, user.ID, created.ID)
		}
	}

	_, err = svc.Resolve("ghost")
	if appStatus(t, err) != http.StatusNotFound {
		t.Errorf("absent identifier status = %d, want 404", appStatus(t, err))
	}
}
