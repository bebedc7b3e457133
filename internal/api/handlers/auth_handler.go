package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kliksy/kliksy-be/internal/apperr"
	"github.com/kliksy/kliksy-be/internal/auth"
	"github.com/kliksy/kliksy-be/internal/models"
	"github.com/kliksy/kliksy-be/internal/services"
)

var validate = validator.New()

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	activity services.ActivityRecorder
	auth     *auth.Auth
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, activity services.ActivityRecorder, a *auth.Auth) *AuthHandler {
	return &AuthHandler{users: users, activity: activity, auth: a}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	json.NewDecoder(r.Body).Decode(&payload)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.Username = strings.TrimSpace(payload.Username)

	if err := validate.Struct(payload); err != nil {
		respondError(w, r, apperr.BadRequest("email, username, and password are required"))
		return
	}

	user, err := h.users.Create(payload.Email, payload.Username, payload.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.activity.Record(models.ActionSignup, fmt.Sprintf("user created: %s", user.Email))
	respondJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// LoginPayload defines the structure for login requests. Either email or
// username identifies the account.
type LoginPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token. Absent users and wrong
// passwords produce the identical response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	json.NewDecoder(r.Body).Decode(&payload)

	identifier := strings.ToLower(strings.TrimSpace(payload.Email))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(payload.Username))
	}
	if identifier == "" || validate.Struct(payload) != nil {
		respondError(w, r, apperr.BadRequest("email/username and password are required"))
		return
	}

	user, err := h.users.Authenticate(identifier, payload.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(w, r, apperr.Internal(fmt.Errorf("failed to generate token: %w", err)))
		return
	}

	h.activity.Record(models.ActionLogin, fmt.Sprintf("user logged in: %s", user.Email))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user.Ref(),
	})
}

// Logout records a logout for the identified user. There is no server-side
// session to tear down; the audit row is the point.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identifier := bodyIdentifier(decodeBody(r))
	if identifier == "" {
		respondError(w, r, apperr.BadRequest("email or username is required"))
		return
	}

	user, err := h.users.Resolve(identifier)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.activity.Record(models.ActionLogout, fmt.Sprintf("user logged out: %s", user.Email))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logout recorded",
		"user":    user.Ref(),
	})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(auth.UserClaimsKey).(*auth.Claims)
	if !ok {
		respondError(w, r, apperr.Internal(fmt.Errorf("missing claims in authenticated request")))
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
