package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/kliksy/kliksy-be/internal/apperr"
	"github.com/kliksy/kliksy-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Resolve(identifier string) (models.User, error)
	GetByID(id string) (models.User, error)
	Create(email, username, password string) (models.User, error)
	Authenticate(identifier, password string) (models.User, error)
}

// UserService provides account lookup, signup and credential verification.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Resolve looks up a user by email or username. The identifier is expected to
// be trimmed and lowercased already; usernames are matched as stored.
func (s *UserService) Resolve(identifier string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		`SELECT id, email, username, created_at FROM users WHERE email = $1 OR username = $1 LIMIT 1`,
		identifier)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a single user by primary key.
func (s *UserService) GetByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		`SELECT id, email, username, created_at FROM users WHERE id = $1`, id)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create registers a new user with a bcrypt-hashed password. The duplicate
// pre-check gives the friendly 409; the UNIQUE constraints catch the
// check-then-insert race and map to the same conflict.
func (s *UserService) Create(email, username, password string) (models.User, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT 1 FROM users WHERE email = $1 OR username = $2 LIMIT 1`,
		email, username).Scan(&exists)
	if err == nil {
		return models.User{}, apperr.Conflict("Email or username already exists")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("failed to check for existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO users (id, email, username, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Username, string(hashed), user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.Conflict("Email or username already exists")
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a password against the stored hash. An absent user
// and a wrong password yield the same error.
func (s *UserService) Authenticate(identifier, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		`SELECT id, email, username, password_hash, created_at FROM users WHERE email = $1 OR username = $1 LIMIT 1`,
		identifier)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.Unauthorized("Invalid credentials")
		}
		return models.User{}, fmt.Errorf("failed to fetch credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.Unauthorized("Invalid credentials")
	}

	user.PasswordHash = ""
	return user, nil
}

// isUniqueViolation recognizes duplicate-key errors from Postgres and from
// the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
