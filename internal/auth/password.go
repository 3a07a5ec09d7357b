package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
)

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

// avatarBaseURL generates a deterministic cartoon avatar from a seed string.
const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// SeedCredential is a plaintext credential used to populate the table at startup.
type SeedCredential struct {
	ID       string
	Name     string
	Email    string
	Password string
	Avatar   string
}

// credential is a stored record. Only the bcrypt hash of the password is kept.
type credential struct {
	user         models.User
	passwordHash []byte
}

// PasswordAuthenticator is an in-memory credential table using bcrypt.
// Registered records live only as long as the process.
type PasswordAuthenticator struct {
	mu    sync.RWMutex
	creds []credential
	cost  int
}

// NewPasswordAuthenticator creates a credential table holding seeds.
// cost is the bcrypt cost; 0 selects bcrypt.DefaultCost.
func NewPasswordAuthenticator(cost int, seeds ...SeedCredential) (*PasswordAuthenticator, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	a := &PasswordAuthenticator{cost: cost}
	for _, seed := range seeds {
		if len(seed.Password) > maxPasswordBytes {
			return nil, fmt.Errorf("seed credential %s: %w", seed.Email, ErrPasswordTooLong)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password for %s: %w", seed.Email, err)
		}
		a.creds = append(a.creds, credential{
			user: models.User{
				ID:     seed.ID,
				Name:   seed.Name,
				Email:  seed.Email,
				Avatar: seed.Avatar,
			},
			passwordHash: hash,
		})
	}
	return a, nil
}

// find returns the record with a case-insensitively matching email.
// Callers hold a.mu.
func (a *PasswordAuthenticator) find(email string) *credential {
	for i := range a.creds {
		if strings.EqualFold(a.creds[i].user.Email, email) {
			return &a.creds[i]
		}
	}
	return nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	cred := a.find(email)
	if cred == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := cred.user
	return &user, nil
}

// Register creates a new credential record with a generated id and avatar.
// Passwords longer than 72 bytes are rejected with ErrPasswordTooLong.
func (a *PasswordAuthenticator) Register(_ context.Context, name, email, password string) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if a.find(email) != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:     "user-" + uuid.New().String(),
		Name:   name,
		Email:  email,
		Avatar: avatarBaseURL + url.QueryEscape(name),
	}
	a.creds = append(a.creds, credential{user: user, passwordHash: hash})

	return &user, nil
}
