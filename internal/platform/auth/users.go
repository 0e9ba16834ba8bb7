package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is an account in the demo user store.
type User struct {
	Username     string
	PasswordHash []byte
	Roles        []string
}

// UserStore is a thread-safe in-memory credential store. A real deployment
// would back this with an identity provider; the demo ships with a seeded
// admin account.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*User)}
}

// NewSeededUserStore creates a user store with the demo admin account
// (admin / admin123).
func NewSeededUserStore() (*UserStore, error) {
	s := NewUserStore()
	if err := s.Add("admin", "admin123", []string{"admin"}); err != nil {
		return nil, err
	}
	return s, nil
}

// Add hashes the password with bcrypt and stores the user.
func (s *UserStore) Add(username, password string, roles []string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &User{Username: username, PasswordHash: hash, Roles: roles}
	return nil
}

// Authenticate verifies the username/password pair and returns the user.
func (s *UserStore) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		// Burn a comparison anyway so missing and present accounts take
		// comparable time.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZwKK0sAR7qmbXlEFDbf2Fa3Yl1jIm"), []byte(password))
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return u, nil
}
