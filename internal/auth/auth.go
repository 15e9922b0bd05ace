// Package auth is a development-only authentication stub. Credentials
// are stored in plain text through the storage repository and compared
// directly; there is no hashing, no tokens and no session security.
// It exists so the UI has something to talk to and must never be used
// as a security boundary.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirtan597/MoviesHub/internal/storage"
)

const (
	keyUsers       = "moviehub-users"
	keyCurrentUser = "moviehub-current-user"
)

// User is a stub account. The password is stored as given.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// Public is the user shape returned to callers, without the password.
type Public struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Service is the stub auth collaborator.
type Service struct {
	mu   sync.Mutex
	repo storage.Repository
}

// NewService creates the stub over the given repository.
func NewService(repo storage.Repository) *Service {
	return &Service{repo: repo}
}

// SignUp registers a new account. Emails are unique.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*Public, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("auth: name, email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers(ctx)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, fmt.Errorf("auth: account already exists for %s", email)
		}
	}

	user := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now(),
	}
	if err := s.saveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	if err := s.setCurrent(ctx, user); err != nil {
		return nil, err
	}

	pub := user.public()
	return &pub, nil
}

// SignIn authenticates by plaintext comparison.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Public, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadUsers(ctx) {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) && u.Password == password {
			if err := s.setCurrent(ctx, u); err != nil {
				return nil, err
			}
			pub := u.public()
			return &pub, nil
		}
	}
	return nil, fmt.Errorf("auth: invalid email or password")
}

// SignOut clears the current user.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Set(ctx, keyCurrentUser, []byte("null"))
}

// Current returns the signed-in user, or nil.
func (s *Service) Current(ctx context.Context) (*Public, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.repo.Get(ctx, keyCurrentUser)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pub *Public
	if err := json.Unmarshal(raw, &pub); err != nil {
		return nil, nil
	}
	return pub, nil
}

func (s *Service) setCurrent(ctx context.Context, u User) error {
	raw, err := json.Marshal(u.public())
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, keyCurrentUser, raw)
}

func (s *Service) loadUsers(ctx context.Context) []User {
	raw, err := s.repo.Get(ctx, keyUsers)
	if err != nil {
		return nil
	}
	var users []User
	if json.Unmarshal(raw, &users) != nil {
		return nil
	}
	return users
}

func (s *Service) saveUsers(ctx context.Context, users []User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, keyUsers, raw)
}
