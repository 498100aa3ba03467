// Package app is the mock authentication collaborator: a fixed user list, a
// shared demo password and cache-backed sessions.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/aurora-storefront/internal/auth/domain"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/cache"
)

// DemoPassword is accepted for every account.
const DemoPassword = "password"

// DefaultUsers returns the seeded accounts.
func DefaultUsers() []domain.User {
	return []domain.User{
		{ID: "user-1", Email: "user@example.com", Name: "John Doe", Role: domain.RoleCustomer},
		{ID: "admin-1", Email: "admin@aurorabling.com", Name: "Admin User", Role: domain.RoleAdmin},
	}
}

type Service struct {
	mu       sync.RWMutex
	users    []domain.User
	sessions cache.Cache
	ttl      time.Duration
}

func NewService(sessions cache.Cache, ttl time.Duration) *Service {
	return &Service{
		users:    DefaultUsers(),
		sessions: sessions,
		ttl:      ttl,
	}
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	user, ok := s.findByEmail(email)
	if !ok || password != DemoPassword {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

// Register creates a customer account and logs it in.
func (s *Service) Register(ctx context.Context, email, password, name string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return domain.Session{}, fmt.Errorf("auth: register: email, password and name are required")
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			s.mu.Unlock()
			return domain.Session{}, domain.ErrUserExists
		}
	}
	user := domain.User{
		ID:    "user-" + uuid.NewString(),
		Email: email,
		Name:  strings.TrimSpace(name),
		Role:  domain.RoleCustomer,
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.openSession(ctx, user)
}

// Resolve returns the user behind a session token.
func (s *Service) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrSessionNotFound
	}
	raw, err := s.sessions.Get(ctx, s.sessions.GenerateKey("session", token))
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: resolve session: %w", err)
	}
	if raw == "" {
		return domain.User{}, domain.ErrSessionNotFound
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		_ = s.sessions.Delete(ctx, s.sessions.GenerateKey("session", token))
		return domain.User{}, domain.ErrSessionNotFound
	}
	return user, nil
}

// Logout closes a session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, s.sessions.GenerateKey("session", token)); err != nil {
		return fmt.Errorf("auth: logout: %w", err)
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, user domain.User) (domain.Session, error) {
	session := domain.Session{Token: uuid.NewString(), User: user}
	payload, err := json.Marshal(user)
	if err != nil {
		return domain.Session{}, fmt.Errorf("auth: encode session: %w", err)
	}
	if err := s.sessions.Set(ctx, s.sessions.GenerateKey("session", session.Token), payload, s.ttl); err != nil {
		return domain.Session{}, fmt.Errorf("auth: store session: %w", err)
	}
	slog.InfoContext(ctx, "session opened", "user_id", user.ID)
	return session, nil
}

func (s *Service) findByEmail(email string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, true
		}
	}
	return domain.User{}, false
}
