package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	customers CustomerStore
	sessions  SessionStore
	log       *zap.Logger
}

func NewService(customers CustomerStore, sessions SessionStore, log *zap.Logger) *Service {
	return &Service{customers: customers, sessions: sessions, log: log}
}

// Login verifies the credentials and opens a session. A missing customer and
// a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Identity, string, error) {
	identifier = strings.TrimSpace(identifier)
	password = strings.TrimSpace(password)
	if identifier == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	c, err := s.customers.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.CustomerPassword), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	id := Identity{
		CustomerID:    c.CustomerID,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
	}
	token, err := s.sessions.Create(ctx, id)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("customer logged in", zap.Int("customer_id", c.CustomerID))
	return &id, token, nil
}

// Identify resolves a session token to the identity it was created with.
func (s *Service) Identify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	return s.sessions.Lookup(ctx, token)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}
