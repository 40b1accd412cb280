package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/surprisewrap/service-shop-go/internal/store"
	"github.com/surprisewrap/service-shop-go/internal/user/entity"
)

const usersCollection = "users"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service orchestrates registration and login against the user collection.
type Service struct {
	store  store.Store
	tokens *TokenService
	hasher PasswordHasher
}

func NewService(st store.Store, tokens *TokenService, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &Service{store: st, tokens: tokens, hasher: hasher}
}

// LoginResult is what a successful login hands back to the handler.
type LoginResult struct {
	Token  string
	UserID string
	Role   string
}

// Register creates an account with a bcrypt password proof. The existence
// check is advisory; the store's unique constraint on email is what actually
// rules out duplicates under concurrent registration.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	docs, err := s.store.QueryByField(ctx, usersCollection, "email", email)
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	if len(docs) > 0 {
		return ErrUserExists
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u := entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
	}
	if _, err := s.store.Insert(ctx, usersCollection, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Login verifies the password proof and issues a session token. A wrong
// password for a known email is reported as ErrInvalidCredentials, never as
// ErrUserNotFound.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	docs, err := s.store.QueryByField(ctx, usersCollection, "email", email)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}
	doc := docs[0]
	var u entity.User
	if err := json.Unmarshal(doc.Data, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.Username, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, UserID: doc.ID, Role: u.Role}, nil
}
