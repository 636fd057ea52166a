package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sliceapp/authserver/internal/auth"
	"github.com/sliceapp/authserver/internal/store"
	"github.com/sliceapp/authserver/types"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ErrInvalidCredentials is returned on any login failure. It is deliberately
// generic: a missing user and a wrong password are indistinguishable to the
// caller, so accounts cannot be enumerated.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidEmail is returned when the email is not syntactically valid.
var ErrInvalidEmail = errors.New("invalid email format")

// ErrPasswordTooShort is returned when the password is below the minimum length.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", minPasswordLength)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher emits lifecycle events after committed account changes.
type EventPublisher interface {
	UserRegistered(ctx context.Context, user types.User)
	UserDeleted(ctx context.Context, userID string)
}

// AccountService encapsulates the signup, login, and account deletion
// use-cases. It is stateless between calls; the user table is the only
// shared state.
type AccountService struct {
	users  UserRepository
	tokens *auth.TokenService
	events EventPublisher
	log    *slog.Logger
}

func NewAccountService(users UserRepository, tokens *auth.TokenService, events EventPublisher, log *slog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
		events: events,
		log:    log,
	}
}

// Register creates a new user from an email and a plaintext password.
// Duplicate emails surface as store.ErrDuplicateEmail, enforced by the
// database uniqueness constraint rather than a pre-check, so concurrent
// signups with the same email resolve to exactly one row.
func (s *AccountService) Register(ctx context.Context, email, password string) (types.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return types.User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return types.User{}, ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, types.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: string(hashed),
	})
	if err != nil {
		return types.User{}, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	s.events.UserRegistered(ctx, user)
	return user, nil
}

// Login verifies the credentials and issues a bearer token. The token
// lifetime is returned in seconds.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, int, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}

	// bcrypt compares in constant time.
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", 0, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user logged in", "user_id", user.ID)
	return token, int(s.tokens.TTL().Seconds()), nil
}

// DeleteAccount removes the user row identified by the token's subject.
// Returns store.ErrNotFound if the row is already gone.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.log.Info("user deleted", "user_id", userID)
	s.events.UserDeleted(ctx, userID)
	return nil
}
