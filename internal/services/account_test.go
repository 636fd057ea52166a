package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sliceapp/authserver/internal/auth"
	"github.com/sliceapp/authserver/internal/store"
	"github.com/sliceapp/authserver/types"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]types.User // keyed by id
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]types.User)}
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type recordingPublisher struct {
	registered []types.User
	deleted    []string
}

func (p *recordingPublisher) UserRegistered(ctx context.Context, user types.User) {
	p.registered = append(p.registered, user)
}

func (p *recordingPublisher) UserDeleted(ctx context.Context, userID string) {
	p.deleted = append(p.deleted, userID)
}

func newTestService(t *testing.T) (*AccountService, *memoryRepo, *recordingPublisher) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	repo := newMemoryRepo()
	pub := &recordingPublisher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAccountService(repo, tokens, pub, log), repo, pub
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc, _, pub := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated id")
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected email: %q", user.Email)
	}
	if user.HashedPassword == "password123" {
		t.Fatal("password stored in plaintext")
	}
	if len(pub.registered) != 1 || pub.registered[0].ID != user.ID {
		t.Fatalf("expected one registered event, got %+v", pub.registered)
	}

	token, expiresIn, err := svc.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if expiresIn != 3600 {
		t.Fatalf("unexpected expiresIn: %d", expiresIn)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "password123"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, "b@x.com", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@x.com", "password123"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if _, err := svc.Register(ctx, "dup@x.com", "password456"); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(repo.users))
	}
	if len(pub.registered) != 1 {
		t.Fatalf("expected one registered event, got %d", len(pub.registered))
	}
}

func TestLoginDoesNotDistinguishFailures(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "c@x.com", "password123"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "c@x.com", "wrong-password")
	_, _, noSuchUser := svc.Login(ctx, "nobody@x.com", "password123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(noSuchUser, ErrInvalidCredentials) {
		t.Fatalf("missing user: expected ErrInvalidCredentials, got %v", noSuchUser)
	}
	if wrongPassword.Error() != noSuchUser.Error() {
		t.Fatal("login failures must be indistinguishable")
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()

	svc, _, pub := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "d@x.com", "password123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount error: %v", err)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != user.ID {
		t.Fatalf("expected one deleted event, got %v", pub.deleted)
	}

	// The row is gone; a second delete reports not found.
	if err := svc.DeleteAccount(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.deleted) != 1 {
		t.Fatalf("no event expected for failed delete, got %d", len(pub.deleted))
	}
}

func TestTokenRemainsValidAfterDelete(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	ctx := context.Background()

	user, err := svc.Register(ctx, "e@x.com", "password123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	token, _, err := svc.Login(ctx, "e@x.com", "password123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if err := svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount error: %v", err)
	}

	// Tokens are stateless: deletion does not revoke them.
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify after delete: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("unexpected subject: %q", claims.UserID)
	}
}
