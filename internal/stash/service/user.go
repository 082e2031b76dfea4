package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/internal/stash/store"
	"github.com/oakmount/stash/pkg/cryptox"
	"github.com/oakmount/stash/pkg/idx"
	"github.com/oakmount/stash/pkg/slogx"
)

const minPasswordLength = 8

var (
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, wrong password and
	// disabled accounts alike. Login failures must be indistinguishable.
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// ValidationError reports a single malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

type UserService struct {
	Store store.Store
}

// Register validates the input, hashes the password and persists a new
// user. The plaintext never leaves this function and is never logged.
func (s *UserService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateRegistration(name, email, password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		// Hashing failure means the process can't do its job; propagate.
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
	}

	// The uniqueness pre-check and the insert share one transaction; the
	// UNIQUE index still backstops a race.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrDuplicateEmail
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}

		// Read back so the caller sees the stored timestamps.
		user, err = tx.Users().GetUserByID(ctx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks credentials for login. Every failure mode collapses
// into ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a verification anyway so unknown emails don't return
			// measurably faster than wrong passwords.
			_ = cryptox.VerifyPassword(password, dummyHash())
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login rejected", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	if user.Disabled() {
		log.Info("login rejected for disabled account", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetByID fetches a live user by id.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateName changes the display name.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if err := s.Store.Users().UpdateName(ctx, userID, name); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ChangePassword verifies the current password and stores a fresh hash of
// the new one. Outstanding tokens stay valid until they expire; the token
// design has no revocation.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return &ValidationError{
			Field:  "new_password",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		}
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

// Deactivate soft-deletes the account. Items stay behind until
// housekeeping purges the user row, at which point they cascade.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Users().SoftDeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Info("user deactivated", "user_id", userID)
	return nil
}

func validateRegistration(name, email, password string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	dummyOnce sync.Once
	dummy     string
)

// dummyHash returns a hash of a throwaway password, computed once, used to
// equalise timing when the email doesn't exist.
func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = cryptox.HashPassword("stash-timing-equalizer")
	})
	return dummy
}
