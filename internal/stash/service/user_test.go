package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		user, err := svc.Register(ctx, "Ann", "Ann@X.com", "secret-pass-1")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "Ann", user.Name)
		require.Equal(t, "ann@x.com", user.Email, "email is case-normalized")
		require.True(t, user.Active)
		require.NotEqual(t, "secret-pass-1", user.PasswordHash)
		require.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	})

	t.Run("returns the stored timestamps", func(t *testing.T) {
		user, err := svc.Register(ctx, "Ben", "ben@x.com", "secret-pass-2")
		require.NoError(t, err)
		require.False(t, user.CreatedAt.IsZero())
		require.False(t, user.UpdatedAt.IsZero())

		stored, err := svc.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, stored.CreatedAt, user.CreatedAt)
		require.Equal(t, stored.UpdatedAt, user.UpdatedAt)
	})

	t.Run("rejects duplicate email regardless of case", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other Ann", "ANN@x.COM", "another-pass")
		require.ErrorIs(t, err, ErrDuplicateEmail)

		// First record is unaffected.
		existing, err := svc.Store.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.Equal(t, "Ann", existing.Name)
	})

	t.Run("validates fields", func(t *testing.T) {
		cases := []struct {
			name, email, password string
			field                 string
		}{
			{"", "a@x.com", "long-enough", "name"},
			{"   ", "a@x.com", "long-enough", "name"},
			{"Bob", "", "long-enough", "email"},
			{"Bob", "not-an-email", "long-enough", "email"},
			{"Bob", "missing@tld @x", "long-enough", "email"},
			{"Bob", "bob@x.com", "short", "password"},
		}
		for _, tc := range cases {
			_, err := svc.Register(ctx, tc.name, tc.email, tc.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, "name=%q email=%q", tc.name, tc.email)
			require.Equal(t, tc.field, verr.Field)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	registered, err := svc.Register(ctx, "Ann", "ann@x.com", "secret-pass-1")
	require.NoError(t, err)

	t.Run("accepts valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "ann@x.com", "secret-pass-1")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
	})

	t.Run("accepts mixed-case email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "Ann@X.com", "secret-pass-1")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, errWrongPass := svc.Authenticate(ctx, "ann@x.com", "wrong-password")
		_, errUnknown := svc.Authenticate(ctx, "nobody@x.com", "secret-pass-1")
		require.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	})

	t.Run("deactivated account fails the same way", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, registered.ID))
		_, err := svc.Authenticate(ctx, "ann@x.com", "secret-pass-1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	user, err := svc.Register(ctx, "Ann", "ann@x.com", "original-pass")
	require.NoError(t, err)

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "guessed-pass", "brand-new-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("enforces minimum length on the new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "original-pass", "tiny")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("re-hashes on change", func(t *testing.T) {
		before, err := svc.GetByID(ctx, user.ID)
		require.NoError(t, err)

		require.NoError(t, svc.ChangePassword(ctx, user.ID, "original-pass", "brand-new-pass"))

		after, err := svc.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, before.PasswordHash, after.PasswordHash)

		_, err = svc.Authenticate(ctx, "ann@x.com", "brand-new-pass")
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, "ann@x.com", "original-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateName(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	user, err := svc.Register(ctx, "Ann", "ann@x.com", "secret-pass-1")
	require.NoError(t, err)

	updated, err := svc.UpdateName(ctx, user.ID, "Anne")
	require.NoError(t, err)
	require.Equal(t, "Anne", updated.Name)

	_, err = svc.UpdateName(ctx, user.ID, "  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
