package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/oakmount/stash/internal/stash/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingPurgesTombstones(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	ann, bob := registerTwo(t, st)

	items := &ItemService{Store: st}
	it, err := items.Create(ctx, ann.ID, "doomed", "")
	require.NoError(t, err)
	require.NoError(t, items.Delete(ctx, ann.ID, it.ID))

	users := &UserService{Store: st}
	require.NoError(t, users.Deactivate(ctx, bob.ID))

	// Zero retention makes everything soft-deleted so far purgeable on the
	// first sweep.
	hk := NewHousekeepingService(st, slog.Default(), time.Hour, time.Nanosecond)
	hk.Start()
	hk.Stop()

	_, err = st.Users().GetUserByID(ctx, bob.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// bob's email is free again after the hard delete.
	_, err = users.Register(ctx, "New Bob", "bob@x.com", "secret-pass-3")
	require.NoError(t, err)
}

func TestHousekeepingStopWithoutStart(t *testing.T) {
	hk := NewHousekeepingService(newTestStore(t), slog.Default(), time.Hour, time.Hour)

	done := make(chan struct{})
	go func() {
		hk.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked even though the worker never started")
	}
}

func TestHousekeepingDefaults(t *testing.T) {
	hk := NewHousekeepingService(newTestStore(t), slog.Default(), 0, 0)
	require.Equal(t, time.Hour, hk.Interval)
	require.Equal(t, 30*24*time.Hour, hk.Retention)
}
