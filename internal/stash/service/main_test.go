package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oakmount/stash/internal/stash/store/drivers/sqlite"
	"github.com/oakmount/stash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "stash-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)

	code := m.Run()
	os.Remove(pepperPath)
	os.Exit(code)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}
