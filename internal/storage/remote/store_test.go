package remote

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/storage/storagetest"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func openSQLite(t *testing.T) *Store {
	t.Helper()
	ctx := testContext(t)
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "fanbase.sqlite"), Options{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.AutoMigrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.Load(ctx, fixture.Default()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestSQLiteContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) repository.Backend { return openSQLite(t) })
}

func TestPostgresContract(t *testing.T) {
	dsn := getTestDSN(t)
	ctx := testContext(t)

	s, err := Open(ctx, dsn, Options{Tracing: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if err := s.AutoMigrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	storagetest.Run(t, func(t *testing.T) repository.Backend {
		ctx := testContext(t)
		if err := s.Reset(ctx); err != nil {
			t.Fatalf("reset: %v", err)
		}
		if err := s.Load(ctx, fixture.Default()); err != nil {
			t.Fatalf("load: %v", err)
		}
		return s
	})
}

func TestSQLiteReadyAndDialect(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.Ready(testContext(t)))
	assert.Equal(t, DialectSQLite, s.Dialect())
}

func TestSQLiteResetRewindsIds(t *testing.T) {
	ctx := testContext(t)
	s := openSQLite(t)

	require.NoError(t, s.Reset(ctx))
	all, err := s.Donations().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.Load(ctx, fixture.Default()))
	all, err = s.Donations().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 24)
}

func TestSQLiteTimestampsRoundTrip(t *testing.T) {
	ctx := testContext(t)
	s := openSQLite(t)

	want := fixture.Default().Episodes[0].BroadcastDate
	got, err := s.Episodes().FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, want.Equal(got.BroadcastDate), "want %v got %v", want, got.BroadcastDate)
}
