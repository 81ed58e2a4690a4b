package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/regosbridge/regosbridge/internal/config"
	"github.com/regosbridge/regosbridge/internal/regos"
)

func fixedTime() time.Time {
	return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func regosRecordFixture() regos.RequestRecord {
	return regos.RequestRecord{
		ID:         "11111111-1111-1111-1111-111111111111",
		Credential: "deadbeef",
		Endpoint:   "PartnerBalance/Get",
		Kind:       regos.KindSuccess,
		StatusCode: 200,
		Attempts:   1,
		Duration:   150 * time.Millisecond,
		CreatedAt:  fixedTime(),
	}
}

func TestBuildLibsqlDSN(t *testing.T) {
	t.Run("URLUsesRawValue", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123", dsn)
	})

	t.Run("URLWithExistingQuery", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?foo=bar",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123&foo=bar", dsn)
	})

	t.Run("URLWithExistingAuthToken", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?authToken=original",
			AuthToken: "other",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=original", dsn)
	})

	t.Run("PathWithFilePrefix", func(t *testing.T) {
		cfg := config.StoreConfig{Path: "file:./regosbridge.db"}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "file:./regosbridge.db", dsn)
	})

	t.Run("PlainPathGetsFilePrefix", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.StoreConfig{Path: dir + "/regosbridge.db"}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "file:"+dir+"/regosbridge.db", dsn)
	})

	t.Run("PathMissing", func(t *testing.T) {
		cfg := config.StoreConfig{}

		_, err := buildLibsqlDSN(cfg)
		require.Error(t, err)
	})

	t.Run("MemoryPath", func(t *testing.T) {
		cfg := config.StoreConfig{Path: ":memory:"}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, ":memory:", dsn)
	})
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(t.Context(), config.StoreConfig{Driver: "postgres", Path: ":memory:"})
	require.Error(t, err)
}

func TestNilStoreGuards(t *testing.T) {
	var s *Store

	require.NoError(t, s.Close())
	require.Empty(t, s.Driver())

	require.Error(t, s.RecordRequest(t.Context(), regosRecordFixture()))
	_, err := s.ListRequests(t.Context(), RequestLogFilter{})
	require.Error(t, err)
	_, err = s.PruneRequests(t.Context(), fixedTime())
	require.Error(t, err)
	require.Error(t, s.SaveSnapshot(t.Context(), Snapshot{Report: "r"}))
	_, err = s.GetSnapshot(t.Context(), "c", "r", 1, 0, 0)
	require.Error(t, err)
}
