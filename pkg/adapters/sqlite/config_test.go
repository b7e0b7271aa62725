package sqlite

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    *Params
		wantErr string
	}{
		{
			name: "defaults",
			raw:  nil,
			want: &Params{Driver: DriverModernc, BusyTimeout: defaultBusyTimeout},
		},
		{
			name: "mattn with weak types",
			raw:  map[string]any{"driver": "sqlite3", "busy_timeout": "250", "journal_mode": "WAL"},
			want: &Params{Driver: DriverMattn, BusyTimeout: 250, JournalMode: "WAL"},
		},
		{
			name:    "unknown driver",
			raw:     map[string]any{"driver": "sqlcipher"},
			wantErr: "unknown sqlite driver",
		},
		{
			name: "immediate transactions",
			raw:  map[string]any{"txlock": "immediate"},
			want: &Params{Driver: DriverModernc, BusyTimeout: defaultBusyTimeout, TxLock: "immediate"},
		},
		{
			name:    "unknown txlock",
			raw:     map[string]any{"txlock": "eventually"},
			wantErr: "unknown sqlite txlock",
		},
		{
			name:    "unknown key",
			raw:     map[string]any{"cache": "shared"},
			wantErr: "failed to decode sqlite params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	t.Run("modernc", func(t *testing.T) {
		dsn := BuildDSN("/tmp/app.db", &Params{Driver: DriverModernc, BusyTimeout: 100, JournalMode: "WAL"})
		require.True(t, strings.HasPrefix(dsn, "file:/tmp/app.db?"))

		q, err := url.ParseQuery(strings.SplitN(dsn, "?", 2)[1])
		require.NoError(t, err)
		assert.Equal(t, []string{"busy_timeout(100)", "journal_mode(WAL)"}, q["_pragma"])
		assert.Equal(t, "sqlite", q.Get("_time_format"))
	})

	t.Run("mattn", func(t *testing.T) {
		dsn := BuildDSN("", &Params{Driver: DriverMattn, BusyTimeout: 100})
		assert.Equal(t, "file::memory:?_busy_timeout=100", dsn)
	})

	t.Run("txlock", func(t *testing.T) {
		dsn := BuildDSN("app.db", &Params{Driver: DriverMattn, BusyTimeout: 100, TxLock: "immediate"})
		assert.Equal(t, "file:app.db?_busy_timeout=100&_txlock=immediate", dsn)
	})
}
