package sqlite

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Driver names accepted in Params.Driver.
const (
	// DriverModernc is the pure Go modernc.org/sqlite driver.
	DriverModernc = "sqlite"
	// DriverMattn is the cgo github.com/mattn/go-sqlite3 driver.
	DriverMattn = "sqlite3"
)

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Driver selects the database/sql driver: "sqlite" (default) or "sqlite3".
	Driver string `mapstructure:"driver"`

	// BusyTimeout is how long a connection waits on a locked database, in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout"`

	// JournalMode sets the journal mode (e.g., "WAL", "DELETE").
	JournalMode string `mapstructure:"journal_mode"`

	// TxLock sets the BEGIN mode: "deferred", "immediate" or "exclusive".
	TxLock string `mapstructure:"txlock"`
}

// defaultBusyTimeout lets concurrent migrators wait on the history table lock.
const defaultBusyTimeout = 5000

// ParseParams decodes the adapter params map and applies defaults.
func ParseParams(raw map[string]any) (*Params, error) {
	params := &Params{}
	if len(raw) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           params,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create params decoder: %w", err)
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("failed to decode sqlite params: %w", err)
		}
	}

	if params.Driver == "" {
		params.Driver = DriverModernc
	}
	if params.Driver != DriverModernc && params.Driver != DriverMattn {
		return nil, fmt.Errorf("unknown sqlite driver %q (want %q or %q)", params.Driver, DriverModernc, DriverMattn)
	}
	switch params.TxLock {
	case "", "deferred", "immediate", "exclusive":
	default:
		return nil, fmt.Errorf("unknown sqlite txlock %q", params.TxLock)
	}
	if params.BusyTimeout == 0 {
		params.BusyTimeout = defaultBusyTimeout
	}
	return params, nil
}
