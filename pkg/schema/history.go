package schema

import (
	"time"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// History table layout. The table holds one row per applied migration and a
// single lock row coordinating upgrades between processes.
const (
	TableName = "schemaHistory"

	// LockID is the id of the lock row.
	LockID = "lock"
	// TypeLock marks the lock row.
	TypeLock = "lock"
	// TypeUpdate marks an applied migration.
	TypeUpdate = "update"
)

// HistoryTable is the schemaHistory table definition.
type HistoryTable struct {
	Table       *core.Table
	ID          *core.Column
	Time        *core.Column
	Process     *core.Column
	Type        *core.Column
	Description *core.Column
	Version     *core.Column
}

// SchemaHistory is the shared definition of the history table.
var SchemaHistory = newHistoryTable()

func newHistoryTable() *HistoryTable {
	h := &HistoryTable{
		ID:          core.NewColumn("id", core.Varchar(1024)).PrimaryKey(),
		Time:        core.NewColumn("time", core.Timestamp()),
		Process:     core.NewColumn("process", core.Varchar(255)),
		Type:        core.NewColumn("type", core.Varchar(1024)),
		Description: core.NewColumn("description", core.Varchar(1024)),
		Version:     core.NewColumn("version", core.Integer()),
	}
	h.Table = core.NewTable(TableName).
		Column(h.ID).
		Column(h.Time).
		Column(h.Process).
		Column(h.Type).
		Column(h.Description).
		Column(h.Version)
	return h
}

// Record is one row of the history table.
type Record struct {
	ID          string    `json:"id" yaml:"id"`
	Time        time.Time `json:"time" yaml:"time"`
	Process     string    `json:"process" yaml:"process"`
	Type        string    `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	Version     int64     `json:"version" yaml:"version"`
}

// Lock is the state of the lock row.
type Lock struct {
	Held        bool      `json:"held" yaml:"held"`
	Process     string    `json:"process,omitempty" yaml:"process,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Since       time.Time `json:"since" yaml:"since"`
}
