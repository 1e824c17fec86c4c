// Package messages defines Bubbletea message types for the TUI.
// Messages carry storage results back into the Elm update loop.
package messages

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewTables lists the storage tables.
	ViewTables ViewType = iota
	// ViewKeys lists the keys of one table.
	ViewKeys
	// ViewRecord shows one stored value.
	ViewRecord
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewTables:
		return "tables"
	case ViewKeys:
		return "keys"
	case ViewRecord:
		return "record"
	default:
		return "unknown"
	}
}

// TablesLoaded carries the table names from the store.
type TablesLoaded struct {
	Tables []string
	Err    error
}

// KeysLoaded carries the keys of one table.
type KeysLoaded struct {
	Table string
	Keys  []string
	Err   error
}

// RecordLoaded carries one stored value.
type RecordLoaded struct {
	Table string
	Key   string
	Value any
	Found bool
	Err   error
}

// RecordRemoved signals a key was deleted.
type RecordRemoved struct {
	Table   string
	Key     string
	Removed bool
	Err     error
}
