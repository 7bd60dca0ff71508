package model

import "time"

// Record is one normalized equipment row. Keys are canonical column names;
// a nil value is persisted as SQL NULL.
type Record map[string]*string

// Get returns the value for a column, treating nil and missing the same way.
func (r Record) Get(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Batch couples normalized records with their ordered column list so a
// catalog table schema can be derived from the first successful
// normalization.
type Batch struct {
	Columns []string
	Records []Record
}

// UpsertResult reports the outcome of reconciling a batch against a catalog
// table. These counts are the only observable signals of an upsert.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	// Recreated is set when an existing table had to be dropped because it
	// lacked the identifier column.
	Recreated bool `json:"recreated"`
}

// Report summarizes one ingestion run for a single category.
type Report struct {
	RunID        string        `json:"runId"`
	Category     string        `json:"category"`
	Status       string        `json:"status"` // ok/skipped/error
	RowsParsed   int           `json:"rowsParsed"`
	Inserted     int           `json:"inserted"`
	Updated      int           `json:"updated"`
	Skipped      int           `json:"skipped"`
	Recreated    bool          `json:"recreated"`
	FallbackUsed bool          `json:"fallbackUsed"`
	Attempts     int           `json:"attempts"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// String returns a pointer to s, for building Record literals.
func String(s string) *string {
	return &s
}
