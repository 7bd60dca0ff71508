package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
)

// quoteIdent quotes a column or table name for SQLite. Spreadsheet-derived
// column names carry spaces, parentheses and percent signs.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TableExists reports whether the named table exists.
func (s *Store) TableExists(table string) (bool, error) {
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe table %s: %w", table, err)
	}
	return true, nil
}

// HasColumn reports whether the table carries the named column. Used to
// detect catalogs written before the identifier column existed.
func (s *Store) HasColumn(table, column string) (bool, error) {
	columns, err := s.Columns(table)
	if err != nil {
		return false, err
	}
	for _, c := range columns {
		if c == column {
			return true, nil
		}
	}
	return false, nil
}

// Columns returns the table's column names in declaration order.
func (s *Store) Columns(table string) ([]string, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// DropTable removes the table entirely.
func (s *Store) DropTable(table string) error {
	if _, err := s.db.Exec("DROP TABLE " + quoteIdent(table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}

// CreateCatalog creates the catalog table: every column TEXT, the identifier
// column TEXT PRIMARY KEY. The schema comes straight from the normalized
// batch; there are no migrations beyond drop-and-recreate.
func (s *Store) CreateCatalog(table, idColumn string, columns []string) error {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == idColumn {
			defs = append(defs, quoteIdent(col)+" TEXT PRIMARY KEY")
		} else {
			defs = append(defs, quoteIdent(col)+" TEXT")
		}
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// ExistingIDs returns the set of identifiers already present in the table.
func (s *Store) ExistingIDs(table, idColumn string) (map[string]struct{}, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM %s", quoteIdent(idColumn), quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read identifiers: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		if id.Valid {
			ids[id.String] = struct{}{}
		}
	}
	return ids, rows.Err()
}

// InsertRecord inserts one record. A constraint violation is returned as-is
// so the upsert engine can count it as a skipped duplicate.
func (s *Store) InsertRecord(table string, columns []string, rec model.Record) error {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		marks[i] = "?"
		args[i] = nullable(rec[col])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	_, err := s.db.Exec(query, args...)
	return err
}

// UpdateRecord overwrites every non-key column of the row addressed by id,
// including writing NULLs. Last write wins; no prior-value comparison.
func (s *Store) UpdateRecord(table, idColumn, id string, columns []string, rec model.Record) error {
	sets := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns)+1)
	for _, col := range columns {
		if col == idColumn {
			continue
		}
		sets = append(sets, quoteIdent(col)+" = ?")
		args = append(args, nullable(rec[col]))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdent(table), strings.Join(sets, ", "), quoteIdent(idColumn))
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", id, err)
	}
	return nil
}

// QueryOptions filter a catalog read. All matching is textual; numeric
// typing is the consumer's job.
type QueryOptions struct {
	Manufacturer string   // exact match on the manufacturer column
	Search       string   // substring over manufacturer and model columns
	IDs          []string // restrict to these identifiers
	Limit        int
	Offset       int
}

// ReadAll returns matching records plus the table's column order.
func (s *Store) ReadAll(cat model.Category, opts QueryOptions) ([]model.Record, []string, error) {
	columns, err := s.Columns(cat.Table)
	if err != nil {
		return nil, nil, err
	}

	where, args := buildWhere(cat, columns, opts)
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s",
		quoteIdent(cat.Table), where, quoteIdent(cat.IDColumn))
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query %s: %w", cat.Table, err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec := model.Record{}
		for i, col := range columns {
			if values[i].Valid {
				v := values[i].String
				rec[col] = &v
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}
	return records, columns, rows.Err()
}

// CountRows counts rows matching the filters, ignoring limit/offset.
func (s *Store) CountRows(cat model.Category, opts QueryOptions) (int, error) {
	columns, err := s.Columns(cat.Table)
	if err != nil {
		return 0, err
	}
	where, args := buildWhere(cat, columns, opts)
	var count int
	err = s.db.QueryRow("SELECT COUNT(*) FROM "+quoteIdent(cat.Table)+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", cat.Table, err)
	}
	return count, nil
}

// Distinct returns the sorted distinct non-null values of one column.
func (s *Store) Distinct(table, column string) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s",
		quoteIdent(column), quoteIdent(table), quoteIdent(column), quoteIdent(column))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// buildWhere assembles the filter clause. Filters referring to columns the
// table does not carry are ignored rather than failing the query.
func buildWhere(cat model.Category, columns []string, opts QueryOptions) (string, []interface{}) {
	has := make(map[string]bool, len(columns))
	for _, c := range columns {
		has[c] = true
	}

	var clauses []string
	var args []interface{}

	if opts.Manufacturer != "" && has[cat.ManufacturerField] {
		clauses = append(clauses, quoteIdent(cat.ManufacturerField)+" = ?")
		args = append(args, opts.Manufacturer)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		var parts []string
		if has[cat.ManufacturerField] {
			parts = append(parts, quoteIdent(cat.ManufacturerField)+" LIKE ?")
			args = append(args, like)
		}
		if has[cat.ModelField] {
			parts = append(parts, quoteIdent(cat.ModelField)+" LIKE ?")
			args = append(args, like)
		}
		if len(parts) > 0 {
			clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
		}
	}
	if len(opts.IDs) > 0 {
		marks := make([]string, len(opts.IDs))
		for i, id := range opts.IDs {
			marks[i] = "?"
			args = append(args, id)
		}
		clauses = append(clauses, quoteIdent(cat.IDColumn)+" IN ("+strings.Join(marks, ", ")+")")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullable(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
