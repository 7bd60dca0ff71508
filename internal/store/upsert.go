package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
)

// Upsert reconciles a freshly normalized batch against the category's
// catalog table.
//
// When the table is missing, or predates the identifier column, it is
// dropped and recreated from the batch's schema and every row is inserted
// individually; duplicate identifiers within the batch are skipped and
// counted, never fatal. Otherwise the batch is partitioned by identifier
// presence: unseen identifiers are inserted (again row by row, conflicts
// skipped), known identifiers get a full non-key-column overwrite. There is
// no delete path; equipment delisted upstream stays queryable forever.
func (s *Store) Upsert(cat model.Category, batch *model.Batch) (model.UpsertResult, error) {
	var res model.UpsertResult

	exists, err := s.TableExists(cat.Table)
	if err != nil {
		return res, err
	}

	hasID := false
	if exists {
		hasID, err = s.HasColumn(cat.Table, cat.IDColumn)
		if err != nil {
			return res, err
		}
	}

	if !exists || !hasID {
		if exists {
			if err := s.DropTable(cat.Table); err != nil {
				return res, err
			}
			res.Recreated = true
		}
		if err := s.CreateCatalog(cat.Table, cat.IDColumn, batch.Columns); err != nil {
			return res, err
		}
		for _, rec := range batch.Records {
			if err := s.InsertRecord(cat.Table, batch.Columns, rec); err != nil {
				if isConstraintErr(err) {
					res.Skipped++
					continue
				}
				return res, fmt.Errorf("failed to insert record: %w", err)
			}
			res.Inserted++
		}
		return res, nil
	}

	existing, err := s.ExistingIDs(cat.Table, cat.IDColumn)
	if err != nil {
		return res, err
	}

	for _, rec := range batch.Records {
		id, _ := rec.Get(cat.IDColumn)
		if _, known := existing[id]; !known {
			if err := s.InsertRecord(cat.Table, batch.Columns, rec); err != nil {
				if isConstraintErr(err) {
					// Duplicate identifier within the batch itself.
					res.Skipped++
					continue
				}
				return res, fmt.Errorf("failed to insert record %s: %w", id, err)
			}
			res.Inserted++
			continue
		}
		if err := s.UpdateRecord(cat.Table, cat.IDColumn, id, batch.Columns, rec); err != nil {
			return res, err
		}
		res.Updated++
	}
	return res, nil
}

func isConstraintErr(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return false
}
