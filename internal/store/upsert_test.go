package store

import (
	"path/filepath"
	"testing"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
)

func testCategory() model.Category {
	return model.Category{
		Name:              "meters",
		Table:             "meters",
		IDColumn:          "meter_id",
		ManufacturerField: "Manufacturer",
		ModelField:        "Model Number",
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "meters.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBatch(rows ...[3]string) *model.Batch {
	batch := &model.Batch{
		Columns: []string{"Manufacturer", "Model Number", "Accuracy (%)", "meter_id"},
	}
	for _, row := range rows {
		rec := model.Record{
			"Manufacturer": model.String(row[0]),
			"Model Number": model.String(row[1]),
			"meter_id":     model.String(row[0] + "_" + row[1]),
		}
		if row[2] != "" {
			rec["Accuracy (%)"] = model.String(row[2])
		} else {
			rec["Accuracy (%)"] = nil
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch
}

func TestUpsertCreatesAndInserts(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cat := testCategory()

	res, err := s.Upsert(cat, testBatch(
		[3]string{"Acme", "M-1", "0.5"},
		[3]string{"Acme", "M-2", "0.5"},
		[3]string{"Bolt", "M-1", "1.0"},
	))
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if res.Inserted != 3 || res.Updated != 0 || res.Skipped != 0 {
		t.Fatalf("got %+v, want 3 inserted", res)
	}
	if res.Recreated {
		t.Fatal("fresh database must not report a recreated table")
	}

	ids, err := s.ExistingIDs(cat.Table, cat.IDColumn)
	if err != nil {
		t.Fatalf("failed to read ids: %v", err)
	}
	for _, id := range []string{"Acme_M-1", "Acme_M-2", "Bolt_M-1"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("identifier %s missing", id)
		}
	}
}

func TestUpsertOverwritesKnownRows(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cat := testCategory()

	if _, err := s.Upsert(cat, testBatch([3]string{"Acme", "M-1", "0.5"})); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	res, err := s.Upsert(cat, testBatch([3]string{"Acme", "M-1", "2.0"}))
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if res.Inserted != 0 || res.Updated != 1 || res.Skipped != 0 {
		t.Fatalf("got %+v, want 1 updated", res)
	}

	records, _, err := s.ReadAll(cat, QueryOptions{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d rows, want 1", len(records))
	}
	if got, _ := records[0].Get("Accuracy (%)"); got != "2.0" {
		t.Errorf("accuracy = %q, want 2.0 after overwrite", got)
	}
}

func TestUpsertOverwriteWritesNulls(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cat := testCategory()

	if _, err := s.Upsert(cat, testBatch([3]string{"Acme", "M-1", "0.5"})); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if _, err := s.Upsert(cat, testBatch([3]string{"Acme", "M-1", ""})); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	records, _, err := s.ReadAll(cat, QueryOptions{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if records[0]["Accuracy (%)"] != nil {
		t.Error("accuracy should be null after overwrite with a null value")
	}
}

func TestUpsertSkipsDuplicateIdentifiersWithinBatch(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cat := testCategory()

	res, err := s.Upsert(cat, testBatch(
		[3]string{"Acme", "M-1", "0.5"},
		[3]string{"Acme", "M-1", "9.9"},
	))
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if res.Inserted != 1 || res.Skipped != 1 {
		t.Fatalf("got %+v, want 1 inserted 1 skipped", res)
	}

	count, err := s.CountRows(cat, QueryOptions{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d rows, want 1", count)
	}
}

func TestUpsertRecreatesTableWithoutIdentifierColumn(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cat := testCategory()

	// Legacy shape: no identifier column.
	if _, err := s.DB().Exec(`CREATE TABLE meters ("Manufacturer" TEXT, "Model Number" TEXT)`); err != nil {
		t.Fatalf("failed to create legacy table: %v", err)
	}
	if _, err := s.DB().Exec(`INSERT INTO meters VALUES ('Old', 'M-0')`); err != nil {
		t.Fatalf("failed to seed legacy table: %v", err)
	}

	res, err := s.Upsert(cat, testBatch([3]string{"Acme", "M-1", "0.5"}))
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !res.Recreated {
		t.Fatal("expected the legacy table to be dropped and recreated")
	}
	if res.Inserted != 1 {
		t.Fatalf("got %+v, want 1 inserted", res)
	}

	records, _, err := s.ReadAll(cat, QueryOptions{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d rows, want 1; legacy rows must not survive", len(records))
	}
}

func TestReadAllFilters(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cat := testCategory()

	if _, err := s.Upsert(cat, testBatch(
		[3]string{"Acme", "M-1", "0.5"},
		[3]string{"Acme", "M-2", "0.5"},
		[3]string{"Bolt", "X-1", "1.0"},
	)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	records, _, err := s.ReadAll(cat, QueryOptions{Manufacturer: "Acme"})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("manufacturer filter: got %d rows, want 2", len(records))
	}

	records, _, err = s.ReadAll(cat, QueryOptions{Search: "X-"})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("search filter: got %d rows, want 1", len(records))
	}

	records, _, err = s.ReadAll(cat, QueryOptions{IDs: []string{"Acme_M-2", "Bolt_X-1"}})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ids filter: got %d rows, want 2", len(records))
	}

	records, _, err = s.ReadAll(cat, QueryOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("pagination: got %d rows, want 1", len(records))
	}
	if got, _ := records[0].Get("meter_id"); got != "Acme_M-2" {
		t.Errorf("pagination order: got %q, want Acme_M-2", got)
	}

	values, err := s.Distinct(cat.Table, cat.ManufacturerField)
	if err != nil {
		t.Fatalf("distinct failed: %v", err)
	}
	if len(values) != 2 || values[0] != "Acme" || values[1] != "Bolt" {
		t.Errorf("distinct manufacturers = %v", values)
	}
}
