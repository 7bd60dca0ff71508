package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
)

// DateAddedColumn records the ingestion wall-clock time on every record.
const DateAddedColumn = "Date Added to Tool"

// resolvedBinding is a binding with its source decided: a column index, a
// literal, or null.
type resolvedBinding struct {
	field   string
	index   int // -1 when the value does not come from a column
	literal *string
	date    bool
}

// Normalize maps a raw sheet into a batch of canonical records for one
// category. The clock value is passed in explicitly so runs are
// deterministic and testable. The returned bool reports whether the
// category's reduced binding set had to be used.
func Normalize(raw RawSheet, cat model.Category, now time.Time) (*model.Batch, bool, error) {
	labels, err := ColumnLabels(raw, cat.HeaderRow, cat.UnitsRow)
	if err != nil {
		return nil, false, err
	}

	var dataRows RawSheet
	if cat.DataRow < len(raw) {
		dataRows = raw[cat.DataRow:]
	}

	if cat.Mode == model.ModeFullSheet {
		batch, err := normalizeFullSheet(labels, dataRows, cat, now)
		return batch, false, err
	}

	resolved, err := resolveBindings(cat.Mode, cat.Bindings, labels)
	fallbackUsed := false
	if err != nil {
		if cat.Reduced == nil {
			return nil, false, fmt.Errorf("%s: %w", cat.Name, err)
		}
		resolved, err = resolveBindings(cat.Mode, cat.Reduced, labels)
		if err != nil {
			return nil, false, fmt.Errorf("%s: reduced binding set also unsatisfiable: %w", cat.Name, err)
		}
		fallbackUsed = true
	}

	batch := buildBatch(resolved, dataRows, cat, now)
	return batch, fallbackUsed, nil
}

// resolveBindings decides a source for every binding or reports the set as
// unsatisfiable. Named bindings scan labels in original column order and
// take the first label containing any configured pattern, case-insensitive.
func resolveBindings(mode model.BindingMode, bindings []model.FieldBinding, labels []string) ([]resolvedBinding, error) {
	lowered := make([]string, len(labels))
	for i, l := range labels {
		lowered[i] = strings.ToLower(l)
	}

	resolved := make([]resolvedBinding, 0, len(bindings))
	for _, b := range bindings {
		rb := resolvedBinding{field: b.Field, index: -1, date: b.Date}

		if mode == model.ModePositional {
			if b.Index >= len(labels) {
				return nil, fmt.Errorf("field %q: source column %d missing (sheet has %d columns)", b.Field, b.Index, len(labels))
			}
			rb.index = b.Index
			resolved = append(resolved, rb)
			continue
		}

		if idx, ok := matchLabel(lowered, b.Patterns); ok {
			rb.index = idx
			resolved = append(resolved, rb)
			continue
		}

		switch b.Fallback {
		case model.FallbackIndex:
			if b.Index >= len(labels) {
				return nil, fmt.Errorf("field %q: no label match and fallback column %d missing", b.Field, b.Index)
			}
			rb.index = b.Index
		case model.FallbackLiteral:
			lit := b.Literal
			rb.literal = &lit
		case model.FallbackNull:
			// leave index -1, literal nil
		default:
			return nil, fmt.Errorf("field %q: no column label matches %v", b.Field, b.Patterns)
		}
		resolved = append(resolved, rb)
	}
	return resolved, nil
}

func matchLabel(lowered []string, patterns []string) (int, bool) {
	for i, label := range lowered {
		if label == "" {
			continue
		}
		for _, p := range patterns {
			if strings.Contains(label, strings.ToLower(p)) {
				return i, true
			}
		}
	}
	return 0, false
}

func buildBatch(resolved []resolvedBinding, dataRows RawSheet, cat model.Category, now time.Time) *model.Batch {
	columns := make([]string, 0, len(resolved)+2)
	for _, rb := range resolved {
		columns = append(columns, rb.field)
	}
	columns = append(columns, DateAddedColumn, cat.IDColumn)

	added := now.Format("2006-01-02 15:04:05")

	batch := &model.Batch{Columns: columns}
	for _, row := range dataRows {
		if rowBlank(row) {
			continue
		}
		rec := model.Record{}
		for _, rb := range resolved {
			rec[rb.field] = resolveValue(rb, row)
		}
		rec[DateAddedColumn] = model.String(added)
		rec[cat.IDColumn] = model.String(Identifier(rec, cat.ManufacturerField, cat.ModelField))
		batch.Records = append(batch.Records, rec)
	}
	return batch
}

func resolveValue(rb resolvedBinding, row []string) *string {
	if rb.index < 0 {
		if rb.literal != nil {
			v := *rb.literal
			return &v
		}
		return nil
	}
	v := cellAt(row, rb.index)
	if rb.date {
		return NormalizeDate(v)
	}
	if v == "" {
		return nil
	}
	return &v
}

// normalizeFullSheet keeps every labeled column in sheet order. Duplicate
// labels get a numeric suffix so the derived table schema stays valid; the
// identifier fields are located by exact label.
func normalizeFullSheet(labels []string, dataRows RawSheet, cat model.Category, now time.Time) (*model.Batch, error) {
	type keptColumn struct {
		name  string
		index int
	}

	seen := map[string]int{}
	kept := make([]keptColumn, 0, len(labels))
	for i, label := range labels {
		if label == "" {
			continue
		}
		name := label
		if n := seen[label]; n > 0 {
			name = fmt.Sprintf("%s%d", label, n)
		}
		seen[label]++
		kept = append(kept, keptColumn{name: name, index: i})
	}

	hasMfr, hasModel := false, false
	for _, k := range kept {
		if k.name == cat.ManufacturerField {
			hasMfr = true
		}
		if k.name == cat.ModelField {
			hasModel = true
		}
	}
	if !hasMfr || !hasModel {
		return nil, fmt.Errorf("%s: identifier columns %q/%q not found in sheet", cat.Name, cat.ManufacturerField, cat.ModelField)
	}

	columns := make([]string, 0, len(kept)+2)
	for _, k := range kept {
		columns = append(columns, k.name)
	}
	columns = append(columns, DateAddedColumn, cat.IDColumn)

	added := now.Format("2006-01-02 15:04:05")

	batch := &model.Batch{Columns: columns}
	for _, row := range dataRows {
		if rowBlank(row) {
			continue
		}
		rec := model.Record{}
		for _, k := range kept {
			if v := cellAt(row, k.index); v != "" {
				rec[k.name] = model.String(v)
			} else {
				rec[k.name] = nil
			}
		}
		rec[DateAddedColumn] = model.String(added)
		rec[cat.IDColumn] = model.String(Identifier(rec, cat.ManufacturerField, cat.ModelField))
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
