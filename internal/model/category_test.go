package model

import "testing"

func TestCategoriesComplete(t *testing.T) {
	t.Parallel()

	cats := Categories()
	if len(cats) != 5 {
		t.Fatalf("got %d categories, want 5", len(cats))
	}

	seen := map[string]bool{}
	for _, cat := range cats {
		if seen[cat.Name] {
			t.Errorf("duplicate category %s", cat.Name)
		}
		seen[cat.Name] = true

		if cat.Filename == "" || cat.Table == "" || cat.IDColumn == "" {
			t.Errorf("%s: incomplete wiring: %+v", cat.Name, cat)
		}
		if cat.ManufacturerField == "" || cat.ModelField == "" {
			t.Errorf("%s: identifier fields missing", cat.Name)
		}
		if cat.DataRow <= cat.HeaderRow {
			t.Errorf("%s: data row %d must follow header row %d", cat.Name, cat.DataRow, cat.HeaderRow)
		}
		if cat.Mode != ModeFullSheet && len(cat.Bindings) == 0 {
			t.Errorf("%s: binding-driven mode without bindings", cat.Name)
		}
	}
}

func TestCategoryByName(t *testing.T) {
	t.Parallel()

	cat, ok := CategoryByName("pv_modules")
	if !ok {
		t.Fatal("pv_modules not found")
	}
	if cat.Filename != "PVModuleList" {
		t.Errorf("filename = %q", cat.Filename)
	}

	if _, ok := CategoryByName("widgets"); ok {
		t.Error("unknown category must not resolve")
	}
}

func TestRecordGet(t *testing.T) {
	t.Parallel()

	rec := Record{"a": String("x"), "b": nil}
	if v, ok := rec.Get("a"); !ok || v != "x" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := rec.Get("b"); ok {
		t.Error("nil value must read as absent")
	}
	if _, ok := rec.Get("c"); ok {
		t.Error("missing key must read as absent")
	}
}
