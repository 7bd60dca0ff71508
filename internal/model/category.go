package model

// BindingMode selects how a category's sheet columns are bound to canonical
// fields.
type BindingMode int

const (
	// ModeFullSheet keeps every labeled column in sheet order. Used for
	// sources whose wide layout is worth preserving as-is.
	ModeFullSheet BindingMode = iota
	// ModeNamed scans column labels for configured substrings. Used for
	// sources whose column order drifts release to release.
	ModeNamed
	// ModePositional binds fields to fixed column indices. Used for sources
	// whose layout is stable release to release.
	ModePositional
)

// FallbackKind says what a named binding does when none of its patterns
// match a column label.
type FallbackKind int

const (
	// FallbackNone marks the binding as required; an unmatched required
	// binding fails the whole binding set.
	FallbackNone FallbackKind = iota
	// FallbackIndex falls back to a fixed positional column.
	FallbackIndex
	// FallbackLiteral fills the field with a fixed literal value.
	FallbackLiteral
	// FallbackNull leaves the field null.
	FallbackNull
)

// FieldBinding maps one canonical field to a source column.
type FieldBinding struct {
	Field    string
	Patterns []string // case-insensitive substrings, ModeNamed only
	Index    int      // source column for ModePositional or FallbackIndex
	Fallback FallbackKind
	Literal  string
	Date     bool // value is passed through date normalization
}

// Category is the full per-category ingestion configuration. The five
// equipment categories differ only in this data, not in code.
type Category struct {
	Name     string // db/table base name, e.g. "pv_modules"
	Title    string
	Filename string // DownloadtoExcel filename query parameter
	Table    string
	IDColumn string

	// Fields whose values form the record identifier.
	ManufacturerField string
	ModelField        string

	// 0-indexed sheet offsets. UnitsRow is -1 when the source sheet has no
	// units row.
	HeaderRow int
	UnitsRow  int
	DataRow   int

	Mode     BindingMode
	Bindings []FieldBinding
	// Reduced is the documented degraded binding set tried when the full set
	// cannot be satisfied. Nil means binding failures are fatal for the run.
	Reduced []FieldBinding
}

// Categories returns the built-in equipment categories in ingestion order.
func Categories() []Category {
	return []Category{
		pvModules(),
		inverters(),
		batteries(),
		energyStorage(),
		meters(),
	}
}

// CategoryByName looks up a built-in category.
func CategoryByName(name string) (Category, bool) {
	for _, c := range Categories() {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

func pvModules() Category {
	return Category{
		Name:              "pv_modules",
		Title:             "PV Modules",
		Filename:          "PVModuleList",
		Table:             "pv_modules",
		IDColumn:          "module_id",
		ManufacturerField: "Manufacturer",
		ModelField:        "Model Number",
		HeaderRow:         16,
		UnitsRow:          17,
		DataRow:           18,
		Mode:              ModeFullSheet,
	}
}

func inverters() Category {
	return Category{
		Name:              "inverters",
		Title:             "Inverters",
		Filename:          "InvertersList",
		Table:             "inverters",
		IDColumn:          "inverter_id",
		ManufacturerField: "Manufacturer Name",
		ModelField:        "Model Number1",
		HeaderRow:         14,
		UnitsRow:          15,
		DataRow:           16,
		Mode:              ModeFullSheet,
	}
}

func batteries() Category {
	full := []FieldBinding{
		{Field: "Manufacturer", Index: 0},
		{Field: "Model Number", Index: 2},
		{Field: "Chemistry", Index: 3},
		{Field: "Description", Index: 4},
		{Field: "Certifying Entity", Index: 5},
		{Field: "Certificate Date", Index: 6},
		{Field: "Capacity (kWh)", Index: 8},
		{Field: "Discharge Rate (kW)", Index: 9},
		{Field: "Round Trip Efficiency (%)", Index: 10},
		{Field: "Battery Listing Date", Index: 14},
		{Field: "Last Update", Index: 15},
	}
	// Degraded set drops the certification columns, matching the documented
	// minimal battery layout.
	reduced := []FieldBinding{
		{Field: "Manufacturer", Index: 0},
		{Field: "Model Number", Index: 2},
		{Field: "Chemistry", Index: 3},
		{Field: "Description", Index: 4},
		{Field: "Capacity (kWh)", Index: 8},
		{Field: "Discharge Rate (kW)", Index: 9},
		{Field: "Round Trip Efficiency (%)", Index: 10},
	}
	return Category{
		Name:              "batteries",
		Title:             "Batteries",
		Filename:          "BatteryList",
		Table:             "batteries",
		IDColumn:          "battery_id",
		ManufacturerField: "Manufacturer",
		ModelField:        "Model Number",
		HeaderRow:         12,
		UnitsRow:          -1,
		DataRow:           13,
		Mode:              ModePositional,
		Bindings:          full,
		Reduced:           reduced,
	}
}

func energyStorage() Category {
	full := []FieldBinding{
		{Field: "Manufacturer", Patterns: []string{"manufacturer name", "manufacturer"}, Index: 0, Fallback: FallbackIndex},
		{Field: "Model Number", Patterns: []string{"model number"}, Index: 2, Fallback: FallbackIndex},
		{Field: "Chemistry", Patterns: []string{"technology"}, Index: 3, Fallback: FallbackIndex},
		{Field: "Capacity (kWh)", Patterns: []string{"nameplate energy capacity"}, Index: 16, Fallback: FallbackIndex},
		{Field: "Continuous Power Rating (kW)", Patterns: []string{"nameplate power"}, Index: 17, Fallback: FallbackIndex},
		{Field: "Voltage (Vac)", Patterns: []string{"nominal voltage"}, Index: 18, Fallback: FallbackIndex},
		{Field: "Round Trip Efficiency (%)", Patterns: []string{"roundtrip efficiency"}, Fallback: FallbackNull},
		{Field: "Energy Storage Listing Date", Patterns: []string{"cec listing date"}, Index: 34, Fallback: FallbackIndex},
		{Field: "Last Update", Patterns: []string{"last update"}, Index: 35, Fallback: FallbackIndex},
	}
	reduced := []FieldBinding{
		{Field: "Manufacturer", Patterns: []string{"manufacturer"}, Index: 0, Fallback: FallbackIndex},
		{Field: "Model Number", Patterns: []string{"model number"}, Index: 2, Fallback: FallbackIndex},
		{Field: "Chemistry", Patterns: []string{"technology"}, Index: 3, Fallback: FallbackIndex},
	}
	return Category{
		Name:              "energy_storage",
		Title:             "Energy Storage",
		Filename:          "EnergyStorage",
		Table:             "energy_storage",
		IDColumn:          "storage_id",
		ManufacturerField: "Manufacturer",
		ModelField:        "Model Number",
		HeaderRow:         15,
		UnitsRow:          16,
		DataRow:           17,
		Mode:              ModeNamed,
		Bindings:          full,
		Reduced:           reduced,
	}
}

func meters() Category {
	full := []FieldBinding{
		{Field: "Manufacturer", Patterns: []string{"manufacturer"}, Index: 0, Fallback: FallbackIndex},
		{Field: "Model Number", Patterns: []string{"model"}, Index: 1, Fallback: FallbackIndex},
		{Field: "Display Type", Patterns: []string{"display type", "type"}, Fallback: FallbackLiteral, Literal: "Unknown"},
		{Field: "PBI Meter", Patterns: []string{"pbi"}, Fallback: FallbackLiteral, Literal: "Unknown"},
		{Field: "Note", Patterns: []string{"note"}, Fallback: FallbackNull},
		{Field: "Accuracy (%)", Patterns: []string{"accuracy"}, Fallback: FallbackLiteral, Literal: "Unknown"},
		{Field: "Meter Listing Date", Patterns: []string{"listing date", "cec listing"}, Fallback: FallbackNull, Date: true},
		{Field: "Last Update", Patterns: []string{"last update"}, Fallback: FallbackNull, Date: true},
	}
	reduced := []FieldBinding{
		{Field: "Manufacturer", Index: 0, Fallback: FallbackIndex},
		{Field: "Model Number", Index: 1, Fallback: FallbackIndex},
		{Field: "Display Type", Fallback: FallbackLiteral, Literal: "Unknown"},
		{Field: "Meter Listing Date", Fallback: FallbackNull, Date: true},
	}
	return Category{
		Name:              "meters",
		Title:             "Meters",
		Filename:          "MeterList",
		Table:             "meters",
		IDColumn:          "meter_id",
		ManufacturerField: "Manufacturer",
		ModelField:        "Model Number",
		HeaderRow:         7,
		UnitsRow:          -1,
		DataRow:           8,
		Mode:              ModeNamed,
		Bindings:          full,
		Reduced:           reduced,
	}
}
