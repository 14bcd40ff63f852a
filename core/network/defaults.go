package network

// defaultValues fills empty cells of the matching columns in every class.
var defaultValues = map[string]Value{
	"in_service":        Bool(true),
	"g_us_per_km":       Float(0),
	"g0_us_per_km":      Float(0),
	"r0_ohm_per_km":     Float(0),
	"x0_ohm_per_km":     Float(0),
	"c0_nf_per_km":      Float(0),
	"parallel":          Float(1),
	"df":                Float(1),
	"p_mw":              Float(0),
	"q_mvar":            Float(0),
	"const_z_percent":   Float(0),
	"const_i_percent":   Float(0),
	"scaling":           Float(1),
	"vk0_percent":       Float(0),
	"vkr0_percent":      Float(0),
	"mag0_percent":      Float(0),
	"mag0_rx":           Float(0),
	"si0_hv_partial":    Float(0),
	"shift_degree":      Float(0),
	"tap_step_percent":  Float(1),
	"tap_phase_shifter": Bool(false),
	"tap_step_degree":   Float(0),
	"vm_pu":             Float(1),
	"va_degree":         Float(0),
	"slack_weight":      Float(1),
	"tap_pos":           Float(0),
	"tap_neutral":       Float(0),
	"tap_min":           Float(0),
	"tap_max":           Float(1),
	"profile_mapping":   Float(-1),
	"current_source":    Bool(true),
}

// classDefaults are applied after defaultValues, for one class only.
var classDefaults = map[string]map[string]Value{
	"bus":  {"type": String("b")},
	"load": {"type": String("wye")},
}

// intColumns are cast to int64 after defaults are applied.
var intColumns = map[string]bool{
	"bus": true, "parallel": true, "from_bus": true, "to_bus": true, "element": true,
	"hv_bus": true, "lv_bus": true, "tap_pos": true, "tap_neutral": true,
	"tap_min": true, "tap_max": true, "profile_mapping": true,
}

// boolColumns are cast to bool after defaults are applied.
var boolColumns = map[string]bool{
	"current_source": true,
	"in_service":     true,
}

// geodataClasses hold a bracketed "coords" string column.
var geodataClasses = map[string]bool{
	"line_geodata": true,
}

// IndexColumn is the helper column every network sheet carries; it is
// dropped on load.
const IndexColumn = "idx"

// Default returns the default value of field for class, if any.
func Default(class, field string) (Value, bool) {
	if cd, ok := classDefaults[class]; ok {
		if v, ok := cd[field]; ok {
			return v, true
		}
	}
	v, ok := defaultValues[field]
	return v, ok
}

// IsIntColumn reports whether field is coerced to int64.
func IsIntColumn(field string) bool { return intColumns[field] }

// IsBoolColumn reports whether field is coerced to bool.
func IsBoolColumn(field string) bool { return boolColumns[field] }
