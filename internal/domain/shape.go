package domain

// SchemaShape identifies which of the two supported feed formats a dataset
// conforms to.
type SchemaShape int

const (
	// ShapeCasesDeaths is the US aggregate feed: date, cases, deaths.
	ShapeCasesDeaths SchemaShape = iota
	// ShapeRecoveredByCountry is the multi-country feed: date, country_region, recovered.
	ShapeRecoveredByCountry
)

// Canonical column names shared by shape detection, validation, and projection.
const (
	colDate      = "date"
	colCases     = "cases"
	colDeaths    = "deaths"
	colCountry   = "country_region"
	colRecovered = "recovered"
)

// shapeSpec declares, per shape, the columns a dataset must carry and the
// columns the projection keeps. Selected once by DetectShape and threaded
// through the pipeline instead of re-inspecting source tags at every stage.
type shapeSpec struct {
	shape      SchemaShape
	required   []string
	projection []string
}

// shapeSpecs is ordered by precedence: when a column set satisfies both
// shapes, the first entry wins.
var shapeSpecs = []shapeSpec{
	{
		shape:      ShapeCasesDeaths,
		required:   []string{colDate, colCases, colDeaths},
		projection: []string{colDate, colCases, colDeaths},
	},
	{
		shape:      ShapeRecoveredByCountry,
		required:   []string{colDate, colCountry, colRecovered},
		projection: []string{colDate, colRecovered},
	},
}

func (s SchemaShape) String() string {
	switch s {
	case ShapeCasesDeaths:
		return "cases_deaths"
	case ShapeRecoveredByCountry:
		return "recovered_by_country"
	default:
		return "unknown"
	}
}

// RequiredColumns returns the canonical column set the shape demands.
func (s SchemaShape) RequiredColumns() []string {
	for _, spec := range shapeSpecs {
		if spec.shape == s {
			return append([]string(nil), spec.required...)
		}
	}
	return nil
}

// DetectShape matches a dataset's column set against the known shapes using
// case-insensitive subset containment; extra columns are ignored. It is a
// pure predicate over column names and never inspects rows, so structurally
// wrong input fails before any row-level work.
func DetectShape(d *RawDataset) (SchemaShape, error) {
	have := make(map[string]bool, len(d.Columns))
	for _, col := range d.Columns {
		have[CanonicalColumn(col)] = true
	}

	for _, spec := range shapeSpecs {
		if containsAll(have, spec.required) {
			return spec.shape, nil
		}
	}

	return 0, &SchemaMismatchError{
		Source:  d.Source,
		Columns: append([]string(nil), d.Columns...),
	}
}

func containsAll(have map[string]bool, want []string) bool {
	for _, col := range want {
		if !have[col] {
			return false
		}
	}
	return true
}
