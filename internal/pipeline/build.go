package pipeline

import (
	"fmt"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

// BuildDataset runs the validation-and-merge core over the two fetched feeds:
// schema detection, value validation, normalization, projection, merge. It
// fails fast on the first stage error so no later stage touches a dataset that
// an earlier one rejected, and never returns a partial result.
//
// The datasets may arrive in either order; shape detection assigns their
// roles, so nothing downstream branches on the source id.
func BuildDataset(first, second *domain.RawDataset, country string) (domain.CanonicalDataset, error) {
	datasets := []*domain.RawDataset{first, second}
	shapes := make([]domain.SchemaShape, len(datasets))

	for i, ds := range datasets {
		shape, err := domain.DetectShape(ds)
		if err != nil {
			return nil, &domain.StageError{Stage: domain.StageSchema, Source: ds.Source, Err: err}
		}
		shapes[i] = shape
	}
	if shapes[0] == shapes[1] {
		return nil, &domain.StageError{
			Stage: domain.StageSchema,
			Err:   fmt.Errorf("both datasets match shape %s; need one of each", shapes[0]),
		}
	}

	for i, ds := range datasets {
		if err := domain.ValidateValues(ds, shapes[i], country); err != nil {
			return nil, &domain.StageError{Stage: domain.StageValues, Source: ds.Source, Err: err}
		}
	}

	for _, ds := range datasets {
		if err := domain.Normalize(ds); err != nil {
			return nil, &domain.StageError{Stage: domain.StageNormalize, Source: ds.Source, Err: err}
		}
	}

	var (
		cases     []domain.CaseDeathPoint
		recovered []domain.RecoveredPoint
	)
	for i, ds := range datasets {
		var err error
		switch shapes[i] {
		case domain.ShapeCasesDeaths:
			cases, err = domain.ProjectCasesDeaths(ds)
		case domain.ShapeRecoveredByCountry:
			recovered, err = domain.ProjectRecovered(ds, country)
		}
		if err != nil {
			return nil, &domain.StageError{Stage: domain.StageProject, Source: ds.Source, Err: err}
		}
	}

	merged, err := domain.Merge(cases, recovered)
	if err != nil {
		return nil, &domain.StageError{Stage: domain.StageMerge, Err: err}
	}
	return merged, nil
}
