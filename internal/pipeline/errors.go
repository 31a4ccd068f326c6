package pipeline

import "errors"

// Aggregation failures. All are returned wrapped with context; match them
// with errors.Is.
var (
	// ErrUnsupportedGranularity is returned when a caller asks for an
	// undefined aggregation level.
	ErrUnsupportedGranularity = errors.New("unsupported granularity")

	// ErrAggregationConsistency means a rollup's total does not match the
	// reading table's total.
	ErrAggregationConsistency = errors.New("aggregation totals inconsistent")
	// ErrSchema means a rollup at daily-or-coarser resolution lacks a year key.
	ErrSchema = errors.New("rollup schema invalid")
	// ErrYearLeakage means a rollup contains a year the readings do not.
	ErrYearLeakage = errors.New("rollup year not present in readings")
	// ErrCardinality means the daily rollup has more rows than days spanned.
	ErrCardinality = errors.New("daily rollup exceeds day span")

	// ErrMissingDependency means a profile's source rollup is absent from the set.
	ErrMissingDependency = errors.New("missing rollup dependency")
	// ErrEmptyResult means filtering left no rows. A zero-valued result is
	// not empty.
	ErrEmptyResult = errors.New("no data in selected range")
)

// IsValidationError reports whether err came from a build's validation pass.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAggregationConsistency) ||
		errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrYearLeakage) ||
		errors.Is(err, ErrCardinality)
}
