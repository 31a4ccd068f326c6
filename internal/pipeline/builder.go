package pipeline

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// Tolerance is the maximum allowed absolute difference between a rollup's
// total and the reading table's unrounded total.
const Tolerance = 0.001

// Build aggregates table at every primary granularity and validates the
// result. Levels are computed concurrently; none depends on another. Any
// validation failure aborts the build and no set is returned.
func Build(table *model.ReadingTable) (*model.AggregationSet, error) {
	if table == nil {
		return nil, errors.New("build: nil reading table")
	}

	levels := model.PrimaryGranularities()
	tables := make([]*model.RollupTable, len(levels))
	errs := make([]error, len(levels))

	var wg sync.WaitGroup
	wg.Add(len(levels))
	for i, g := range levels {
		go func() {
			defer wg.Done()
			tables[i], errs[i] = Aggregate(table, g)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	set := model.NewAggregationSet(tables...)
	if err := validate(table, set); err != nil {
		return nil, err
	}
	return set, nil
}

// yearKeyed lists the levels whose rows must carry a year.
var yearKeyed = []model.Granularity{model.Daily, model.Weekly, model.Monthly, model.Seasonal, model.Yearly}

// validate runs every cross-level check. There is no partial mode.
func validate(table *model.ReadingTable, set *model.AggregationSet) error {
	want := table.Total()

	for _, g := range []model.Granularity{model.Daily, model.Yearly} {
		t, ok := set.Get(g)
		if !ok {
			return fmt.Errorf("%w: %s rollup missing", ErrSchema, g)
		}
		if got := t.Total(); math.Abs(got-want) > Tolerance {
			return fmt.Errorf("%w: %s total %.3f, readings total %.3f", ErrAggregationConsistency, g, got, want)
		}
	}

	for _, g := range yearKeyed {
		t, ok := set.Get(g)
		if !ok {
			return fmt.Errorf("%w: %s rollup missing", ErrSchema, g)
		}
		for i := 0; i < t.Len(); i++ {
			if t.Row(i).Key.Year == 0 {
				return fmt.Errorf("%w: %s row %d has no year", ErrSchema, g, i)
			}
		}
	}

	readingYears := make(map[int]struct{})
	for _, y := range table.Years() {
		readingYears[y] = struct{}{}
	}
	for _, g := range set.Granularities() {
		t, _ := set.Get(g)
		for _, y := range t.Years() {
			if _, ok := readingYears[y]; !ok {
				return fmt.Errorf("%w: %s rollup has year %d", ErrYearLeakage, g, y)
			}
		}
	}

	daily, _ := set.Get(model.Daily)
	if span := table.DaySpan(); daily.Len() > span {
		return fmt.Errorf("%w: %d rows for %d days", ErrCardinality, daily.Len(), span)
	}
	return nil
}
