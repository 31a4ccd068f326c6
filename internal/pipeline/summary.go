package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// DataSummary describes a reading table.
type DataSummary struct {
	Records    int
	FirstDate  time.Time
	LastDate   time.Time
	Days       int
	Years      []int
	TotalKWh   float64
	MeanKWh    float64
	MaxKWh     float64
	MinKWh     float64
	Duplicates int // readings sharing a (date, time) with an earlier one
}

// LevelSummary describes the value column of one rollup or profile.
type LevelSummary struct {
	Level   string
	Records int
	Total   float64
	Mean    float64
	Max     float64
	Min     float64
}

// DescribeTable summarizes table. Values are rounded to Precision.
func DescribeTable(table *model.ReadingTable) DataSummary {
	s := DataSummary{
		Records:   table.Len(),
		FirstDate: table.FirstDate(),
		LastDate:  table.LastDate(),
		Days:      table.DaySpan(),
		Years:     table.Years(),
	}

	type instant struct {
		date time.Time
		at   model.Clock
	}
	seen := make(map[instant]struct{}, table.Len())
	stats := newRunning()
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		stats.add(r.EnergyKWh)
		k := instant{r.Date, r.Time}
		if _, dup := seen[k]; dup {
			s.Duplicates++
		}
		seen[k] = struct{}{}
	}
	s.TotalKWh, s.MeanKWh, s.MaxKWh, s.MinKWh = stats.rounded()
	return s
}

// SummarizeRollup summarizes one rollup table.
func SummarizeRollup(t *model.RollupTable) LevelSummary {
	stats := newRunning()
	for i := 0; i < t.Len(); i++ {
		stats.add(t.Row(i).EnergyKWh)
	}
	ls := LevelSummary{Level: string(t.Granularity()), Records: t.Len()}
	ls.Total, ls.Mean, ls.Max, ls.Min = stats.rounded()
	return ls
}

// SummarizeSet summarizes every table in set, finest level first.
func SummarizeSet(set *model.AggregationSet) []LevelSummary {
	var out []LevelSummary
	for _, g := range set.Granularities() {
		t, _ := set.Get(g)
		out = append(out, SummarizeRollup(t))
	}
	return out
}

// SummarizeProfile summarizes the averaged values of p.
func SummarizeProfile(p *model.Profile) LevelSummary {
	stats := newRunning()
	for _, r := range p.Rows() {
		stats.add(r.AvgEnergyKWh)
	}
	ls := LevelSummary{Level: string(p.Kind()), Records: p.Len()}
	ls.Total, ls.Mean, ls.Max, ls.Min = stats.rounded()
	return ls
}

type running struct {
	n             int
	sum, max, min float64
}

func newRunning() *running {
	return &running{max: math.Inf(-1), min: math.Inf(1)}
}

func (r *running) add(v float64) {
	r.n++
	r.sum += v
	r.max = math.Max(r.max, v)
	r.min = math.Min(r.min, v)
}

func (r *running) rounded() (total, mean, maxV, minV float64) {
	if r.n == 0 {
		return 0, 0, 0, 0
	}
	return round3(r.sum), round3(r.sum / float64(r.n)), round3(r.max), round3(r.min)
}
