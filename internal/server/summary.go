package server

import (
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
)

type dataDoc struct {
	Records    int     `json:"records"`
	FirstDate  string  `json:"first_date"`
	LastDate   string  `json:"last_date"`
	Days       int     `json:"days"`
	Years      []int   `json:"years"`
	TotalKWh   float64 `json:"total_kwh"`
	MeanKWh    float64 `json:"mean_kwh"`
	MaxKWh     float64 `json:"max_kwh"`
	MinKWh     float64 `json:"min_kwh"`
	Duplicates int     `json:"duplicate_rows"`
}

type levelDoc struct {
	Level   string  `json:"level"`
	Records int     `json:"records"`
	Total   float64 `json:"total_kwh"`
	Mean    float64 `json:"mean_kwh"`
	Max     float64 `json:"max_kwh"`
	Min     float64 `json:"min_kwh"`
}

type summaryDoc struct {
	Source    string     `json:"source,omitempty"`
	UptimeSec int64      `json:"uptime_sec"`
	Data      dataDoc    `json:"data"`
	Levels    []levelDoc `json:"levels"`
}

func newSummaryDoc(source string, table *model.ReadingTable, set *model.AggregationSet) summaryDoc {
	ds := pipeline.DescribeTable(table)
	doc := summaryDoc{
		Source: source,
		Data: dataDoc{
			Records:    ds.Records,
			FirstDate:  ds.FirstDate.Format(model.DateLayout),
			LastDate:   ds.LastDate.Format(model.DateLayout),
			Days:       ds.Days,
			Years:      ds.Years,
			TotalKWh:   ds.TotalKWh,
			MeanKWh:    ds.MeanKWh,
			MaxKWh:     ds.MaxKWh,
			MinKWh:     ds.MinKWh,
			Duplicates: ds.Duplicates,
		},
	}
	for _, ls := range pipeline.SummarizeSet(set) {
		doc.Levels = append(doc.Levels, levelDoc(ls))
	}
	return doc
}
