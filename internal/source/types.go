package source

import "github.com/theirongolddev/powerlytics/internal/model"

// DiscoveredFile is a meter export found during path scanning.
type DiscoveredFile struct {
	Path string
	Name string // base file name
}

// Options controls how an export file is read.
type Options struct {
	SkipRows   int    // metadata lines before the header row
	DateLayout string // Go time layout of the date column
	TimeLayout string // Go time layout of the time-of-day column
	Comma      rune   // field separator
}

// DefaultOptions matches the utility's smart-meter export: 12 metadata lines,
// DD/MM/YYYY dates and HH:MM times.
func DefaultOptions() Options {
	return Options{
		SkipRows:   12,
		DateLayout: "02/01/2006",
		TimeLayout: "15:04",
		Comma:      ',',
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SkipRows < 0 {
		o.SkipRows = 0
	}
	if o.DateLayout == "" {
		o.DateLayout = d.DateLayout
	}
	if o.TimeLayout == "" {
		o.TimeLayout = d.TimeLayout
	}
	if o.Comma == 0 {
		o.Comma = d.Comma
	}
	return o
}

// ParseResult holds the output of parsing one export file.
type ParseResult struct {
	File     DiscoveredFile
	Header   []string
	Readings []model.Reading
	Dropped  int // data rows rejected during cleaning
	Err      error
}
