// Package source discovers and parses smart-meter CSV exports.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads one export file. A missing or unreadable file, or a
// header with fewer than three columns, is reported in Err. Individual bad
// rows are dropped and counted.
func ParseFile(df DiscoveredFile, opts Options) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	res := Parse(f, opts)
	res.File = df
	if res.Err != nil {
		res.Err = fmt.Errorf("parsing %s: %w", df.Path, res.Err)
	}
	return res
}

// Parse reads an export from r. The first three columns are taken to be
// date, time of day and energy in kWh, whatever the header calls them.
func Parse(r io.Reader, opts Options) ParseResult {
	opts = opts.withDefaults()
	br := bufio.NewReader(r)

	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := br.ReadSlice('\n'); err != nil {
			if errors.Is(err, bufio.ErrBufferFull) {
				// Overlong metadata line: drain the rest of it.
				i--
				continue
			}
			return ParseResult{Err: fmt.Errorf("skipping metadata line %d: %w", i+1, err)}
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = opts.Comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}
	if len(header) < 3 {
		return ParseResult{Err: fmt.Errorf("expected at least 3 columns, found %d", len(header))}
	}
	res := ParseResult{Header: append([]string(nil), header...)}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Dropped++
				continue
			}
			res.Err = fmt.Errorf("reading rows: %w", err)
			return res
		}
		if blankRecord(rec) {
			continue
		}
		reading, ok := ParseRecord(rec, opts)
		if !ok {
			res.Dropped++
			continue
		}
		res.Readings = append(res.Readings, reading)
	}
	return res
}

// ParseRecord converts one CSV record into a reading. It reports false when
// the record is short, a field is blank or malformed, or the energy value is
// negative or not finite.
func ParseRecord(rec []string, opts Options) (model.Reading, bool) {
	opts = opts.withDefaults()
	if len(rec) < 3 {
		return model.Reading{}, false
	}
	dateStr, timeStr, energyStr := cleanField(rec[0]), cleanField(rec[1]), cleanField(rec[2])
	if dateStr == "" || timeStr == "" || energyStr == "" {
		return model.Reading{}, false
	}

	date, err := time.Parse(opts.DateLayout, dateStr)
	if err != nil {
		return model.Reading{}, false
	}
	clock, err := time.Parse(opts.TimeLayout, timeStr)
	if err != nil {
		return model.Reading{}, false
	}
	kwh, err := strconv.ParseFloat(energyStr, 64)
	if err != nil || math.IsNaN(kwh) || math.IsInf(kwh, 0) || kwh < 0 {
		return model.Reading{}, false
	}

	return model.Reading{
		Date:      model.DateOf(date),
		Time:      model.ClockOf(clock),
		EnergyKWh: kwh,
	}, true
}

func cleanField(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
