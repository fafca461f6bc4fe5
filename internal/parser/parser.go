// Package parser converts raw CSV, QIF and OFX statement text into a
// normalized sequence of transaction rows.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reconbooks/internal/models"
)

// Format identifies a supported statement file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatQIF Format = "qif"
	FormatOFX Format = "ofx"
)

// ErrMissingColumn is returned when a CSV header lacks a required column.
// It aborts the whole parse.
var ErrMissingColumn = errors.New("missing required column")

// ErrUnknownFormat is returned for formats Parse does not handle.
var ErrUnknownFormat = errors.New("unknown statement format")

// Row is one normalized statement line. Amount is always non-negative;
// Direction carries the sign of the original value.
type Row struct {
	Date        time.Time
	Description string
	Amount      float64
	Direction   string // models.DirectionCredit or models.DirectionDebit
	// DateFallback is set when the source date failed to parse and the
	// row defaulted to the parse time.
	DateFallback bool
}

// Parse dispatches content to the parser for the given format. The returned
// rows are a single pass over the text; parsing stops early if ctx is
// cancelled.
func Parse(ctx context.Context, format Format, content string) ([]Row, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(ctx, content)
	case FormatQIF:
		return ParseQIF(ctx, content)
	case FormatOFX:
		return ParseOFX(ctx, content)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// dateLayouts are tried in order when parsing statement dates.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"01/02/06",
	"02-01-2006",
}

// parseDate tries the known statement date layouts.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func directionFor(signed float64) string {
	if signed < 0 {
		return models.DirectionDebit
	}
	return models.DirectionCredit
}
