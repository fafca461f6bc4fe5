package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"reconbooks/internal/logger"
)

// ParseCSV parses a headered CSV statement. Required columns are located by
// case-insensitive substring match on the header text ("date", "description",
// "amount"); a missing column fails the whole parse with ErrMissingColumn.
// Per-row leniency: unparsable amounts default to 0 and unparsable dates fall
// back to the current time with DateFallback set.
func ParseCSV(ctx context.Context, content string) ([]Row, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	dateCol, descCol, amountCol := -1, -1, -1
	for i, h := range header {
		lower := strings.ToLower(h)
		switch {
		case dateCol == -1 && strings.Contains(lower, "date"):
			dateCol = i
		case descCol == -1 && strings.Contains(lower, "description"):
			descCol = i
		case amountCol == -1 && strings.Contains(lower, "amount"):
			amountCol = i
		}
	}
	switch {
	case dateCol == -1:
		return nil, fmt.Errorf("csv header %q: %w", "date", ErrMissingColumn)
	case descCol == -1:
		return nil, fmt.Errorf("csv header %q: %w", "description", ErrMissingColumn)
	case amountCol == -1:
		return nil, fmt.Errorf("csv header %q: %w", "amount", ErrMissingColumn)
	}

	log := logger.FromContext(ctx)
	var rows []Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("csv_row_skipped", "error", err.Error())
			continue
		}
		if dateCol >= len(record) || descCol >= len(record) || amountCol >= len(record) {
			log.Warn("csv_row_skipped", "reason", "short row", "fields", len(record))
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[amountCol]), 64)
		if err != nil {
			amount = 0
		}

		row := Row{
			Description: strings.TrimSpace(record[descCol]),
			Amount:      math.Abs(amount),
			Direction:   directionFor(amount),
		}

		date, err := parseDate(record[dateCol])
		if err != nil {
			row.Date = time.Now()
			row.DateFallback = true
			log.Warn("csv_date_fallback", "value", record[dateCol])
		} else {
			row.Date = date
		}

		rows = append(rows, row)
	}
	return rows, nil
}
