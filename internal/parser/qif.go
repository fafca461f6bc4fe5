package parser

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"reconbooks/internal/logger"
)

// ParseQIF parses a QIF statement with a line-oriented state machine:
// D starts a pending transaction and sets its date, T sets the amount
// (sign decides direction), P sets the description, ^ ends the block.
// A block is emitted only when its amount is strictly greater than zero,
// so zero-amount and amount-less blocks are dropped.
func ParseQIF(ctx context.Context, content string) ([]Row, error) {
	log := logger.FromContext(ctx)

	var rows []Row
	var pending *Row

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line[0] {
		case 'D':
			pending = &Row{}
			date, err := parseDate(line[1:])
			if err != nil {
				pending.Date = time.Now()
				pending.DateFallback = true
				log.Warn("qif_date_fallback", "value", line[1:])
			} else {
				pending.Date = date
			}
		case 'T':
			if pending == nil {
				continue
			}
			signed, err := strconv.ParseFloat(strings.ReplaceAll(line[1:], ",", ""), 64)
			if err != nil {
				log.Warn("qif_amount_skipped", "value", line[1:])
				continue
			}
			if signed < 0 {
				pending.Amount = -signed
			} else {
				pending.Amount = signed
			}
			pending.Direction = directionFor(signed)
		case 'P':
			if pending != nil {
				pending.Description = strings.TrimSpace(line[1:])
			}
		case '^':
			if pending != nil && pending.Amount > 0 {
				rows = append(rows, *pending)
			}
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
