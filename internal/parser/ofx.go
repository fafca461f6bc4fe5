package parser

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"reconbooks/internal/logger"
)

var (
	stmtTrnRegex = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
)

// ofxField extracts the value following an SGML-style <TAG> inside a block.
// OFX 1.x tags are not closed, so the value runs to the next tag or newline.
func ofxField(block, tag string) string {
	r := regexp.MustCompile(fmt.Sprintf(`<%s>([^<\r\n]*)`, tag))
	if m := r.FindStringSubmatch(block); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseOFX extracts each <STMTTRN> block and reads DTPOSTED, TRNAMT and MEMO
// from it. A block is emitted only when it carries a non-empty, parsable date
// and a non-zero amount; bad blocks are logged and skipped so one broken
// transaction does not discard the rest of the statement.
func ParseOFX(ctx context.Context, content string) ([]Row, error) {
	log := logger.FromContext(ctx)

	var rows []Row
	for _, match := range stmtTrnRegex.FindAllStringSubmatch(content, -1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		block := match[1]

		dateStr := ofxField(block, "DTPOSTED")
		amountStr := ofxField(block, "TRNAMT")
		memo := ofxField(block, "MEMO")

		if dateStr == "" {
			log.Warn("ofx_block_skipped", "reason", "missing DTPOSTED")
			continue
		}

		signed, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || signed == 0 {
			log.Warn("ofx_block_skipped", "reason", "missing or zero TRNAMT", "value", amountStr)
			continue
		}

		date, err := parseOFXDate(dateStr)
		if err != nil {
			log.Warn("ofx_block_skipped", "reason", "bad DTPOSTED", "value", dateStr, "error", err.Error())
			continue
		}

		rows = append(rows, Row{
			Date:        date,
			Description: memo,
			Amount:      math.Abs(signed),
			Direction:   directionFor(signed),
		})
	}
	return rows, nil
}

// parseOFXDate reads the leading YYYYMMDD of an OFX DTPOSTED value, which
// may carry a time and timezone suffix (e.g. 20250105120000[-3:BRT]).
func parseOFXDate(s string) (time.Time, error) {
	if len(s) < 8 {
		return time.Time{}, fmt.Errorf("ofx date too short: %q", s)
	}
	return time.Parse("20060102", s[:8])
}
