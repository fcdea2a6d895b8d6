package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NormalizeCode trims and upper-cases code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCodeLength reports whether a normalized code has an acceptable length.
func ValidCodeLength(code string) bool {
	return len(code) >= MinCodeLength && len(code) <= MaxCodeLength
}

// Parse reads a gzipped promo stream with one CODE;PERCENT entry per line. Blank lines and
// lines starting with # are ignored. Malformed entries are skipped and counted.
func Parse(ctx context.Context, r io.Reader) (Set, int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	set := make(Set)
	skipped := 0

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineCount := 0
	for scanner.Scan() {
		if lineCount%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		lineCount++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		set[p.Code] = p
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read promo stream: %w", err)
	}

	return set, skipped, nil
}

func parseLine(line string) (Promo, bool) {
	code, rawPercent, found := strings.Cut(line, ";")
	if !found {
		return Promo{}, false
	}

	code = NormalizeCode(code)
	if !ValidCodeLength(code) {
		return Promo{}, false
	}

	percent, err := decimal.NewFromString(strings.TrimSpace(rawPercent))
	if err != nil || !percent.IsPositive() || percent.GreaterThan(hundred) {
		return Promo{}, false
	}

	return Promo{Code: code, Percent: percent}, true
}
