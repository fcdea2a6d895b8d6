package promo

import (
	"compress/gzip"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Write encodes promos as a gzipped CODE;PERCENT stream readable by Parse, sorted by code.
func Write(w io.Writer, promos []Promo) error {
	sorted := slices.Clone(promos)
	for i := range sorted {
		sorted[i].Code = NormalizeCode(sorted[i].Code)
	}
	slices.SortFunc(sorted, func(a, b Promo) int { return strings.Compare(a.Code, b.Code) })

	gz := gzip.NewWriter(w)
	for _, p := range sorted {
		if _, err := fmt.Fprintf(gz, "%s;%s\n", p.Code, p.Percent.String()); err != nil {
			_ = gz.Close()
			return fmt.Errorf("failed to write promo %s: %w", p.Code, err)
		}
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish promo stream: %w", err)
	}
	return nil
}
