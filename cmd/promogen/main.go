// Command promogen writes sample gzipped promo files for local development.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"restaurante/internal/promo"

	"github.com/shopspring/decimal"
)

// samples maps each file to its CODE;PERCENT entries. A code present in several files takes
// the percentage from the last file listed in PROMO_FILES.
var samples = map[string]map[string]string{
	"promos-base.gz": {
		"BEMVINDO":    "10",
		"PIZZA10":     "10",
		"SUSHI15":     "15",
		"FRETEGRATIS": "5",
	},
	"promos-sazonal.gz": {
		"VERAO2026": "20",
		"INVERNO26": "12.5",
		"BEMVINDO":  "15",
	},
}

func main() {
	dir := flag.String("dir", "data/promos", "directory to write promo files to")
	flag.Parse()

	if err := run(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for name, entries := range samples {
		promos := make([]promo.Promo, 0, len(entries))
		for code, percent := range entries {
			promos = append(promos, promo.Promo{Code: code, Percent: decimal.RequireFromString(percent)})
		}

		path := filepath.Join(dir, name)
		if err := writeFile(path, promos); err != nil {
			return err
		}
		fmt.Printf("Created %s with %d codes\n", path, len(promos))
	}

	fmt.Printf("\nSet PROMO_ENABLED=true and PROMO_FILES=%s,%s\n",
		filepath.Join(dir, "promos-base.gz"), filepath.Join(dir, "promos-sazonal.gz"))
	return nil
}

func writeFile(path string, promos []promo.Promo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := promo.Write(f, promos); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
