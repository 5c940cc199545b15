// Command seed writes the assembled T-GUARDIAN dataset to a JSON file so the
// server (or any other tool) can load a fixed copy with -dataset.
//
// Usage:
//
//	go run ./cmd/seed [-out data/transactions.json] [-seed 42] [-population 1000]
//
// The default dataset holds 1000 records with 200 FRAUD and 4 WARN verdicts.
// The same flags always produce the same file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/mockdata"
)

func main() {
	def := mockdata.DefaultConfig()

	out := flag.String("out", "data/transactions.json", "output file")
	seed := flag.Int64("seed", def.Seed, "generator seed")
	population := flag.Int("population", def.Population, "records to generate")
	fraudQuota := flag.Int("fraud-quota", def.FraudQuota, "FRAUD records in the dataset")
	warnQuota := flag.Int("warn-quota", def.WarnQuota, "WARN records in the dataset")
	flag.Parse()

	cfg := mockdata.Config{Seed: *seed, Population: *population, FraudQuota: *fraudQuota, WarnQuota: *warnQuota}
	records := mockdata.Build(cfg)
	if err := mockdata.Validate(records); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := write(*out, records); err != nil {
		fmt.Fprintf(os.Stderr, "write error: %v\n", err)
		os.Exit(1)
	}

	counts := map[string]int{}
	for _, r := range records {
		counts[r.Status]++
	}
	fmt.Printf("Generated %d transactions (%d FRAUD, %d WARN, %d PASS) → %s\n",
		len(records), counts[domain.StatusFraud], counts[domain.StatusWarn], counts[domain.StatusPass], *out)
}

func write(path string, records []domain.TransactionRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mockdata.WriteJSON(f, records); err != nil {
		f.Close()
		return fmt.Errorf("encode: %w", err)
	}
	return f.Close()
}
