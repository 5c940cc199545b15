package mockdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/scoring"
)

// Config controls the size and composition of the assembled dataset.
type Config struct {
	Seed       int64
	Population int // total records, seeds included
	FraudQuota int // FRAUD records in the whole population
	WarnQuota  int // WARN records in the whole population
}

// DefaultConfig is the reference dataset: 1000 records, 200 FRAUD, 4 WARN.
func DefaultConfig() Config {
	return Config{Seed: 42, Population: 1000, FraudQuota: 200, WarnQuota: 4}
}

// Build assembles the dataset: the seed records first, then synthetic records
// until Population is reached. Seed verdicts count toward the quotas; only
// synthetic records are promoted. If the population is too small for the
// quotas, the dataset simply holds fewer flagged records.
func Build(cfg Config) []domain.TransactionRecord {
	rng := NewRand(cfg.Seed)
	reasons := NewRand(cfg.Seed + seedReasonOffset)
	seeds := SeedRecords()
	if cfg.Population < len(seeds) {
		seeds = seeds[:max(cfg.Population, 0)]
	}

	records := make([]domain.TransactionRecord, 0, max(cfg.Population, len(seeds)))
	seen := make(map[string]bool, cap(records))
	var seedFraud, seedWarn int

	for _, s := range seeds {
		rec := buildFromSeed(s, rng, reasons)
		switch rec.Status {
		case domain.StatusFraud:
			seedFraud++
		case domain.StatusWarn:
			seedWarn++
		}
		seen[rec.TransactionID] = true
		records = append(records, rec)
	}

	injector := NewInjector(cfg.FraudQuota-seedFraud, cfg.WarnQuota-seedWarn)
	for len(records) < cfg.Population {
		rec := NewTransaction(rng)
		for seen[rec.TransactionID] {
			rec.TransactionID = drawTransactionID(rng)
		}
		injector.Next(&rec, rng)
		seen[rec.TransactionID] = true
		records = append(records, rec)
	}

	return records
}

// seedReasonOffset derives the stream that supplies reason trails for seeds
// flagged by score alone. Keeping those draws off the main stream leaves every
// other draw in the dataset at its reference position.
const seedReasonOffset = 7919

// buildFromSeed completes a hand-authored record: missing features get
// defaults, scores follow the seed's fraud label, and any non-PASS verdict
// gets a reason trail. Labelled fraud draws its trail from rng; a WARN seed
// draws from reasons.
func buildFromSeed(seed domain.TransactionRecord, rng, reasons *Rand) domain.TransactionRecord {
	rec := seed
	applySeedDefaults(&rec)

	isFraud := rec.FraudLabel == 1
	if isFraud {
		rec.EnsembleScore = roundCents(rng.Range(0.85, 1.0))
		rec.RuleFraudScore = roundCents(rng.Range(0.8, 1.0))
		rec.ModelScores = map[string]float64{
			domain.ModelDNN:         1.0,
			domain.ModelXGBoost:     1.0,
			domain.ModelGraphSAGE:   1.0,
			domain.ModelIsoForest:   rng.Range(0.90, 1.0),
			domain.ModelRuleCheck:   1.0,
			domain.ModelTransformer: 1.0,
		}
	} else {
		rec.EnsembleScore = roundCents(rec.RiskScore)
		rec.RuleFraudScore = 0
		rec.ModelScores = noisyModelScores(rec.EnsembleScore, rng)
	}

	rec.Status = scoring.Classify(isFraud, rec.EnsembleScore)
	rec.Flag = rec.Status
	rec.ReasonTrail = ""
	switch {
	case isFraud:
		rec.ReasonTrail = Pick(rng, ReasonTemplates)
	case rec.Status != domain.StatusPass:
		rec.ReasonTrail = Pick(reasons, ReasonTemplates)
	}
	rec.LLMAnalysis = nil
	setFlags(&rec)
	return rec
}

func applySeedDefaults(rec *domain.TransactionRecord) {
	if rec.TransactionID == "" {
		rec.TransactionID = "TXN_0"
	}
	if rec.UserID == "" {
		rec.UserID = "USER_0"
	}
	if rec.TransactionType == "" {
		rec.TransactionType = "POS"
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = domain.NewTimestamp(datasetYear, 1, 1, 0, 0, 0)
	}
	if rec.DeviceType == "" {
		rec.DeviceType = "Mobile"
	}
	if rec.Location == "" {
		rec.Location = "London"
	}
	if rec.MerchantCategory == "" {
		rec.MerchantCategory = "Electronics"
	}
	if rec.DailyTransactionCount == 0 {
		rec.DailyTransactionCount = 1
	}
	if rec.CardType == "" {
		rec.CardType = "Visa"
	}
	if rec.CardAgeDays == 0 {
		rec.CardAgeDays = 30
	}
	if rec.AuthenticationMethod == "" {
		rec.AuthenticationMethod = "PIN"
	}
}

// ─── Validation ───────────────────────────────────────────────────────────────

// Validate checks the dataset invariants and returns every violation joined.
func Validate(records []domain.TransactionRecord) error {
	var errs []error
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		id := r.TransactionID
		if id == "" {
			errs = append(errs, errors.New("record with empty Transaction_ID"))
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%s: duplicate Transaction_ID", id))
		}
		seen[id] = true

		if !domain.ValidStatus(r.Status) {
			errs = append(errs, fmt.Errorf("%s: unknown status %q", id, r.Status))
		}
		for _, sc := range []struct {
			name  string
			value float64
		}{
			{"ensemble_score", r.EnsembleScore},
			{"rule_fraud_score", r.RuleFraudScore},
			{"Risk_Score", r.RiskScore},
		} {
			if sc.value < 0 || sc.value > 1 {
				errs = append(errs, fmt.Errorf("%s: %s %.4f outside [0,1]", id, sc.name, sc.value))
			}
		}
		models := make([]string, 0, len(r.ModelScores))
		for model := range r.ModelScores {
			models = append(models, model)
		}
		sort.Strings(models)
		for _, model := range models {
			if v := r.ModelScores[model]; v < 0 || v > 1 {
				errs = append(errs, fmt.Errorf("%s: model score %s %.4f outside [0,1]", id, model, v))
			}
		}

		switch r.Status {
		case domain.StatusFraud:
			if r.FraudLabel != 1 {
				errs = append(errs, fmt.Errorf("%s: FRAUD without Fraud_Label", id))
			}
			if r.ReasonTrail == "" {
				errs = append(errs, fmt.Errorf("%s: FRAUD without reason_trail", id))
			}
		case domain.StatusWarn:
			if r.EnsembleScore < domain.WarnScoreFloor {
				errs = append(errs, fmt.Errorf("%s: WARN with ensemble_score %.2f below %.2f", id, r.EnsembleScore, domain.WarnScoreFloor))
			}
			if r.ReasonTrail == "" {
				errs = append(errs, fmt.Errorf("%s: WARN without reason_trail", id))
			}
		}
	}
	return errors.Join(errs...)
}

// ─── JSON files ───────────────────────────────────────────────────────────────

// WriteJSON encodes records as an indented JSON array.
func WriteJSON(w io.Writer, records []domain.TransactionRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON array of records and validates it.
func ReadJSON(r io.Reader) ([]domain.TransactionRecord, error) {
	var records []domain.TransactionRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return records, nil
}
