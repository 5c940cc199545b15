package mockdata

import (
	"tguardian/monitor-api/internal/domain"
)

// ReasonTemplates are the reason trails attached to promoted records.
var ReasonTemplates = []string{
	"Failed transaction >= 4 times. ; Multiple failed attempts in the last week (DNN, GRAPHSAGE, TRANSFORMER, XGBOOST). Suspicious or blacklisted IP address (ISO_FOREST)",
	"Failed transaction >= 4 times. ; Multiple failed attempts in the last week (DNN, GRAPHSAGE, TRANSFORMER, XGBOOST). Transaction would significantly deplete account (ISO_FOREST)",
	"Unusual transaction pattern detected. ; High-value transaction from new device (DNN, TRANSFORMER). Location mismatch with user profile (GRAPHSAGE)",
	"Multiple rapid transactions detected. ; Velocity check triggered (RULE_CHECK). Abnormal spending pattern (DNN, XGBOOST)",
	"Transaction from high-risk merchant. ; Category risk elevated (RULE_CHECK). Amount exceeds typical range (ISO_FOREST, XGBOOST)",
}

// PromoteFraud overwrites a benign record with a confirmed-fraud profile.
func PromoteFraud(rec *domain.TransactionRecord, rng *Rand) {
	rec.FraudLabel = 1
	rec.EnsembleScore = roundCents(rng.Range(0.9, 1.0))
	rec.RuleFraudScore = roundCents(rng.Range(0.8, 1.0))

	scores := make(map[string]float64, len(domain.ModelNames))
	for _, name := range domain.ModelNames {
		if name == domain.ModelIsoForest {
			scores[name] = rng.Range(0.90, 1.0)
		} else {
			scores[name] = rng.Range(0.95, 1.0)
		}
	}
	rec.ModelScores = scores

	rec.Status = domain.StatusFraud
	rec.Flag = domain.StatusFraud
	rec.ReasonTrail = Pick(rng, ReasonTemplates)
	rec.FailedTransactionCount7d = rng.Intn(3) + 3
	setFlags(rec)
}

// PromoteWarn overwrites a benign record with an elevated, unconfirmed profile.
func PromoteWarn(rec *domain.TransactionRecord, rng *Rand) {
	rec.EnsembleScore = roundCents(rng.Range(0.5, 0.8))
	rec.RuleFraudScore = roundCents(rng.Float64() * 0.3)
	rec.Status = domain.StatusWarn
	rec.Flag = domain.StatusWarn
	rec.FraudLabel = 0
	rec.ModelScores = noisyModelScores(rec.EnsembleScore, rng)
	rec.ReasonTrail = Pick(rng, ReasonTemplates)
	setFlags(rec)
}

// Injector promotes records to FRAUD until its fraud quota is met, then to WARN
// until its warn quota is met, strictly in the order records are offered.
type Injector struct {
	fraudLeft int
	warnLeft  int
}

// NewInjector creates an injector with the given remaining quotas.
// Negative quotas count as zero.
func NewInjector(fraud, warn int) *Injector {
	return &Injector{fraudLeft: max(fraud, 0), warnLeft: max(warn, 0)}
}

// Next offers one record. It reports the status the record ended up with.
func (in *Injector) Next(rec *domain.TransactionRecord, rng *Rand) string {
	switch {
	case in.fraudLeft > 0:
		PromoteFraud(rec, rng)
		in.fraudLeft--
	case in.warnLeft > 0:
		PromoteWarn(rec, rng)
		in.warnLeft--
	}
	return rec.Status
}

// Inject walks records in order and offers each one.
func (in *Injector) Inject(records []domain.TransactionRecord, rng *Rand) {
	for i := range records {
		in.Next(&records[i], rng)
	}
}

// Done reports whether both quotas are exhausted.
func (in *Injector) Done() bool {
	return in.fraudLeft == 0 && in.warnLeft == 0
}
