// Package scoring maps fraud scores onto the verdict and display bands used by
// the dashboard.
//
// No model runs here. Scores arrive already computed (from the generator or a
// real backend); this package only decides what they mean, using the
// thresholds in the domain package so every view agrees on the bands.
package scoring

import (
	"tguardian/monitor-api/internal/domain"
)

// Classify returns the initial verdict for a record: labelled fraud is FRAUD,
// an ensemble score above the warn floor is WARN, anything else PASS.
func Classify(fraudLabel bool, ensembleScore float64) string {
	switch {
	case fraudLabel:
		return domain.StatusFraud
	case ensembleScore > domain.WarnScoreFloor:
		return domain.StatusWarn
	default:
		return domain.StatusPass
	}
}

// Severity returns the alert severity label for an ensemble score.
func Severity(ensembleScore float64) string {
	switch {
	case ensembleScore >= domain.SeverityCritical:
		return domain.SeverityLabelCritical
	case ensembleScore >= domain.SeverityHigh:
		return domain.SeverityLabelHigh
	case ensembleScore >= domain.SeverityMedium:
		return domain.SeverityLabelMedium
	default:
		return domain.SeverityLabelLow
	}
}

// Flags returns the rule_flagged and ai_flagged indicators.
func Flags(ruleFraudScore, ensembleScore float64) (ruleFlagged, aiFlagged bool) {
	return ruleFraudScore > domain.FlagThreshold, ensembleScore > domain.FlagThreshold
}

// NeedsReview reports whether a record belongs in the human review queue:
// every WARN, and FRAUD whose ensemble score is below the confidence ceiling.
func NeedsReview(r domain.TransactionRecord) bool {
	switch r.Status {
	case domain.StatusWarn:
		return true
	case domain.StatusFraud:
		return r.EnsembleScore < domain.LowConfidenceFraudCeiling
	}
	return false
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
