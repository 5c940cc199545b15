// Package views computes the read-only projections behind the dashboard:
// headline stats, recent verdicts, the hourly trend chart, alerts, the review
// queue and pipeline health. Every function is a pure function of its inputs.
package views

import (
	"fmt"
	"sort"
	"time"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/llm"
	"tguardian/monitor-api/internal/mockdata"
	"tguardian/monitor-api/internal/scoring"
)

const (
	// DefaultRecentLimit is how many verdicts the dashboard shows.
	DefaultRecentLimit = 5
	// ReviewQueueSize caps the review queue.
	ReviewQueueSize = 10

	reviewSeed     = 999
	trendHours     = 24
	trendSeedStep  = 77
	trendSeedBase  = 42
	maxReviewDelay = 60 // minutes
)

// ─── Dashboard ────────────────────────────────────────────────────────────────

// Stats aggregates the headline numbers. Rates and means are 0 on an empty
// dataset; approval rate is SAFE/(WARN+FRAUD) as a percentage, 0 when no
// record is flagged.
func Stats(records []domain.TransactionRecord) domain.DashboardStats {
	var st domain.DashboardStats
	var safe int
	var sumEnsemble, sumRisk float64

	for _, r := range records {
		switch r.Status {
		case domain.StatusWarn:
			st.ActiveVerdicts++
		case domain.StatusFraud:
			st.ConfirmedFraud++
		case domain.StatusSafe:
			safe++
		}
		sumEnsemble += r.EnsembleScore
		sumRisk += r.RiskScore
	}

	st.TotalTransactions = len(records)
	st.FlaggedTransactions = st.ActiveVerdicts + st.ConfirmedFraud
	if st.TotalTransactions > 0 {
		n := float64(st.TotalTransactions)
		st.FraudDetectionRate = float64(st.FlaggedTransactions) / n
		st.AvgEnsembleScore = sumEnsemble / n
		st.AvgRiskScore = sumRisk / n
	}
	if st.FlaggedTransactions > 0 {
		st.ApprovalRate = float64(safe) / float64(st.FlaggedTransactions) * 100
	}
	return st
}

// RecentVerdicts returns the limit most recent non-PASS records, newest first.
// limit <= 0 means DefaultRecentLimit.
func RecentVerdicts(records []domain.TransactionRecord, limit int) []domain.RecentVerdict {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	decided := make([]domain.TransactionRecord, 0, len(records))
	for _, r := range records {
		if r.Status != domain.StatusPass {
			decided = append(decided, r)
		}
	}
	sort.SliceStable(decided, func(i, j int) bool {
		return decided[i].Timestamp.After(decided[j].Timestamp.Time)
	})
	if len(decided) > limit {
		decided = decided[:limit]
	}

	out := make([]domain.RecentVerdict, len(decided))
	for i, r := range decided {
		out[i] = domain.RecentVerdict{
			TransactionID:   r.TransactionID,
			Status:          r.Status,
			EnsembleScore:   r.EnsembleScore,
			RuleFraudScore:  r.RuleFraudScore,
			CreatedAt:       r.Timestamp,
			Amount:          r.Amount,
			Location:        r.Location,
			TransactionType: r.TransactionType,
			LLMAnalysis:     r.Clone().LLMAnalysis,
		}
	}
	return out
}

// Trends returns the synthetic 24-hour activity series. Each hour has its own
// seeded stream, so the chart never changes between calls.
func Trends() []domain.TrendPoint {
	out := make([]domain.TrendPoint, trendHours)
	for h := range out {
		rng := mockdata.NewRand(int64(h*trendSeedStep + trendSeedBase))
		out[h] = domain.TrendPoint{
			Hour:         fmt.Sprintf("%02d:00", h),
			Transactions: int(rng.Float64()*80 + 20),
			Fraud:        int(rng.Float64()*15 + 2),
		}
	}
	return out
}

// ─── Alerts / reviews ─────────────────────────────────────────────────────────

// Alerts returns every WARN or FRAUD record scoring at least minScore, highest
// ensemble score first, with its severity.
func Alerts(records []domain.TransactionRecord, minScore float64) []domain.AlertRecord {
	out := make([]domain.AlertRecord, 0)
	for _, r := range records {
		if !r.Flagged() || r.EnsembleScore < minScore {
			continue
		}
		out = append(out, domain.AlertRecord{
			TransactionRecord: r.Clone(),
			Severity:          scoring.Severity(r.EnsembleScore),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnsembleScore > out[j].EnsembleScore
	})
	return out
}

// Reviews builds the human review queue: the ReviewQueueSize lowest-scoring
// records that need review, each with an analysis and a review time within
// the hour before now. A record that already carries an analysis keeps it.
// The template and offset draws come from a fixed stream, so the queue is
// stable for a given dataset and now.
func Reviews(records []domain.TransactionRecord, now time.Time) []domain.ReviewRecord {
	pending := make([]domain.TransactionRecord, 0)
	for _, r := range records {
		if scoring.NeedsReview(r) {
			pending = append(pending, r)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].EnsembleScore < pending[j].EnsembleScore
	})
	if len(pending) > ReviewQueueSize {
		pending = pending[:ReviewQueueSize]
	}

	rng := mockdata.NewRand(reviewSeed)
	out := make([]domain.ReviewRecord, len(pending))
	for i, r := range pending {
		rec := r.Clone()
		tpl := rng.Intn(llm.TemplateCount())
		if rec.LLMAnalysis == nil {
			text := llm.Render(tpl, rec)
			rec.LLMAnalysis = &text
		}
		offset := time.Duration(rng.Intn(maxReviewDelay)) * time.Minute
		out[i] = domain.ReviewRecord{TransactionRecord: rec, ReviewedAt: now.Add(-offset)}
	}
	return out
}

// ─── System ───────────────────────────────────────────────────────────────────

// PipelineModules are the stages reported by /system/health, in display order.
var PipelineModules = []string{
	"module_ingestion",
	"module_preprocessing",
	"module_deduplication",
	"module_rule_check",
	"module_ai_check",
	"module_flagger",
	"module_query",
	"module_logging",
}

// SystemHealth reports every pipeline module ONLINE except those named in
// offline. Any offline module makes the system DEGRADED.
func SystemHealth(offline ...string) domain.SystemHealth {
	down := make(map[string]bool, len(offline))
	for _, m := range offline {
		down[m] = true
	}

	h := domain.SystemHealth{SystemState: domain.SystemHealthy, Modules: make(map[string]string, len(PipelineModules))}
	for _, m := range PipelineModules {
		h.Modules[m] = domain.ModuleOnline
		if down[m] {
			h.Modules[m] = domain.ModuleOffline
			h.SystemState = domain.SystemDegraded
		}
	}
	return h
}
