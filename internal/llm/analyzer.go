// Package llm produces the free-text analysis attached to flagged transactions.
//
// No language model is called. TemplateAnalyzer renders one of a fixed set of
// analyst-style write-ups after a short canned delay, which is enough for the
// dashboard's "send to LLM" flow to behave like the real service.
package llm

//go:generate mockgen -source=analyzer.go -destination=mocks/mock_analyzer.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"tguardian/monitor-api/internal/domain"
)

// Analyzer writes an analysis for one transaction. reason is the operator's
// free-text prompt and may be empty.
type Analyzer interface {
	Analyze(ctx context.Context, rec domain.TransactionRecord, reason string) (string, error)
	Name() string
}

// DefaultDelay is the canned latency of TemplateAnalyzer.
const DefaultDelay = 1500 * time.Millisecond

// TemplateAnalyzer is the offline Analyzer.
type TemplateAnalyzer struct {
	Delay time.Duration
}

// NewTemplateAnalyzer returns an analyzer that waits delay before answering.
// A negative delay is treated as zero.
func NewTemplateAnalyzer(delay time.Duration) *TemplateAnalyzer {
	return &TemplateAnalyzer{Delay: max(delay, 0)}
}

func (a *TemplateAnalyzer) Name() string { return "template" }

// Analyze waits for the canned delay, then renders the template chosen by the
// transaction id. The same record always gets the same template.
func (a *TemplateAnalyzer) Analyze(ctx context.Context, rec domain.TransactionRecord, reason string) (string, error) {
	if a.Delay > 0 {
		timer := time.NewTimer(a.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("analyze %s: %w", rec.TransactionID, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("analyze %s: %w", rec.TransactionID, err)
	}

	text := Render(TemplateFor(rec.TransactionID), rec)
	if r := strings.TrimSpace(reason); r != "" {
		text += " Reviewer context: " + r
	}
	return text, nil
}

// TemplateFor maps a transaction id onto a template index.
func TemplateFor(transactionID string) int {
	return int(xxhash.Sum64String(transactionID) % uint64(len(templates)))
}
