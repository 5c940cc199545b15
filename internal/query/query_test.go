package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/mockdata"
	"tguardian/monitor-api/internal/query"
)

func rec(id, status string, score float64) domain.TransactionRecord {
	return domain.TransactionRecord{TransactionID: id, Status: status, EnsembleScore: score}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func txnIDs(items []domain.TransactionRecord) []string {
	return ids(items, func(r domain.TransactionRecord) string { return r.TransactionID })
}

func sample() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		rec("TXN_1", domain.StatusWarn, 0.6),
		rec("TXN_2", domain.StatusFraud, 0.95),
		rec("TXN_3", domain.StatusPass, 0.1),
	}
}

// ─── Filtering ────────────────────────────────────────────────────────────────

func TestApply_StatusFilter(t *testing.T) {
	res := query.Apply(sample(), query.Params{Status: domain.StatusWarn}, query.TransactionFields)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []string{"TXN_1"}, txnIDs(res.Items))
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	items := sample()
	items[2].UserID = "USER_4242"
	res := query.Apply(items, query.Params{Search: "user_42"}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_3"}, txnIDs(res.Items))
}

func TestApply_SearchMatchesNumericStringForm(t *testing.T) {
	items := sample()
	items[0].Amount = 39.79
	items[1].Amount = 120
	res := query.Apply(items, query.Params{Search: "39.7"}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_1"}, txnIDs(res.Items))
}

func TestApply_SearchIgnoresNonSearchableFields(t *testing.T) {
	items := sample()
	items[0].ReasonTrail = "Velocity check triggered"
	res := query.Apply(items, query.Params{Search: "velocity"}, query.TransactionFields)
	assert.Zero(t, res.Total)
}

func TestApply_SearchAndStatusCombine(t *testing.T) {
	res := query.Apply(sample(), query.Params{Search: "txn_", Status: domain.StatusFraud}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_2"}, txnIDs(res.Items))
}

// ─── Sorting ──────────────────────────────────────────────────────────────────

func TestApply_SortByScoreDesc(t *testing.T) {
	res := query.Apply(sample(), query.Params{SortBy: "ensemble_score", SortOrder: query.Desc}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_2", "TXN_1", "TXN_3"}, txnIDs(res.Items))
}

func TestApply_SortByScoreAsc(t *testing.T) {
	res := query.Apply(sample(), query.Params{SortBy: "ensemble_score", SortOrder: query.Asc}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_3", "TXN_1", "TXN_2"}, txnIDs(res.Items))
}

func TestApply_SortIsStableInBothDirections(t *testing.T) {
	items := []domain.TransactionRecord{
		rec("A", domain.StatusPass, 0.2),
		rec("B", domain.StatusPass, 0.5),
		rec("C", domain.StatusPass, 0.2),
		rec("D", domain.StatusPass, 0.5),
		rec("E", domain.StatusPass, 0.2),
	}
	asc := query.Apply(items, query.Params{SortBy: "ensemble_score", SortOrder: query.Asc}, query.TransactionFields)
	assert.Equal(t, []string{"A", "C", "E", "B", "D"}, txnIDs(asc.Items))

	desc := query.Apply(items, query.Params{SortBy: "ensemble_score", SortOrder: query.Desc}, query.TransactionFields)
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, txnIDs(desc.Items))
}

func TestApply_StringSortIsLexicographic(t *testing.T) {
	items := []domain.TransactionRecord{rec("TXN_10", "", 0), rec("TXN_9", "", 0), rec("TXN_100", "", 0)}
	res := query.Apply(items, query.Params{SortBy: "Transaction_ID", SortOrder: query.Asc}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_10", "TXN_100", "TXN_9"}, txnIDs(res.Items))
}

func TestApply_MissingValuesSortLast(t *testing.T) {
	text := "analysed"
	items := sample()
	items[1].LLMAnalysis = &text
	for _, order := range []string{query.Asc, query.Desc} {
		res := query.Apply(items, query.Params{SortBy: "llm_analysis", SortOrder: order}, query.TransactionFields)
		assert.Equal(t, "TXN_2", res.Items[0].TransactionID, "order %s", order)
		assert.Equal(t, []string{"TXN_1", "TXN_3"}, txnIDs(res.Items[1:]), "order %s keeps missing in original order", order)
	}
}

func TestApply_UnknownSortFieldKeepsOriginalOrder(t *testing.T) {
	res := query.Apply(sample(), query.Params{SortBy: "no_such_field", SortOrder: query.Desc}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_1", "TXN_2", "TXN_3"}, txnIDs(res.Items))
}

func TestApply_TimestampSortsChronologically(t *testing.T) {
	items := sample()
	items[0].Timestamp = domain.NewTimestamp(2023, 12, 1, 0, 0, 0)
	items[1].Timestamp = domain.NewTimestamp(2023, 2, 1, 0, 0, 0)
	items[2].Timestamp = domain.NewTimestamp(2023, 6, 1, 0, 0, 0)
	res := query.Apply(items, query.Params{SortBy: "Timestamp", SortOrder: query.Desc}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_1", "TXN_3", "TXN_2"}, txnIDs(res.Items))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := sample()
	query.Apply(items, query.Params{SortBy: "ensemble_score", SortOrder: query.Desc}, query.TransactionFields)
	assert.Equal(t, []string{"TXN_1", "TXN_2", "TXN_3"}, txnIDs(items))
}

// ─── Pagination ───────────────────────────────────────────────────────────────

func TestApply_PaginationSlices(t *testing.T) {
	data := mockdata.Build(mockdata.Config{Seed: 42, Population: 45, FraudQuota: 5, WarnQuota: 2})
	p := query.Params{SortBy: "Transaction_Amount", SortOrder: query.Desc, PerPage: 20}

	p.Page = 3
	res := query.Apply(data, p, query.TransactionFields)
	assert.Equal(t, 45, res.Total)
	assert.Len(t, res.Items, 5)

	p.Page = 4
	res = query.Apply(data, p, query.TransactionFields)
	assert.Equal(t, 45, res.Total)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
}

func TestApply_PaginationDoesNotChangeOrder(t *testing.T) {
	data := mockdata.Build(mockdata.DefaultConfig())
	base := query.Params{Status: domain.StatusFraud, SortBy: "ensemble_score", SortOrder: query.Desc}

	all := query.Apply(data, base, query.TransactionFields)
	paged := base
	paged.Page, paged.PerPage = 1, all.Total
	one := query.Apply(data, paged, query.TransactionFields)

	require.Equal(t, all.Total, one.Total)
	assert.Equal(t, txnIDs(all.Items), txnIDs(one.Items))

	var stitched []string
	paged.PerPage = 7
	for page := 1; ; page++ {
		paged.Page = page
		res := query.Apply(data, paged, query.TransactionFields)
		if len(res.Items) == 0 {
			break
		}
		stitched = append(stitched, txnIDs(res.Items)...)
	}
	assert.Equal(t, txnIDs(all.Items), stitched)
}

func TestPaginate_PageBelowOneIsFirstPage(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2}, query.Paginate(items, 0, 2))
	assert.Equal(t, []int{1, 2}, query.Paginate(items, -3, 2))
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	assert.Empty(t, query.Paginate([]int{1, 2, 3}, int(^uint(0)>>1), 50))
}

// ─── Projections ──────────────────────────────────────────────────────────────

func TestAlertFields_SortBySeverityAndSearch(t *testing.T) {
	alerts := []domain.AlertRecord{
		{TransactionRecord: rec("TXN_1", domain.StatusWarn, 0.6), Severity: domain.SeverityLabelMedium},
		{TransactionRecord: rec("TXN_2", domain.StatusFraud, 0.95), Severity: domain.SeverityLabelCritical},
	}
	res := query.Apply(alerts, query.Params{Search: "critical"}, query.AlertFields)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "TXN_2", res.Items[0].TransactionID)

	res = query.Apply(alerts, query.Params{Status: domain.StatusWarn}, query.AlertFields)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "TXN_1", res.Items[0].TransactionID)
}

func TestReviewFields_SortByReviewedAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reviews := []domain.ReviewRecord{
		{TransactionRecord: rec("TXN_1", domain.StatusWarn, 0.6), ReviewedAt: now.Add(-30 * time.Minute)},
		{TransactionRecord: rec("TXN_2", domain.StatusWarn, 0.7), ReviewedAt: now.Add(-5 * time.Minute)},
		{TransactionRecord: rec("TXN_3", domain.StatusWarn, 0.8), ReviewedAt: now.Add(-50 * time.Minute)},
	}
	res := query.Apply(reviews, query.Params{SortBy: "reviewed_at", SortOrder: query.Desc}, query.ReviewFields)
	got := ids(res.Items, func(r domain.ReviewRecord) string { return r.TransactionID })
	assert.Equal(t, []string{"TXN_2", "TXN_1", "TXN_3"}, got)
}
