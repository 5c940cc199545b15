package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tguardian/monitor-api/internal/audit"
	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/llm"
	"tguardian/monitor-api/internal/logging"
	"tguardian/monitor-api/internal/query"
	"tguardian/monitor-api/internal/store"
	"tguardian/monitor-api/internal/views"
)

const (
	defaultPerPage    = 20
	defaultMaxPerPage = 100
	maxRecentLimit    = 100
	auditTimeout      = 3 * time.Second
)

// Notifier is told about every record a write produced. *notify.Notifier satisfies it.
type Notifier interface {
	NotifyAsync(rec domain.TransactionRecord) bool
}

// Options holds the handler tunables. Zero values pick the defaults.
type Options struct {
	MaxPerPage int
	Now        func() time.Time
}

// Handler holds the dependencies shared across all HTTP handlers.
type Handler struct {
	store      *store.Store
	analyzer   llm.Analyzer
	sink       audit.Sink
	notifier   Notifier
	maxPerPage int
	now        func() time.Time
}

// NewHandler creates a Handler wired to the given dependencies.
func NewHandler(s *store.Store, a llm.Analyzer, sink audit.Sink, n Notifier, opts Options) *Handler {
	h := &Handler{store: s, analyzer: a, sink: sink, notifier: n, maxPerPage: opts.MaxPerPage, now: opts.Now}
	if h.maxPerPage <= 0 {
		h.maxPerPage = defaultMaxPerPage
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// ─── GET /transactions ────────────────────────────────────────────────────────

// ListTransactions returns one page of the dataset.
//
// Query params: search, status, sort_by (default Timestamp), sort_order
// (default desc), page (default 1), per_page (default 20).
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := h.listParams(r, "Timestamp")
	if err != nil {
		badRequest(w, codeInvalidParam, err.Error())
		return
	}
	res := query.Apply(h.store.All(), p, query.TransactionFields)
	page(w, pageOf(res, p))
}

// ─── GET /transactions/{id} ───────────────────────────────────────────────────

// GetTransaction retrieves a single record by its ID.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, exists := h.store.Get(id)
	if !exists {
		notFound(w, fmt.Sprintf("transaction '%s' not found", id))
		return
	}
	ok(w, rec)
}

// ─── GET /alerts ──────────────────────────────────────────────────────────────

// ListAlerts returns WARN and FRAUD records with their severity.
//
// Query params: min_score (default 0), plus the list params with sort_by
// defaulting to ensemble_score.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	minScore := 0.0
	if v := r.URL.Query().Get("min_score"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			badRequest(w, codeInvalidParam, "min_score must be a number between 0 and 1")
			return
		}
		minScore = parsed
	}

	p, err := h.listParams(r, "ensemble_score")
	if err != nil {
		badRequest(w, codeInvalidParam, err.Error())
		return
	}
	res := query.Apply(views.Alerts(h.store.All(), minScore), p, query.AlertFields)
	page(w, pageOf(res, p))
}

// ─── GET /reviews ─────────────────────────────────────────────────────────────

// ListReviews returns the human review queue with reviewed_at attached.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	p, err := h.listParams(r, "reviewed_at")
	if err != nil {
		badRequest(w, codeInvalidParam, err.Error())
		return
	}
	res := query.Apply(views.Reviews(h.store.All(), h.now()), p, query.ReviewFields)
	page(w, pageOf(res, p))
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

// GetDashboardStats returns the headline numbers.
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	ok(w, views.Stats(h.store.All()))
}

// GetRecentVerdicts returns the newest non-PASS records.
//
// Query params: limit (default 5, 1..100).
func (h *Handler) GetRecentVerdicts(w http.ResponseWriter, r *http.Request) {
	limit := views.DefaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxRecentLimit {
			badRequest(w, codeInvalidParam, fmt.Sprintf("limit must be an integer between 1 and %d", maxRecentLimit))
			return
		}
		limit = parsed
	}
	ok(w, views.RecentVerdicts(h.store.All(), limit))
}

// GetTrends returns the 24-hour activity series.
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	ok(w, views.Trends())
}

// GetSystemHealth reports pipeline module states. The body is not enveloped;
// the dashboard reads system_state and modules at the top level.
func (h *Handler) GetSystemHealth(w http.ResponseWriter, r *http.Request) {
	var offline []string
	if err := h.sink.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("audit sink unreachable", "sink", h.sink.Name(), "error", err)
		offline = append(offline, "module_logging")
	}
	writeJSON(w, http.StatusOK, views.SystemHealth(offline...))
}

// ─── POST /verdict/update ─────────────────────────────────────────────────────

type verdictRequest struct {
	TransactionID string `json:"transaction_id"`
	Action        string `json:"action"`
	Reason        string `json:"reason"`
}

// UpdateVerdict sets a record's status from an operator action. APPROVE and
// BLOCK are accepted as aliases for SAFE and FRAUD.
func (h *Handler) UpdateVerdict(w http.ResponseWriter, r *http.Request) {
	var req verdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, codeInvalidJSON, "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		badRequest(w, codeValidation, "transaction_id is required")
		return
	}
	status, valid := statusForAction(req.Action)
	if !valid {
		badRequest(w, codeInvalidAction, "action must be one of: SAFE, FRAUD, APPROVE, BLOCK")
		return
	}

	h.applyVerdict(w, r, req.TransactionID, status, strings.ToUpper(strings.TrimSpace(req.Action)), req.Reason, audit.SourceVerdict)
}

// ─── POST /reviews/approve ────────────────────────────────────────────────────

type approveRequest struct {
	TransactionID string  `json:"transaction_id"`
	Approved      *bool   `json:"approved"`
	VerdictAction string  `json:"verdict_action"`
	ReviewerNotes *string `json:"reviewer_notes"`
}

// ApproveReview closes a review: approved records become SAFE, rejected ones
// FRAUD. An explicit verdict_action takes precedence over approved.
func (h *Handler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, codeInvalidJSON, "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		badRequest(w, codeValidation, "transaction_id is required")
		return
	}

	var status, action string
	switch {
	case req.VerdictAction != "":
		var valid bool
		if status, valid = statusForAction(req.VerdictAction); !valid {
			badRequest(w, codeInvalidAction, "verdict_action must be one of: SAFE, FRAUD, APPROVE, BLOCK")
			return
		}
		action = strings.ToUpper(strings.TrimSpace(req.VerdictAction))
	case req.Approved != nil:
		status, action = domain.StatusFraud, domain.ActionBlock
		if *req.Approved {
			status, action = domain.StatusSafe, domain.ActionApprove
		}
	default:
		badRequest(w, codeValidation, "approved or verdict_action is required")
		return
	}

	reason := ""
	if req.ReviewerNotes != nil {
		reason = *req.ReviewerNotes
	}
	if reason == "" {
		reason = "Rejected by reviewer"
		if status == domain.StatusSafe {
			reason = "Approved by reviewer"
		}
	}

	h.applyVerdict(w, r, req.TransactionID, status, action, reason, audit.SourceReview)
}

// applyVerdict is the shared write path of the two verdict endpoints.
func (h *Handler) applyVerdict(w http.ResponseWriter, r *http.Request, id, status, action, reason, source string) {
	previous, rec, err := h.store.SetStatus(id, status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(w, fmt.Sprintf("transaction '%s' not found", id))
		return
	case err != nil:
		logging.FromContext(r.Context()).Error("status update failed", "transaction_id", id, "error", err)
		internalError(w)
		return
	}

	h.record(r.Context(), audit.StatusChanged(rec, previous, action, reason, source, h.now()))
	h.notifier.NotifyAsync(rec)
	ok(w, rec)
}

// ─── POST /llm/analyze ────────────────────────────────────────────────────────

type analyzeRequest struct {
	TransactionID string  `json:"transaction_id"`
	Reason        *string `json:"reason"`
}

// AnalyzeTransaction runs the analyzer on a record, stores the result in
// llm_analysis and returns the updated record.
func (h *Handler) AnalyzeTransaction(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, codeInvalidJSON, "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		badRequest(w, codeValidation, "transaction_id is required")
		return
	}
	rec, exists := h.store.Get(req.TransactionID)
	if !exists {
		notFound(w, fmt.Sprintf("transaction '%s' not found", req.TransactionID))
		return
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	logger := logging.FromContext(r.Context())
	text, err := h.analyzer.Analyze(r.Context(), rec, reason)
	if err != nil {
		logger.Warn("analysis failed", "transaction_id", rec.TransactionID, "analyzer", h.analyzer.Name(), "error", err)
		badGateway(w, codeAnalyzerError, "analysis service did not return a result")
		return
	}

	updated, err := h.store.AttachAnalysis(rec.TransactionID, text)
	if err != nil {
		logger.Error("attach analysis failed", "transaction_id", rec.TransactionID, "error", err)
		internalError(w)
		return
	}

	h.record(r.Context(), audit.AnalysisAttached(updated, reason, h.now()))
	h.notifier.NotifyAsync(updated)
	ok(w, updated)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// record writes an audit event. A sink failure is logged, never surfaced: the
// dataset write has already happened.
func (h *Handler) record(ctx context.Context, ev domain.VerdictEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := h.sink.Record(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("audit event not recorded",
			slog.String("sink", h.sink.Name()),
			slog.String("event_id", ev.ID),
			slog.String("transaction_id", ev.TransactionID),
			slog.Any("error", err),
		)
	}
}

// statusForAction maps a verdict action onto the status it sets.
func statusForAction(action string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case domain.ActionSafe, domain.ActionApprove:
		return domain.StatusSafe, true
	case domain.ActionFraud, domain.ActionBlock:
		return domain.StatusFraud, true
	}
	return "", false
}

// listParams reads the shared list query parameters. Unknown sort fields are
// accepted and leave the order unchanged.
func (h *Handler) listParams(r *http.Request, defaultSort string) (query.Params, error) {
	q := r.URL.Query()
	p := query.Params{
		Search:    q.Get("search"),
		SortBy:    defaultSort,
		SortOrder: query.Desc,
		Page:      1,
		PerPage:   defaultPerPage,
	}

	if v := q.Get("status"); v != "" {
		p.Status = strings.ToUpper(strings.TrimSpace(v))
		if !domain.ValidStatus(p.Status) {
			return p, fmt.Errorf("status must be one of: PASS, WARN, FRAUD, SAFE")
		}
	}
	if v := q.Get("sort_by"); v != "" {
		p.SortBy = v
	}
	if v := q.Get("sort_order"); v != "" {
		p.SortOrder = strings.ToLower(v)
		if p.SortOrder != query.Asc && p.SortOrder != query.Desc {
			return p, fmt.Errorf("sort_order must be 'asc' or 'desc'")
		}
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("page must be a positive integer")
		}
		p.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > h.maxPerPage {
			return p, fmt.Errorf("per_page must be an integer between 1 and %d", h.maxPerPage)
		}
		p.PerPage = n
	}
	return p, nil
}

func pageOf[T any](res query.Result[T], p query.Params) pageEnvelope {
	return pageEnvelope{
		Data:      res.Items,
		Count:     len(res.Items),
		Total:     res.Total,
		Page:      p.Page,
		PerPage:   p.PerPage,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
	}
}
