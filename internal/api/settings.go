package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/logging"
)

// ─── /settings/notifications ──────────────────────────────────────────────────

// notificationUpdate carries a partial update; nil fields are left unchanged.
type notificationUpdate struct {
	CriticalAlertEmailsEnabled       *bool    `json:"critical_alert_emails_enabled"`
	HighPriorityNotificationsEnabled *bool    `json:"high_priority_notifications_enabled"`
	AlertEmailAddress                *string  `json:"alert_email_address"`
	DailySummaryReportEnabled        *bool    `json:"daily_summary_report_enabled"`
	SlackWebhookURL                  *string  `json:"slack_webhook_url"`
	SMSPhoneNumber                   *string  `json:"sms_phone_number"`
	RiskScoreThresholdForCritical    *float64 `json:"risk_score_threshold_for_critical"`
	RiskScoreThresholdForHigh        *float64 `json:"risk_score_threshold_for_high"`
}

// GetNotificationSettings returns the current notification settings.
func (h *Handler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.NotificationSettings())
}

// UpdateNotificationSettings applies a partial update and returns the result.
func (h *Handler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var req notificationUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, codeInvalidJSON, "request body must be valid JSON")
		return
	}
	if err := unitInterval("risk_score_threshold_for_critical", req.RiskScoreThresholdForCritical); err != nil {
		badRequest(w, codeValidation, err.Error())
		return
	}
	if err := unitInterval("risk_score_threshold_for_high", req.RiskScoreThresholdForHigh); err != nil {
		badRequest(w, codeValidation, err.Error())
		return
	}

	updated := h.store.UpdateNotificationSettings(func(s *domain.NotificationSettings) {
		set(&s.CriticalAlertEmailsEnabled, req.CriticalAlertEmailsEnabled)
		set(&s.HighPriorityNotificationsEnabled, req.HighPriorityNotificationsEnabled)
		set(&s.AlertEmailAddress, req.AlertEmailAddress)
		set(&s.DailySummaryReportEnabled, req.DailySummaryReportEnabled)
		set(&s.SlackWebhookURL, req.SlackWebhookURL)
		set(&s.SMSPhoneNumber, req.SMSPhoneNumber)
		set(&s.RiskScoreThresholdForCritical, req.RiskScoreThresholdForCritical)
		set(&s.RiskScoreThresholdForHigh, req.RiskScoreThresholdForHigh)
	})
	logging.FromContext(r.Context()).Info("notification settings updated",
		"high_priority", updated.HighPriorityNotificationsEnabled,
		"slack_configured", updated.SlackWebhookURL != "",
	)
	ok(w, updated)
}

// ─── /settings/detection ──────────────────────────────────────────────────────

type detectionUpdate struct {
	RiskScoreThreshold            *float64 `json:"risk_score_threshold"`
	DuplicateDetectionWindowHours *int     `json:"duplicate_detection_window_hours"`
	AIEnhancedDetectionEnabled    *bool    `json:"ai_enhanced_detection_enabled"`
}

// GetDetectionSettings returns the current detection settings.
func (h *Handler) GetDetectionSettings(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.DetectionSettings())
}

// UpdateDetectionSettings applies a partial update and returns the result.
func (h *Handler) UpdateDetectionSettings(w http.ResponseWriter, r *http.Request) {
	var req detectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, codeInvalidJSON, "request body must be valid JSON")
		return
	}
	if err := unitInterval("risk_score_threshold", req.RiskScoreThreshold); err != nil {
		badRequest(w, codeValidation, err.Error())
		return
	}
	if req.DuplicateDetectionWindowHours != nil && *req.DuplicateDetectionWindowHours < 1 {
		badRequest(w, codeValidation, "duplicate_detection_window_hours must be at least 1")
		return
	}

	updated := h.store.UpdateDetectionSettings(func(s *domain.DetectionSettings) {
		set(&s.RiskScoreThreshold, req.RiskScoreThreshold)
		set(&s.DuplicateDetectionWindowHours, req.DuplicateDetectionWindowHours)
		set(&s.AIEnhancedDetectionEnabled, req.AIEnhancedDetectionEnabled)
	})
	ok(w, updated)
}

// ─── /settings/data-integration ───────────────────────────────────────────────

// GetDataIntegration reports the dataset, audit sink and analyzer as the three
// integrations the Settings page knows about.
func (h *Handler) GetDataIntegration(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()

	streamStatus := domain.IntegrationActive
	if err := h.sink.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("audit sink unreachable", "sink", h.sink.Name(), "error", err)
		streamStatus = domain.IntegrationInactive
	}

	ok(w, domain.DataIntegrationStatus{
		DatabaseConnection: domain.IntegrationStatus{
			Name:      fmt.Sprintf("In-memory dataset (%d records)", h.store.Len()),
			Status:    domain.IntegrationConnected,
			LastCheck: &now,
		},
		DataStream: domain.IntegrationStatus{
			Name:      fmt.Sprintf("Audit sink (%s)", h.sink.Name()),
			Status:    streamStatus,
			LastCheck: &now,
		},
		ExternalAPI: domain.IntegrationStatus{
			Name:      fmt.Sprintf("Analyzer (%s)", h.analyzer.Name()),
			Status:    domain.ModuleOnline,
			LastCheck: &now,
		},
	})
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func unitInterval(name string, v *float64) error {
	if v != nil && (*v < 0 || *v > 1) {
		return fmt.Errorf("%s must be between 0 and 1", name)
	}
	return nil
}
