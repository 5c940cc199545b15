// Package notify posts high-risk verdicts to the Slack webhook configured on
// the Settings page.
//
// Notifications are sent in a goroutine so they never block the HTTP response.
// Failed deliveries are logged and dropped.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tguardian/monitor-api/internal/domain"
)

const deliveryTimeout = 5 * time.Second

// Event names carried in the X-TGuardian-Event header.
const (
	EventVerdictFraud = "verdict_fraud"
	EventHighRisk     = "high_risk_transaction"
)

// SettingsSource supplies the live notification settings. *store.Store satisfies it.
type SettingsSource interface {
	NotificationSettings() domain.NotificationSettings
}

// Message is the Slack incoming-webhook body.
type Message struct {
	Text string `json:"text"`
}

// Notifier delivers Slack messages for records that cross the alert bar.
type Notifier struct {
	settings SettingsSource
	client   *http.Client
	logger   *slog.Logger
	inflight sync.WaitGroup
}

// New creates a Notifier with a default HTTP client timeout.
func New(settings SettingsSource, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		settings: settings,
		client:   &http.Client{Timeout: deliveryTimeout},
		logger:   logger,
	}
}

// Classify returns the event a record should raise under s, or "" for none.
// A FRAUD verdict always qualifies; otherwise the ensemble score must reach
// the critical threshold on a record that has not been cleared as SAFE. Nothing qualifies while high-priority notifications
// are off or no webhook is configured.
func Classify(s domain.NotificationSettings, rec domain.TransactionRecord) string {
	if !s.HighPriorityNotificationsEnabled || s.SlackWebhookURL == "" {
		return ""
	}
	switch {
	case rec.Status == domain.StatusFraud:
		return EventVerdictFraud
	case rec.Status != domain.StatusSafe && rec.EnsembleScore >= s.RiskScoreThresholdForCritical:
		return EventHighRisk
	}
	return ""
}

// NotifyAsync sends a message in the background if rec qualifies. It reports
// whether a delivery was started.
func (n *Notifier) NotifyAsync(rec domain.TransactionRecord) bool {
	s := n.settings.NotificationSettings()
	event := Classify(s, rec)
	if event == "" {
		return false
	}

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		n.send(s.SlackWebhookURL, event, rec)
	}()
	return true
}

// Wait blocks until every started delivery has finished.
func (n *Notifier) Wait() {
	n.inflight.Wait()
}

// send delivers a single webhook call and logs the outcome.
func (n *Notifier) send(url, event string, rec domain.TransactionRecord) {
	body, err := json.Marshal(Message{Text: messageText(event, rec)})
	if err != nil {
		n.logger.Error("notify: failed to marshal payload", "transaction_id", rec.TransactionID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("notify: failed to build request", "transaction_id", rec.TransactionID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-TGuardian-Event", event)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("notify: delivery failed", "transaction_id", rec.TransactionID, "error", err)
		return
	}
	defer resp.Body.Close()

	level := slog.LevelInfo
	if resp.StatusCode >= 300 {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "notify: delivered",
		"event", event,
		"status", resp.StatusCode,
		"transaction_id", rec.TransactionID,
		"ensemble_score", rec.EnsembleScore,
	)
}

func messageText(event string, rec domain.TransactionRecord) string {
	headline := "High-risk transaction"
	if event == EventVerdictFraud {
		headline = "Transaction marked FRAUD"
	}
	return fmt.Sprintf("%s: %s (%s) $%.2f in %s, ensemble score %.2f, status %s",
		headline, rec.TransactionID, rec.UserID, rec.Amount, rec.Location, rec.EnsembleScore, rec.Status)
}
