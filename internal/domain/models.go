// Package domain contains all core types used across the application.
// Field names on the wire match the T-GUARDIAN dashboard contract exactly; the
// dashboard and its tests key off them, so they must not be renamed.
package domain

import (
	"fmt"
	"time"
)

// ─── Verdict states ───────────────────────────────────────────────────────────

// Status values attached to a transaction.
const (
	StatusPass  = "PASS"  // nothing fired
	StatusWarn  = "WARN"  // elevated score, awaiting review
	StatusFraud = "FRAUD" // confirmed or high-confidence fraud
	StatusSafe  = "SAFE"  // reviewed and cleared
)

// ValidStatus reports whether s is one of the four verdict states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPass, StatusWarn, StatusFraud, StatusSafe:
		return true
	}
	return false
}

// Verdict actions accepted by the verdict endpoints. APPROVE and BLOCK are the
// dashboard's aliases for SAFE and FRAUD.
const (
	ActionSafe    = "SAFE"
	ActionFraud   = "FRAUD"
	ActionApprove = "APPROVE"
	ActionBlock   = "BLOCK"
)

// ─── Score thresholds ─────────────────────────────────────────────────────────

// Score bands used by the generator, the alert severities and the review queue.
// The dashboard badges historically disagreed on these; they live here only.
const (
	WarnScoreFloor            = 0.5  // WARN records sit at or above this ensemble score
	FlagThreshold             = 0.5  // rule_flagged / ai_flagged cut-off
	SeverityMedium            = 0.5  // >= medium
	SeverityHigh              = 0.7  // >= high
	SeverityCritical          = 0.9  // >= critical
	LowConfidenceFraudCeiling = 0.95 // FRAUD below this still goes to human review
)

// Severity labels derived from the ensemble score.
const (
	SeverityLabelLow      = "low"
	SeverityLabelMedium   = "medium"
	SeverityLabelHigh     = "high"
	SeverityLabelCritical = "critical"
)

// ─── Vocabularies ─────────────────────────────────────────────────────────────

var (
	TransactionTypes      = []string{"POS", "Online", "Bank Transfer", "ATM Withdrawal"}
	Locations             = []string{"London", "New York", "Mumbai", "Tokyo", "Sydney"}
	CardTypes             = []string{"Visa", "Mastercard", "Amex", "Discover"}
	DeviceTypes           = []string{"Mobile", "Laptop", "Tablet"}
	MerchantCategories    = []string{"Electronics", "Restaurants", "Travel", "Clothing", "Groceries"}
	AuthenticationMethods = []string{"Biometric", "Password", "OTP", "PIN"}
)

// Model-score keys. The order is significant for deterministic generation.
const (
	ModelDNN         = "dnn"
	ModelXGBoost     = "xgboost"
	ModelGraphSAGE   = "graphsage"
	ModelIsoForest   = "iso_forest"
	ModelRuleCheck   = "rule_check"
	ModelTransformer = "transformer"
)

// ModelNames lists the model-score keys in generation order.
var ModelNames = []string{ModelDNN, ModelXGBoost, ModelGraphSAGE, ModelIsoForest, ModelRuleCheck, ModelTransformer}

// ─── Timestamp ────────────────────────────────────────────────────────────────

// TimestampLayout is the zone-less, second-precision format used on the wire.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a wall-clock date-time without timezone.
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from calendar fields.
func NewTimestamp(year int, month time.Month, day, hour, minute, second int) Timestamp {
	return Timestamp{time.Date(year, month, day, hour, minute, second, 0, time.UTC)}
}

// ParseTimestamp parses s in TimestampLayout.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{t}, nil
}

// String formats the timestamp in TimestampLayout. Lexicographic order of the
// result equals chronological order.
func (t Timestamp) String() string {
	return t.Time.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a string, got %s", s)
	}
	parsed, err := ParseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ─── Core record ──────────────────────────────────────────────────────────────

// TransactionRecord is one financial transaction plus its fraud-detection
// annotations. This is the canonical record stored and returned by the API.
type TransactionRecord struct {
	TransactionID              string    `json:"Transaction_ID"`
	UserID                     string    `json:"User_ID"`
	Amount                     float64   `json:"Transaction_Amount"`
	TransactionType            string    `json:"Transaction_Type"`
	Timestamp                  Timestamp `json:"Timestamp"`
	AccountBalance             float64   `json:"Account_Balance"`
	DeviceType                 string    `json:"Device_Type"`
	Location                   string    `json:"Location"`
	MerchantCategory           string    `json:"Merchant_Category"`
	IPAddressFlag              int       `json:"IP_Address_Flag"`
	PreviousFraudulentActivity int       `json:"Previous_Fraudulent_Activity"`
	DailyTransactionCount      int       `json:"Daily_Transaction_Count"`
	AvgTransactionAmount7d     float64   `json:"Avg_Transaction_Amount_7d"`
	FailedTransactionCount7d   int       `json:"Failed_Transaction_Count_7d"`
	CardType                   string    `json:"Card_Type"`
	CardAgeDays                int       `json:"Card_Age"`
	TransactionDistanceKm      float64   `json:"Transaction_Distance"`
	AuthenticationMethod       string    `json:"Authentication_Method"`
	RiskScore                  float64   `json:"Risk_Score"` // input feature, not the ensemble
	IsWeekend                  int       `json:"Is_Weekend"`
	FraudLabel                 int       `json:"Fraud_Label"`

	EnsembleScore  float64            `json:"ensemble_score"`
	RuleFraudScore float64            `json:"rule_fraud_score"`
	ModelScores    map[string]float64 `json:"model_scores"`
	Status         string             `json:"status"`
	ReasonTrail    string             `json:"reason_trail"`
	LLMAnalysis    *string            `json:"llm_analysis"`

	// Generation-time verdict and indicator flags. Status changes do not touch them.
	Flag        string `json:"flag"`
	RuleFlagged bool   `json:"rule_flagged"`
	AIFlagged   bool   `json:"ai_flagged"`
}

// Clone returns a deep copy; the model-score map and analysis pointer are not shared.
func (r TransactionRecord) Clone() TransactionRecord {
	c := r
	if r.ModelScores != nil {
		c.ModelScores = make(map[string]float64, len(r.ModelScores))
		for k, v := range r.ModelScores {
			c.ModelScores[k] = v
		}
	}
	if r.LLMAnalysis != nil {
		s := *r.LLMAnalysis
		c.LLMAnalysis = &s
	}
	return c
}

// Flagged reports whether the record is in WARN or FRAUD.
func (r TransactionRecord) Flagged() bool {
	return r.Status == StatusWarn || r.Status == StatusFraud
}

// ─── Projections ──────────────────────────────────────────────────────────────

// AlertRecord is a WARN/FRAUD record with its display severity.
type AlertRecord struct {
	TransactionRecord
	Severity string `json:"severity"`
}

// ReviewRecord is a record queued for human review with its analysis attached.
type ReviewRecord struct {
	TransactionRecord
	ReviewedAt time.Time `json:"reviewed_at"`
}

// RecentVerdict is the compact row shown in the dashboard's recent-verdicts list.
type RecentVerdict struct {
	TransactionID   string    `json:"Transaction_ID"`
	Status          string    `json:"status"`
	EnsembleScore   float64   `json:"ensemble_score"`
	RuleFraudScore  float64   `json:"rule_fraud_score"`
	CreatedAt       Timestamp `json:"created_at"`
	Amount          float64   `json:"Transaction_Amount"`
	Location        string    `json:"Location"`
	TransactionType string    `json:"Transaction_Type"`
	LLMAnalysis     *string   `json:"llm_analysis"`
}

// DashboardStats holds the headline numbers of the dashboard.
type DashboardStats struct {
	TotalTransactions   int     `json:"total_transactions"`
	FlaggedTransactions int     `json:"flagged_transactions"`
	ActiveVerdicts      int     `json:"active_verdicts"`
	ConfirmedFraud      int     `json:"confirmed_fraud"`
	FraudDetectionRate  float64 `json:"fraud_detection_rate"`
	ApprovalRate        float64 `json:"approval_rate"` // percentage
	AvgEnsembleScore    float64 `json:"avg_ensemble_score"`
	AvgRiskScore        float64 `json:"avg_risk_score"`
}

// TrendPoint is one hour of the synthetic activity chart.
type TrendPoint struct {
	Hour         string `json:"hour"`
	Transactions int    `json:"transactions"`
	Fraud        int    `json:"fraud"`
}

// ─── System / settings ────────────────────────────────────────────────────────

// Module and system states reported by /system/health.
const (
	SystemHealthy  = "HEALTHY"
	SystemDegraded = "DEGRADED"
	ModuleOnline   = "ONLINE"
	ModuleOffline  = "OFFLINE"
)

// Integration states reported by /settings/data-integration.
const (
	IntegrationConnected    = "CONNECTED"
	IntegrationDisconnected = "DISCONNECTED"
	IntegrationActive       = "ACTIVE"
	IntegrationInactive     = "INACTIVE"
)

// SystemHealth is the pipeline status shown in the dashboard header.
type SystemHealth struct {
	SystemState string            `json:"system_state"`
	Modules     map[string]string `json:"modules"`
}

// NotificationSettings controls who is told about high-risk verdicts.
type NotificationSettings struct {
	ID                               int     `json:"id"`
	CriticalAlertEmailsEnabled       bool    `json:"critical_alert_emails_enabled"`
	HighPriorityNotificationsEnabled bool    `json:"high_priority_notifications_enabled"`
	AlertEmailAddress                string  `json:"alert_email_address"`
	DailySummaryReportEnabled        bool    `json:"daily_summary_report_enabled"`
	SlackWebhookURL                  string  `json:"slack_webhook_url"`
	SMSPhoneNumber                   string  `json:"sms_phone_number"`
	RiskScoreThresholdForCritical    float64 `json:"risk_score_threshold_for_critical"`
	RiskScoreThresholdForHigh        float64 `json:"risk_score_threshold_for_high"`
}

// DetectionSettings are the tunables shown on the Settings page.
type DetectionSettings struct {
	ID                            int     `json:"id"`
	RiskScoreThreshold            float64 `json:"risk_score_threshold"`
	DuplicateDetectionWindowHours int     `json:"duplicate_detection_window_hours"`
	AIEnhancedDetectionEnabled    bool    `json:"ai_enhanced_detection_enabled"`
}

// IntegrationStatus describes one external dependency.
type IntegrationStatus struct {
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	URL       string     `json:"url,omitempty"`
	LastCheck *time.Time `json:"last_check"`
}

// DataIntegrationStatus groups the integrations shown on the Settings page.
type DataIntegrationStatus struct {
	DatabaseConnection IntegrationStatus `json:"database_connection"`
	DataStream         IntegrationStatus `json:"data_stream"`
	ExternalAPI        IntegrationStatus `json:"external_api"`
}

// ─── Audit ────────────────────────────────────────────────────────────────────

// Audit event kinds.
const (
	EventStatusChanged    = "status_changed"
	EventAnalysisAttached = "analysis_attached"
)

// VerdictEvent records one write to the dataset.
type VerdictEvent struct {
	ID             string    `json:"id" bson:"_id"`
	Kind           string    `json:"kind" bson:"kind"`
	TransactionID  string    `json:"transaction_id" bson:"transaction_id"`
	PreviousStatus string    `json:"previous_status,omitempty" bson:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty" bson:"new_status,omitempty"`
	Action         string    `json:"action,omitempty" bson:"action,omitempty"`
	Reason         string    `json:"reason,omitempty" bson:"reason,omitempty"`
	Source         string    `json:"source" bson:"source"`
	EnsembleScore  float64   `json:"ensemble_score" bson:"ensemble_score"`
	OccurredAt     time.Time `json:"occurred_at" bson:"occurred_at"`
}
