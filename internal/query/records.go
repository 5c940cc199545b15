package query

import (
	"tguardian/monitor-api/internal/domain"
)

type txn = domain.TransactionRecord

// TransactionFields are the sortable columns of a transaction record, keyed by
// wire name. Search covers ids, the categorical columns and the amount.
var TransactionFields = Fields[txn]{
	"Transaction_ID":               StringField(func(r txn) string { return r.TransactionID }, true),
	"User_ID":                      StringField(func(r txn) string { return r.UserID }, true),
	"Transaction_Amount":           NumberField(func(r txn) float64 { return r.Amount }, true),
	"Transaction_Type":             StringField(func(r txn) string { return r.TransactionType }, true),
	"Timestamp":                    StringField(func(r txn) string { return r.Timestamp.String() }, false),
	"Account_Balance":              NumberField(func(r txn) float64 { return r.AccountBalance }, false),
	"Device_Type":                  StringField(func(r txn) string { return r.DeviceType }, true),
	"Location":                     StringField(func(r txn) string { return r.Location }, true),
	"Merchant_Category":            StringField(func(r txn) string { return r.MerchantCategory }, true),
	"IP_Address_Flag":              NumberField(func(r txn) float64 { return float64(r.IPAddressFlag) }, false),
	"Previous_Fraudulent_Activity": NumberField(func(r txn) float64 { return float64(r.PreviousFraudulentActivity) }, false),
	"Daily_Transaction_Count":      NumberField(func(r txn) float64 { return float64(r.DailyTransactionCount) }, false),
	"Avg_Transaction_Amount_7d":    NumberField(func(r txn) float64 { return r.AvgTransactionAmount7d }, false),
	"Failed_Transaction_Count_7d":  NumberField(func(r txn) float64 { return float64(r.FailedTransactionCount7d) }, false),
	"Card_Type":                    StringField(func(r txn) string { return r.CardType }, true),
	"Card_Age":                     NumberField(func(r txn) float64 { return float64(r.CardAgeDays) }, false),
	"Transaction_Distance":         NumberField(func(r txn) float64 { return r.TransactionDistanceKm }, false),
	"Authentication_Method":        StringField(func(r txn) string { return r.AuthenticationMethod }, false),
	"Risk_Score":                   NumberField(func(r txn) float64 { return r.RiskScore }, false),
	"Is_Weekend":                   NumberField(func(r txn) float64 { return float64(r.IsWeekend) }, false),
	"Fraud_Label":                  NumberField(func(r txn) float64 { return float64(r.FraudLabel) }, false),
	"ensemble_score":               NumberField(func(r txn) float64 { return r.EnsembleScore }, false),
	"rule_fraud_score":             NumberField(func(r txn) float64 { return r.RuleFraudScore }, false),
	"status":                       StringField(func(r txn) string { return r.Status }, false),
	"reason_trail":                 StringField(func(r txn) string { return r.ReasonTrail }, false),
	"flag":                         StringField(func(r txn) string { return r.Flag }, false),
	"llm_analysis": {
		Kind: String,
		Str: func(r txn) (string, bool) {
			if r.LLMAnalysis == nil {
				return "", false
			}
			return *r.LLMAnalysis, true
		},
	},
}

// AlertFields extends TransactionFields with severity.
var AlertFields = extend(TransactionFields, func(a domain.AlertRecord) txn { return a.TransactionRecord },
	Fields[domain.AlertRecord]{
		"severity": StringField(func(a domain.AlertRecord) string { return a.Severity }, true),
	})

// ReviewFields extends TransactionFields with reviewed_at.
var ReviewFields = extend(TransactionFields, func(r domain.ReviewRecord) txn { return r.TransactionRecord },
	Fields[domain.ReviewRecord]{
		"reviewed_at": NumberField(func(r domain.ReviewRecord) float64 { return float64(r.ReviewedAt.UnixMilli()) }, false),
	})

// extend lifts base onto a wrapper type U and adds extra columns.
func extend[T, U any](base Fields[T], unwrap func(U) T, extra Fields[U]) Fields[U] {
	out := make(Fields[U], len(base)+len(extra))
	for name, f := range base {
		f := f
		out[name] = Field[U]{
			Kind:       f.Kind,
			Searchable: f.Searchable,
			Str:        liftStr(f.Str, unwrap),
			Num:        liftNum(f.Num, unwrap),
		}
	}
	for name, f := range extra {
		out[name] = f
	}
	return out
}

func liftStr[T, U any](get func(T) (string, bool), unwrap func(U) T) func(U) (string, bool) {
	if get == nil {
		return nil
	}
	return func(u U) (string, bool) { return get(unwrap(u)) }
}

func liftNum[T, U any](get func(T) (float64, bool), unwrap func(U) T) func(U) (float64, bool) {
	if get == nil {
		return nil
	}
	return func(u U) (float64, bool) { return get(unwrap(u)) }
}
