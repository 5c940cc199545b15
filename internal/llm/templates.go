package llm

import (
	"fmt"
	"strings"

	"tguardian/monitor-api/internal/domain"
)

type template func(r domain.TransactionRecord) string

var templates = []template{
	func(r domain.TransactionRecord) string {
		return fmt.Sprintf("The flagged transaction (%s) by %s for $%.2f at a restaurant in %s using a %s and %s authentication "+
			"does not exhibit significant anomalies compared to the user's historical data. The transaction amount is within "+
			"the user's average, and the location, device, and IP address are consistent with past behavior. The transaction "+
			"should be monitored for any potential changes in behavior, but based on the available data, it does not raise "+
			"immediate red flags for fraud.",
			r.TransactionID, r.UserID, r.Amount, r.Location, r.CardType, strings.ToLower(r.AuthenticationMethod))
	},
	func(r domain.TransactionRecord) string {
		return fmt.Sprintf("Analysis of transaction %s by %s for $%.2f in %s indicates moderate risk. The %s card has been used "+
			"consistently in this region. While the transaction amount is slightly above the 7-day average, the authentication "+
			"method and device fingerprint match previous patterns. Recommend monitoring but no immediate action required.",
			r.TransactionID, r.UserID, r.Amount, r.Location, r.CardType)
	},
	func(r domain.TransactionRecord) string {
		return fmt.Sprintf("Transaction %s from %s for $%.2f in %s shows elevated risk indicators. The transaction distance from "+
			"the user's typical location is significant, and the amount is notably higher than recent averages. Multiple models "+
			"flagged this transaction. However, the user has occasionally made similar transactions in the past. Recommend human "+
			"review before final decision.",
			r.TransactionID, r.UserID, r.Amount, r.Location)
	},
	func(r domain.TransactionRecord) string {
		return fmt.Sprintf("The transaction %s by %s worth $%.2f from %s appears to be legitimate based on the user's spending "+
			"history. The card age, device consistency, and authentication method all align with established patterns. The "+
			"ensemble score is low, suggesting minimal fraud risk. This transaction can be safely approved.",
			r.TransactionID, r.UserID, r.Amount, r.Location)
	},
	func(r domain.TransactionRecord) string {
		return fmt.Sprintf("High-risk assessment for %s from %s ($%.2f, %s). Multiple detection models have flagged this "+
			"transaction with high confidence scores. The combination of unusual location, elevated amount, and recent failed "+
			"transactions suggests potential fraudulent activity. Recommend blocking this transaction pending further investigation.",
			r.TransactionID, r.UserID, r.Amount, r.Location)
	},
}

// TemplateCount is the number of canned analyses.
func TemplateCount() int { return len(templates) }

// Render fills template i (taken modulo TemplateCount) with the record's fields.
func Render(i int, r domain.TransactionRecord) string {
	n := len(templates)
	return templates[((i%n)+n)%n](r)
}
