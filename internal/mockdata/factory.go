package mockdata

import (
	"fmt"
	"time"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/scoring"
)

// Generation policy for benign synthetic records.
const (
	datasetYear       = 2023
	benignScoreCeil   = 0.35
	modelNoise        = 0.15 // full width; ±0.075 around the ensemble
	isoForestNoise    = 0.30 // full width; ±0.15
	ipFlagRate        = 0.05
	priorFraudRate    = 0.08
	weekendRate       = 0.28
	maxTransactionNum = 49999
	maxUserNum        = 9999
)

// NewTransaction builds one benign (PASS) record from the stream.
func NewTransaction(rng *Rand) domain.TransactionRecord {
	rec := domain.TransactionRecord{
		TransactionID:         drawTransactionID(rng),
		UserID:                fmt.Sprintf("USER_%d", rng.Intn(maxUserNum)+1),
		Amount:                roundCents(rng.Float64()*490 + 0.5),
		TransactionType:       Pick(rng, domain.TransactionTypes),
		Location:              Pick(rng, domain.Locations),
		CardType:              Pick(rng, domain.CardTypes),
		DeviceType:            Pick(rng, domain.DeviceTypes),
		MerchantCategory:      Pick(rng, domain.MerchantCategories),
		AuthenticationMethod:  Pick(rng, domain.AuthenticationMethods),
		CardAgeDays:           rng.Intn(300) + 1,
		TransactionDistanceKm: roundCents(rng.Float64() * 5000),
	}
	rec.DailyTransactionCount = rng.Intn(15) + 1
	rec.AvgTransactionAmount7d = roundCents(rng.Float64() * 500)
	rec.FailedTransactionCount7d = rng.Intn(5)
	rec.AccountBalance = roundCents(rng.Float64()*99000) + 1000
	rec.IPAddressFlag = boolInt(rng.Chance(ipFlagRate))
	rec.PreviousFraudulentActivity = boolInt(rng.Chance(priorFraudRate))
	rec.IsWeekend = boolInt(rng.Chance(weekendRate))
	rec.RiskScore = roundCents(rng.Float64())

	rec.EnsembleScore = roundCents(rng.Float64() * benignScoreCeil)
	rec.RuleFraudScore = 0
	rec.ModelScores = noisyModelScores(rec.EnsembleScore, rng)

	month := rng.Intn(12) + 1
	day := rng.Intn(28) + 1
	hour := rng.Intn(24)
	minute := rng.Intn(60)
	rec.Timestamp = domain.NewTimestamp(datasetYear, time.Month(month), day, hour, minute, 0)

	rec.Status = domain.StatusPass
	rec.Flag = domain.StatusPass
	return rec
}

// noisyModelScores spreads per-model scores around the ensemble score.
// One draw per model, in domain.ModelNames order.
func noisyModelScores(ensemble float64, rng *Rand) map[string]float64 {
	scores := make(map[string]float64, len(domain.ModelNames))
	for _, name := range domain.ModelNames {
		width := modelNoise
		if name == domain.ModelIsoForest {
			width = isoForestNoise
		}
		scores[name] = scoring.Clamp01(ensemble + (rng.Float64()-0.5)*width)
	}
	return scores
}

func drawTransactionID(rng *Rand) string {
	return fmt.Sprintf("TXN_%d", rng.Intn(maxTransactionNum)+1)
}

// setFlags recomputes the indicator flags from the current scores.
func setFlags(rec *domain.TransactionRecord) {
	rec.RuleFlagged, rec.AIFlagged = scoring.Flags(rec.RuleFraudScore, rec.EnsembleScore)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
