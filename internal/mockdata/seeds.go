package mockdata

import (
	"tguardian/monitor-api/internal/domain"
)

// seedRecords are hand-authored transactions that always lead the dataset.
// Only feature fields are set; buildFromSeed fills scores and verdicts.
var seedRecords = []domain.TransactionRecord{
	{TransactionID: "TXN_33553", UserID: "USER_1834", Amount: 39.79, TransactionType: "POS", Timestamp: domain.NewTimestamp(2023, 8, 14, 19, 30, 0), AccountBalance: 93213.17, DeviceType: "Laptop", Location: "Sydney", MerchantCategory: "Travel", DailyTransactionCount: 7, AvgTransactionAmount7d: 437.63, FailedTransactionCount7d: 3, CardType: "Amex", CardAgeDays: 65, TransactionDistanceKm: 883.17, AuthenticationMethod: "Biometric", RiskScore: 0.8494},
	{TransactionID: "TXN_9427", UserID: "USER_7875", Amount: 1.19, TransactionType: "Bank Transfer", Timestamp: domain.NewTimestamp(2023, 6, 7, 4, 1, 0), AccountBalance: 75725.25, DeviceType: "Mobile", Location: "New York", MerchantCategory: "Clothing", DailyTransactionCount: 13, AvgTransactionAmount7d: 478.76, FailedTransactionCount7d: 4, CardType: "Mastercard", CardAgeDays: 186, TransactionDistanceKm: 2203.36, AuthenticationMethod: "Password", RiskScore: 0.0959, FraudLabel: 1},
	{TransactionID: "TXN_199", UserID: "USER_2734", Amount: 28.96, TransactionType: "Online", Timestamp: domain.NewTimestamp(2023, 6, 20, 15, 25, 0), AccountBalance: 1588.96, DeviceType: "Tablet", Location: "Mumbai", MerchantCategory: "Restaurants", DailyTransactionCount: 14, AvgTransactionAmount7d: 50.01, FailedTransactionCount7d: 4, CardType: "Visa", CardAgeDays: 226, TransactionDistanceKm: 1909.29, AuthenticationMethod: "Biometric", RiskScore: 0.84, FraudLabel: 1},
	{TransactionID: "TXN_12447", UserID: "USER_2617", Amount: 254.32, TransactionType: "ATM Withdrawal", Timestamp: domain.NewTimestamp(2023, 12, 7, 0, 31, 0), AccountBalance: 76807.2, DeviceType: "Tablet", Location: "New York", MerchantCategory: "Clothing", DailyTransactionCount: 8, AvgTransactionAmount7d: 182.48, FailedTransactionCount7d: 4, CardType: "Visa", CardAgeDays: 76, TransactionDistanceKm: 1311.86, AuthenticationMethod: "OTP", RiskScore: 0.7935, FraudLabel: 1},
	{TransactionID: "TXN_39489", UserID: "USER_2014", Amount: 31.28, TransactionType: "POS", Timestamp: domain.NewTimestamp(2023, 11, 11, 23, 44, 0), AccountBalance: 92354.66, DeviceType: "Mobile", Location: "Mumbai", MerchantCategory: "Electronics", PreviousFraudulentActivity: 1, DailyTransactionCount: 14, AvgTransactionAmount7d: 328.69, FailedTransactionCount7d: 4, CardType: "Mastercard", CardAgeDays: 140, TransactionDistanceKm: 966.98, AuthenticationMethod: "Password", RiskScore: 0.3819, IsWeekend: 1, FraudLabel: 1},
	{TransactionID: "TXN_42724", UserID: "USER_6852", Amount: 168.55, TransactionType: "Online", Timestamp: domain.NewTimestamp(2023, 6, 5, 20, 55, 0), AccountBalance: 33236.94, DeviceType: "Laptop", Location: "Tokyo", MerchantCategory: "Restaurants", DailyTransactionCount: 3, AvgTransactionAmount7d: 226.85, FailedTransactionCount7d: 2, CardType: "Discover", CardAgeDays: 51, TransactionDistanceKm: 1725.64, AuthenticationMethod: "OTP", RiskScore: 0.0504},
	{TransactionID: "TXN_10822", UserID: "USER_5052", Amount: 3.79, TransactionType: "POS", Timestamp: domain.NewTimestamp(2023, 11, 7, 1, 18, 0), AccountBalance: 86834.18, DeviceType: "Tablet", Location: "London", MerchantCategory: "Restaurants", DailyTransactionCount: 2, AvgTransactionAmount7d: 298.35, FailedTransactionCount7d: 2, CardType: "Mastercard", CardAgeDays: 168, TransactionDistanceKm: 3757.19, AuthenticationMethod: "Password", RiskScore: 0.0875},
	{TransactionID: "TXN_49498", UserID: "USER_4660", Amount: 7.08, TransactionType: "ATM Withdrawal", Timestamp: domain.NewTimestamp(2023, 2, 25, 3, 43, 0), AccountBalance: 45826.27, DeviceType: "Tablet", Location: "London", MerchantCategory: "Restaurants", DailyTransactionCount: 3, AvgTransactionAmount7d: 164.38, FailedTransactionCount7d: 4, CardType: "Discover", CardAgeDays: 182, TransactionDistanceKm: 1764.66, AuthenticationMethod: "Biometric", RiskScore: 0.5326, FraudLabel: 1},
	{TransactionID: "TXN_4144", UserID: "USER_1584", Amount: 34.25, TransactionType: "ATM Withdrawal", Timestamp: domain.NewTimestamp(2023, 3, 9, 22, 51, 0), AccountBalance: 94392.35, DeviceType: "Tablet", Location: "Tokyo", MerchantCategory: "Clothing", DailyTransactionCount: 7, AvgTransactionAmount7d: 90.02, FailedTransactionCount7d: 3, CardType: "Visa", CardAgeDays: 24, TransactionDistanceKm: 550.38, AuthenticationMethod: "Biometric", RiskScore: 0.1347, IsWeekend: 1},
	{TransactionID: "TXN_36958", UserID: "USER_9498", Amount: 16.24, TransactionType: "POS", Timestamp: domain.NewTimestamp(2023, 9, 20, 17, 27, 0), AccountBalance: 91859.97, DeviceType: "Mobile", Location: "Mumbai", MerchantCategory: "Travel", DailyTransactionCount: 6, AvgTransactionAmount7d: 474.42, FailedTransactionCount7d: 1, CardType: "Mastercard", CardAgeDays: 124, TransactionDistanceKm: 720.91, AuthenticationMethod: "PIN", RiskScore: 0.3394},
}

// SeedRecords returns copies of the hand-authored seed records.
func SeedRecords() []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, len(seedRecords))
	copy(out, seedRecords)
	return out
}
