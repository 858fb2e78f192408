package services

import (
	"log"
	"math"
	"strconv"

	config "github.com/anjiri1684/service_market/configs"
)

// DefaultCommissionRate is the platform cut applied when no override is
// configured. The rate is frozen onto each booking and payment at creation
// time; changing it never touches existing records.
const DefaultCommissionRate = 0.10

// ComputeSplit divides a service price (paise) into platform commission and
// provider earnings. Rounding is half away from zero to stay bit-for-bit
// compatible with ledger data produced by the previous system.
func ComputeSplit(servicePrice int64, rate float64) (commission, earnings int64) {
	commission = int64(math.Round(float64(servicePrice) * rate))
	earnings = servicePrice - commission
	return commission, earnings
}

// CommissionRate returns the configured platform rate, falling back to the
// default for missing or out-of-range values.
func CommissionRate() float64 {
	raw := config.Config("PLATFORM_COMMISSION_RATE")
	if raw == "" {
		return DefaultCommissionRate
	}

	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate > 1 {
		log.Printf("⚠️ Invalid PLATFORM_COMMISSION_RATE %q, using default", raw)
		return DefaultCommissionRate
	}
	return rate
}
