// Package fees computes the brokerage, STT and GST charged on a stock
// reward. All arithmetic is exact decimal; rounding happens only when the
// amounts are formatted at the API boundary.
package fees

import "github.com/shopspring/decimal"

// Rates holds the fee policy applied to a gross reward amount.
type Rates struct {
	MinBrokerageInr decimal.Decimal
	BrokerageRate   decimal.Decimal
	STTRate         decimal.Decimal
	GSTRate         decimal.Decimal
}

// DefaultRates returns the standard fee schedule: brokerage of 0.2% with a
// flat 5 INR floor, STT of 0.1% on gross, GST of 18% on brokerage.
func DefaultRates() Rates {
	return Rates{
		MinBrokerageInr: decimal.NewFromInt(5),
		BrokerageRate:   decimal.NewFromFloat(0.002),
		STTRate:         decimal.NewFromFloat(0.001),
		GSTRate:         decimal.NewFromFloat(0.18),
	}
}

// Breakdown itemizes the fees charged on one reward.
type Breakdown struct {
	Brokerage decimal.Decimal
	STT       decimal.Decimal
	GST       decimal.Decimal
	TotalFees decimal.Decimal
}

// Compute derives the fee breakdown for a gross amount. The brokerage floor
// dominates for small amounts, so TotalFees is never below MinBrokerageInr
// for a nonzero schedule.
func (r Rates) Compute(gross decimal.Decimal) Breakdown {
	brokerage := decimal.Max(r.MinBrokerageInr, gross.Mul(r.BrokerageRate))
	stt := gross.Mul(r.STTRate)
	gst := brokerage.Mul(r.GSTRate)
	return Breakdown{
		Brokerage: brokerage,
		STT:       stt,
		GST:       gst,
		TotalFees: brokerage.Add(stt).Add(gst),
	}
}
