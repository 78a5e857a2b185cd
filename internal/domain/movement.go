package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

type MovementClass string

const (
	MovementStable           MovementClass = "stable"
	MovementMinorUptick      MovementClass = "minor_uptick"
	MovementMinorDip         MovementClass = "minor_dip"
	MovementModerateRise     MovementClass = "moderate_rise"
	MovementModerateDecline  MovementClass = "moderate_decline"
	MovementSignificantRally MovementClass = "significant_rally"
	MovementSignificantDrop  MovementClass = "significant_drop"
	MovementMajorSurge       MovementClass = "major_surge"
	MovementMajorCrash       MovementClass = "major_crash"
)

var (
	one = decimal.NewFromInt(1)

	minorBand       = decimal.RequireFromString("0.005")
	moderateBand    = decimal.RequireFromString("0.01")
	significantBand = decimal.RequireFromString("0.05")
	majorBand       = decimal.RequireFromString("0.1")
)

type Movement struct {
	Ratio       decimal.Decimal
	Class       MovementClass
	Significant bool
}

func (m Movement) PercentChange() decimal.Decimal {
	return m.Ratio.Mul(decimal.NewFromInt(100))
}

// EvaluateMovement compares a snapshot's current price against its previous
// close. Ratio is current/previous - 1; the move is significant when the
// absolute ratio reaches threshold. A zero or negative previous close and
// non-finite prices are rejected with ErrInvalidQuote, never divided through.
func EvaluateMovement(snap PriceSnapshot, threshold decimal.Decimal) (Movement, error) {
	if !finitePrice(snap.CurrentPrice) || !finitePrice(snap.PreviousClose) {
		return Movement{}, ErrInvalidQuote
	}
	if snap.PreviousClose == 0 {
		return Movement{}, ErrInvalidQuote
	}
	cur := decimal.NewFromFloat(snap.CurrentPrice)
	prev := decimal.NewFromFloat(snap.PreviousClose)
	ratio := cur.Div(prev).Sub(one)
	return Movement{
		Ratio:       ratio,
		Class:       classifyMovement(ratio),
		Significant: ratio.Abs().GreaterThanOrEqual(threshold),
	}, nil
}

func finitePrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func classifyMovement(ratio decimal.Decimal) MovementClass {
	abs := ratio.Abs()
	up := ratio.Sign() >= 0
	switch {
	case abs.GreaterThanOrEqual(majorBand):
		if up {
			return MovementMajorSurge
		}
		return MovementMajorCrash
	case abs.GreaterThanOrEqual(significantBand):
		if up {
			return MovementSignificantRally
		}
		return MovementSignificantDrop
	case abs.GreaterThanOrEqual(moderateBand):
		if up {
			return MovementModerateRise
		}
		return MovementModerateDecline
	case abs.GreaterThanOrEqual(minorBand):
		if up {
			return MovementMinorUptick
		}
		return MovementMinorDip
	default:
		return MovementStable
	}
}
