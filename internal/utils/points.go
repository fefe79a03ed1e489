package utils

import "math"

// Loyalty program rates: 100 points are worth 1000 currency units when
// redeemed (1 point = 10), and purchases earn 1 point per 400 spent.
const (
	PointsPer1000Pesos = 100
	PesosPerPoint      = 10
	EarningDivisor     = 400
)

// RefundSplit is the computed division of a refund between the money
// portion and the points portion. It is recomputed per refund event and
// never persisted.
type RefundSplit struct {
	MoneyRefund  int64 `json:"money_refund"`
	PointsRefund int64 `json:"points_refund"`
}

// CalculateEarnedPoints returns the points earned for a purchase amount,
// truncating toward zero. Callers must not pass negative amounts.
func CalculateEarnedPoints(purchaseAmount int64) int64 {
	return purchaseAmount / EarningDivisor
}

// PointsToPesos returns the redemption value of the given points.
func PointsToPesos(points int64) int64 {
	return points * PesosPerPoint
}

// PesosToPoints returns how many whole points the given amount is worth,
// truncating toward zero. The pesos→points→pesos round trip is lossy for
// amounts that are not a multiple of PesosPerPoint.
func PesosToPoints(pesos int64) int64 {
	return pesos / PesosPerPoint
}

// RequiredPointsFor returns the points needed to fully cover an amount.
// Rounds up: a 95-unit order needs 10 points, not 9.
func RequiredPointsFor(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount + PesosPerPoint - 1) / PesosPerPoint
}

// CalculateProportionalRefund splits refundAmount between money and
// points in the same ratio as the original payment. A user who paid half
// the order in points gets half of any refund back as points, regardless
// of which items are returned.
//
// The points leg floors inside the pesos→points conversion and then
// rounds the result, which can differ by one point from a single rounding
// pass. That matches the production behavior this calculator replaces and
// is kept intentionally.
func CalculateProportionalRefund(orderTotal, pointsUsed, refundAmount int64) RefundSplit {
	if orderTotal <= 0 {
		return RefundSplit{}
	}

	pointsDiscount := PointsToPesos(pointsUsed)
	moneyPaid := orderTotal - pointsDiscount

	// Order fully (or over-) covered by points: the whole refund is
	// points-sourced.
	if moneyPaid <= 0 {
		return RefundSplit{
			MoneyRefund:  0,
			PointsRefund: PesosToPoints(refundAmount),
		}
	}

	moneyProportion := float64(moneyPaid) / float64(orderTotal)
	pointsProportion := float64(pointsDiscount) / float64(orderTotal)

	moneyRefund := int64(math.Round(float64(refundAmount) * moneyProportion))

	pointsValueToRefund := float64(refundAmount) * pointsProportion
	pointsRefund := int64(math.Round(math.Floor(pointsValueToRefund / PesosPerPoint)))

	return RefundSplit{
		MoneyRefund:  moneyRefund,
		PointsRefund: pointsRefund,
	}
}
