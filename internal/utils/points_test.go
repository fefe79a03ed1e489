package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateEarnedPoints(t *testing.T) {
	tests := []struct {
		amount   int64
		expected int64
	}{
		{100000, 250},
		{1000, 2},
		{400, 1},
		{399, 0},
		{0, 0},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateEarnedPoints(tt.amount))
		})
	}
}

func TestConversionRoundTrips(t *testing.T) {
	t.Run("Points to pesos and back is lossless", func(t *testing.T) {
		for _, p := range []int64{0, 1, 7, 100, 5000, 999999} {
			assert.Equal(t, p, PesosToPoints(PointsToPesos(p)))
		}
	})

	t.Run("Pesos to points and back truncates to multiple of 10", func(t *testing.T) {
		assert.Equal(t, int64(9), PesosToPoints(99))
		assert.Equal(t, int64(90), PointsToPesos(PesosToPoints(99)))

		assert.Equal(t, int64(100), PointsToPesos(PesosToPoints(100)))
	})
}

func TestRequiredPointsFor(t *testing.T) {
	assert.Equal(t, int64(10), RequiredPointsFor(100))
	assert.Equal(t, int64(10), RequiredPointsFor(95)) // rounds up
	assert.Equal(t, int64(10), RequiredPointsFor(91))
	assert.Equal(t, int64(9), RequiredPointsFor(90))
	assert.Equal(t, int64(0), RequiredPointsFor(0))
}

func TestCalculateProportionalRefund(t *testing.T) {
	t.Run("No points used is a pure money refund", func(t *testing.T) {
		split := CalculateProportionalRefund(100000, 0, 100000)
		assert.Equal(t, RefundSplit{MoneyRefund: 100000, PointsRefund: 0}, split)
	})

	t.Run("Fully points-paid order refunds only points", func(t *testing.T) {
		split := CalculateProportionalRefund(100000, 10000, 100000)
		assert.Equal(t, RefundSplit{MoneyRefund: 0, PointsRefund: 10000}, split)
	})

	t.Run("Half points half money, full refund", func(t *testing.T) {
		// 5000 points are worth 50000, half of the 100000 total.
		split := CalculateProportionalRefund(100000, 5000, 100000)
		assert.Equal(t, RefundSplit{MoneyRefund: 50000, PointsRefund: 5000}, split)
	})

	t.Run("Partial refund preserves the ratio", func(t *testing.T) {
		split := CalculateProportionalRefund(100000, 5000, 40000)
		assert.Equal(t, RefundSplit{MoneyRefund: 20000, PointsRefund: 2000}, split)
	})

	t.Run("Zero refund amount", func(t *testing.T) {
		split := CalculateProportionalRefund(100000, 5000, 0)
		assert.Equal(t, RefundSplit{}, split)
	})

	t.Run("Zero order total", func(t *testing.T) {
		split := CalculateProportionalRefund(0, 100, 500)
		assert.Equal(t, RefundSplit{}, split)
	})

	t.Run("Full refund recovers the original split", func(t *testing.T) {
		// 80000 order with 200 points used (discount 2000).
		split := CalculateProportionalRefund(80000, 200, 80000)
		assert.Equal(t, int64(78000), split.MoneyRefund)
		assert.Equal(t, int64(200), split.PointsRefund)
	})

	t.Run("Points leg floors before rounding", func(t *testing.T) {
		// Order 1000 with 25 points used (discount 250, money 750).
		// Refund 333: points value is 83.25, floor(83.25/10)=8,
		// a single rounding pass would give round(8.325)=8 too, but
		// refund 999 → points value 249.75 → floor→24, round(24.975)=25.
		split := CalculateProportionalRefund(1000, 25, 999)
		assert.Equal(t, int64(24), split.PointsRefund)
	})
}
