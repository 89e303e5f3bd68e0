package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestWeightedAverageCost(t *testing.T) {
	// (10 * 2 + 10 * 4) / 20 = 3
	assert.True(t, inventory.WeightedAverageCost(d("10"), d("2"), d("10"), d("4")).Equal(d("3")))

	// Sin stock previo el costo es el de la entrada.
	assert.True(t, inventory.WeightedAverageCost(d("0"), d("0"), d("5"), d("7.5")).Equal(d("7.5")))

	// Stock previo negativo se ignora.
	assert.True(t, inventory.WeightedAverageCost(d("-3"), d("9"), d("2"), d("4")).Equal(d("4")))

	assert.True(t, inventory.WeightedAverageCost(d("0"), d("1"), d("0"), d("1")).IsZero())
}

func TestClamp(t *testing.T) {
	res, applied, clamped := inventory.Clamp(d("5"), d("-2"))
	assert.True(t, res.Equal(d("3")))
	assert.True(t, applied.Equal(d("-2")))
	assert.False(t, clamped)

	res, applied, clamped = inventory.Clamp(d("5"), d("-8"))
	assert.True(t, res.IsZero(), "el ajuste no deja stock negativo")
	assert.True(t, applied.Equal(d("-5")), "el delta efectivo refleja el recorte")
	assert.True(t, clamped)
}
