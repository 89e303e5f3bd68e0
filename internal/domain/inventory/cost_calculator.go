// Package inventory servicios de dominio puros sobre cantidades y costos.
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo promedio ponderado tras una entrada.
// nuevo = ((stockPrevio * costoPrevio) + (cantEntrada * costoEntrada)) / (stockPrevio + cantEntrada)
// Un stock previo negativo se trata como 0; si el total no es positivo el costo queda en 0.
func WeightedAverageCost(onHand, currentCost, received, receivedCost decimal.Decimal) decimal.Decimal {
	if onHand.LessThan(decimal.Zero) {
		onHand = decimal.Zero
	}
	total := onHand.Add(received)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	value := onHand.Mul(currentCost).Add(received.Mul(receivedCost))
	return value.DivRound(total, 4)
}

// Clamp aplica el piso en cero usado por los ajustes. applied es el delta efectivo.
func Clamp(current, delta decimal.Decimal) (result, applied decimal.Decimal, clamped bool) {
	result = current.Add(delta)
	if result.LessThan(decimal.Zero) {
		return decimal.Zero, current.Neg(), true
	}
	return result, delta, false
}
