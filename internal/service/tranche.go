package service

import "github.com/shopspring/decimal"

// The staged payment split: 10% deposit, 40% on design approval, 50% before
// shipment.
var (
	depositRate = decimal.NewFromFloat(0.10)
	secondRate  = decimal.NewFromFloat(0.40)
)

// Schedule holds the three fixed tranche amounts for an order. Computed once
// at order creation and stored; never recomputed afterwards.
type Schedule struct {
	Deposit decimal.Decimal
	Second  decimal.Decimal
	Final   decimal.Decimal
}

// ComputeSchedule splits a subtotal into the 10/40/50 tranches. Deposit and
// second payment are rounded to cents; the final tranche takes the remainder
// so the three always sum to the subtotal exactly.
func ComputeSchedule(subtotal decimal.Decimal) Schedule {
	deposit := subtotal.Mul(depositRate).Round(2)
	second := subtotal.Mul(secondRate).Round(2)
	return Schedule{
		Deposit: deposit,
		Second:  second,
		Final:   subtotal.Sub(deposit).Sub(second),
	}
}

// Sum returns deposit + second + final.
func (s Schedule) Sum() decimal.Decimal {
	return s.Deposit.Add(s.Second).Add(s.Final)
}
