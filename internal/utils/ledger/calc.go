// Package ledger holds the pure arithmetic that converts a requested currency
// amount into its fee / net / unit breakdown. No I/O, no state.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/apperrors"
)

const (
	// CurrencyPlaces is the decimal precision of ZAR amounts.
	CurrencyPlaces = 2
	// UnitPlaces is the decimal precision of resource units (kWh, liters).
	UnitPlaces = 3
)

// Quote is the breakdown of a gross currency amount.
type Quote struct {
	Gross      decimal.Decimal
	ServiceFee decimal.Decimal
	Net        decimal.Decimal
	Units      decimal.Decimal
}

// NewQuote computes the fee, net amount and purchasable units for a gross
// amount at the given commission rate and unit price.
//
// Rounding happens step-wise: the gross is first normalised to currency
// precision, the fee is rounded to currency precision, the net is the exact
// difference, and units are rounded to unit precision. Computing everything in
// full precision and rounding once can differ at the cent level, so the
// step-wise order is part of the contract.
func NewQuote(gross, commissionRate, pricePerUnit decimal.Decimal) (Quote, error) {
	q, err := NewFeeQuote(gross, commissionRate)
	if err != nil {
		return Quote{}, err
	}
	if pricePerUnit.LessThanOrEqual(decimal.Zero) {
		return Quote{}, fmt.Errorf("%w: price per unit must be positive, got %s", apperrors.ErrValidation, pricePerUnit)
	}
	q.Units = q.Net.Div(pricePerUnit).Round(UnitPlaces)
	return q, nil
}

// NewFeeQuote computes only the fee/net split for operations that buy no
// units (wallet top-ups and withdrawals). Units is zero.
func NewFeeQuote(gross, commissionRate decimal.Decimal) (Quote, error) {
	if gross.LessThanOrEqual(decimal.Zero) {
		return Quote{}, fmt.Errorf("%w: gross amount must be positive, got %s", apperrors.ErrInvalidAmount, gross)
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Quote{}, fmt.Errorf("%w: commission rate must be in [0,1), got %s", apperrors.ErrValidation, commissionRate)
	}

	gross = gross.Round(CurrencyPlaces)
	fee := gross.Mul(commissionRate).Round(CurrencyPlaces)
	net := gross.Sub(fee)

	return Quote{
		Gross:      gross,
		ServiceFee: fee,
		Net:        net,
		Units:      decimal.Zero,
	}, nil
}
