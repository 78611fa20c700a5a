package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/utils/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewQuote(t *testing.T) {
	testCases := []struct {
		name         string
		gross        string
		rate         string
		pricePerUnit string
		wantFee      string
		wantNet      string
		wantUnits    string
	}{
		{
			name:  "electricity purchase R100 at 5 percent",
			gross: "100.00", rate: "0.05", pricePerUnit: "1.50",
			wantFee: "5.00", wantNet: "95.00", wantUnits: "63.333",
		},
		{
			name:  "water purchase R50 at 5 percent",
			gross: "50.00", rate: "0.05", pricePerUnit: "0.02",
			wantFee: "2.50", wantNet: "47.50", wantUnits: "2375.000",
		},
		{
			name:  "zero commission",
			gross: "10.00", rate: "0", pricePerUnit: "1.50",
			wantFee: "0.00", wantNet: "10.00", wantUnits: "6.667",
		},
		{
			name:  "sub-cent gross is rounded before fee computation",
			gross: "99.999", rate: "0.05", pricePerUnit: "1.50",
			wantFee: "5.00", wantNet: "95.00", wantUnits: "63.333",
		},
		{
			name:  "fee rounds half up at the cent",
			gross: "10.10", rate: "0.05", pricePerUnit: "1.50",
			wantFee: "0.51", wantNet: "9.59", wantUnits: "6.393",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ledger.NewQuote(dec(tc.gross), dec(tc.rate), dec(tc.pricePerUnit))
			require.NoError(t, err)

			assert.True(t, q.ServiceFee.Equal(dec(tc.wantFee)), "fee: got %s want %s", q.ServiceFee, tc.wantFee)
			assert.True(t, q.Net.Equal(dec(tc.wantNet)), "net: got %s want %s", q.Net, tc.wantNet)
			assert.True(t, q.Units.Equal(dec(tc.wantUnits)), "units: got %s want %s", q.Units, tc.wantUnits)

			// fee + net must reconstruct the normalised gross exactly
			assert.True(t, q.ServiceFee.Add(q.Net).Equal(q.Gross))
			assert.False(t, q.Units.IsNegative())
		})
	}
}

func TestNewQuoteRejectsBadInput(t *testing.T) {
	_, err := ledger.NewQuote(dec("0"), dec("0.05"), dec("1.50"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = ledger.NewQuote(dec("-5"), dec("0.05"), dec("1.50"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = ledger.NewQuote(dec("100"), dec("1"), dec("1.50"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ledger.NewQuote(dec("100"), dec("-0.01"), dec("1.50"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ledger.NewQuote(dec("100"), dec("0.05"), dec("0"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewQuoteIsDeterministic(t *testing.T) {
	first, err := ledger.NewQuote(dec("123.45"), dec("0.05"), dec("1.50"))
	require.NoError(t, err)
	second, err := ledger.NewQuote(dec("123.45"), dec("0.05"), dec("1.50"))
	require.NoError(t, err)

	assert.True(t, first.ServiceFee.Equal(second.ServiceFee))
	assert.True(t, first.Net.Equal(second.Net))
	assert.True(t, first.Units.Equal(second.Units))
}

func TestNewFeeQuote(t *testing.T) {
	q, err := ledger.NewFeeQuote(dec("100.00"), dec("0.05"))
	require.NoError(t, err)

	assert.True(t, q.ServiceFee.Equal(dec("5.00")))
	assert.True(t, q.Net.Equal(dec("95.00")))
	assert.True(t, q.Units.IsZero())
}

func TestFeePlusNetEqualsGrossAcrossRange(t *testing.T) {
	// property: serviceFee + netAmount == grossAmount at 2dp
	rates := []string{"0", "0.01", "0.05", "0.125", "0.5", "0.99"}
	amounts := []string{"0.01", "0.99", "1.00", "33.33", "100.00", "9999.99"}

	for _, r := range rates {
		for _, a := range amounts {
			q, err := ledger.NewFeeQuote(dec(a), dec(r))
			require.NoError(t, err, "gross=%s rate=%s", a, r)
			assert.True(t, q.ServiceFee.Add(q.Net).Equal(q.Gross), "gross=%s rate=%s", a, r)
		}
	}
}
