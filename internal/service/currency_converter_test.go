package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/payment-wallet-service/internal/catalog"
	"github.com/anyulbade/payment-wallet-service/internal/model"
)

func TestCurrencyConverter_Convert(t *testing.T) {
	c := NewCurrencyConverter(catalog.DefaultCurrencyTable())

	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{"usd to ghs", 100, "USD", "GHS", 1235},
		{"ghs to usd", 1235, "GHS", "USD", 100},
		{"eur to gbp through usd", 92, "EUR", "GBP", 79},
		{"same currency", 42.4242, "KES", "KES", 42.4242},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.amount, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCurrencyConverter_RoundTrip(t *testing.T) {
	c := NewCurrencyConverter(catalog.DefaultCurrencyTable())

	for _, from := range c.Currencies() {
		for _, to := range c.Currencies() {
			there, err := c.Convert(250.75, from.Code, to.Code)
			require.NoError(t, err)
			back, err := c.Convert(there, to.Code, from.Code)
			require.NoError(t, err)
			assert.InEpsilon(t, 250.75, back, 1e-9, "%s -> %s", from.Code, to.Code)
		}
	}
}

func TestCurrencyConverter_Overflow(t *testing.T) {
	c := NewCurrencyConverter(catalog.DefaultCurrencyTable())

	_, err := c.Convert(1e308, "USD", "GHS")
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	got, err := c.Convert(1e308, "GHS", "USD")
	require.NoError(t, err)
	assert.InEpsilon(t, 1e308/12.35, got, 1e-9)
}

func TestCurrencyConverter_Identity(t *testing.T) {
	c := NewCurrencyConverter(catalog.DefaultCurrencyTable())

	got, err := c.Convert(0.1+0.2, "GHS", "GHS")
	require.NoError(t, err)
	assert.Equal(t, 0.1+0.2, got)
}

func TestCurrencyConverter_UnknownCurrency(t *testing.T) {
	c := NewCurrencyConverter(catalog.DefaultCurrencyTable())

	_, err := c.Convert(10, "USD", "XYZ")
	assert.ErrorIs(t, err, model.ErrUnknownCurrency)

	_, err = c.Convert(10, "XYZ", "XYZ")
	assert.ErrorIs(t, err, model.ErrUnknownCurrency)

	assert.ErrorIs(t, c.Validate(""), model.ErrUnknownCurrency)
	assert.NoError(t, c.Validate("NGN"))
}
