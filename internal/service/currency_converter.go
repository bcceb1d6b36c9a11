package service

import (
	"fmt"
	"math"

	"github.com/anyulbade/payment-wallet-service/internal/catalog"
	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// CurrencyConverter converts amounts through the base currency using the
// injected rate table. It holds no state of its own.
type CurrencyConverter struct {
	table catalog.CurrencyTable
}

func NewCurrencyConverter(table catalog.CurrencyTable) *CurrencyConverter {
	return &CurrencyConverter{table: table}
}

// Convert returns amount expressed in currency to. Converting a currency to
// itself returns amount unchanged. A result that is not finite fails with
// model.ErrInvalidAmount.
func (c *CurrencyConverter) Convert(amount float64, from, to string) (float64, error) {
	fromInfo, err := c.lookup(from)
	if err != nil {
		return 0, err
	}
	toInfo, err := c.lookup(to)
	if err != nil {
		return 0, err
	}

	if from == to {
		return amount, nil
	}

	result := amount
	if from != model.BaseCurrency {
		result = amount / fromInfo.ExchangeRate
	}
	if to != model.BaseCurrency {
		result *= toInfo.ExchangeRate
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, fmt.Errorf("%w: %v %s does not fit in %s", model.ErrInvalidAmount, amount, from, to)
	}
	return result, nil
}

// Validate fails with model.ErrUnknownCurrency when code is not in the table.
func (c *CurrencyConverter) Validate(code string) error {
	_, err := c.lookup(code)
	return err
}

func (c *CurrencyConverter) Currencies() []model.CurrencyInfo {
	return c.table.All()
}

func (c *CurrencyConverter) lookup(code string) (model.CurrencyInfo, error) {
	info, ok := c.table.Lookup(code)
	if !ok {
		return model.CurrencyInfo{}, fmt.Errorf("%w: %q", model.ErrUnknownCurrency, code)
	}
	return info, nil
}
