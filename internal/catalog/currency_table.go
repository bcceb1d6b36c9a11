package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/seeddata"
)

// CurrencyTable is the read-only rate table used for conversions.
type CurrencyTable interface {
	Lookup(code string) (model.CurrencyInfo, bool)
	All() []model.CurrencyInfo
}

// StaticTable is an immutable snapshot of currency reference data.
type StaticTable struct {
	byCode map[string]model.CurrencyInfo
}

func NewStaticTable(currencies []model.CurrencyInfo) (*StaticTable, error) {
	byCode := make(map[string]model.CurrencyInfo, len(currencies))
	for _, c := range currencies {
		if c.Code == "" {
			return nil, fmt.Errorf("currency with empty code")
		}
		if c.ExchangeRate <= 0 {
			return nil, fmt.Errorf("currency %s: exchange rate must be positive, got %v", c.Code, c.ExchangeRate)
		}
		if _, dup := byCode[c.Code]; dup {
			return nil, fmt.Errorf("currency %s listed twice", c.Code)
		}
		byCode[c.Code] = c
	}
	base, ok := byCode[model.BaseCurrency]
	if !ok {
		return nil, fmt.Errorf("base currency %s missing from table", model.BaseCurrency)
	}
	if base.ExchangeRate != 1 {
		return nil, fmt.Errorf("base currency %s must have rate 1, got %v", model.BaseCurrency, base.ExchangeRate)
	}
	return &StaticTable{byCode: byCode}, nil
}

// ParseCurrencyTable decodes a JSON array of currencies.
func ParseCurrencyTable(data []byte) (*StaticTable, error) {
	var currencies []model.CurrencyInfo
	if err := json.Unmarshal(data, &currencies); err != nil {
		return nil, fmt.Errorf("parse currency table: %w", err)
	}
	return NewStaticTable(currencies)
}

// DefaultCurrencyTable returns the table embedded in the binary.
func DefaultCurrencyTable() *StaticTable {
	t, err := ParseCurrencyTable(seeddata.CurrenciesJSON)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *StaticTable) Lookup(code string) (model.CurrencyInfo, bool) {
	c, ok := t.byCode[code]
	return c, ok
}

func (t *StaticTable) All() []model.CurrencyInfo {
	out := make([]model.CurrencyInfo, 0, len(t.byCode))
	for _, c := range t.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// FileTable serves rates from a JSON file and swaps in a new snapshot on Reload.
// Readers never observe a partially loaded table.
type FileTable struct {
	path    string
	current atomic.Pointer[StaticTable]
}

func NewFileTable(path string) (*FileTable, error) {
	t := &FileTable{path: path}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *FileTable) Reload() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("read currency table: %w", err)
	}
	next, err := ParseCurrencyTable(data)
	if err != nil {
		return err
	}
	t.current.Store(next)
	log.Info().Str("path", t.path).Int("currencies", len(next.byCode)).Msg("currency table loaded")
	return nil
}

func (t *FileTable) Lookup(code string) (model.CurrencyInfo, bool) {
	return t.current.Load().Lookup(code)
}

func (t *FileTable) All() []model.CurrencyInfo {
	return t.current.Load().All()
}
