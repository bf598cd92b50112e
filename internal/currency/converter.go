// Package currency converts amounts between currencies using a daily
// USD-based rate table. The table is fetched over HTTP, cached in the
// key-value store for 24 hours, and refreshed on expiry; when a fetch
// fails the last cached table is used, and with no cache at all the
// converter degrades to identity rates so display never breaks.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"moneta/internal/cache"
	"moneta/internal/kv"
)

const (
	// DefaultAPIURL serves a USD-based table as {"rates": {code: rate}}.
	DefaultAPIURL = "https://api.exchangerate-api.com/v4/latest/USD"

	cacheDuration = 24 * time.Hour
)

var (
	// ErrRatesUnavailable means the fetch failed and no cached table exists.
	ErrRatesUnavailable = errors.New("exchange rates unavailable")

	// ErrUnsupportedCurrency rejects display-currency codes outside the catalog.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Info describes a supported display currency.
type Info struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

var supported = map[string]Info{
	"USD": {Name: "US Dollar", Symbol: "$"},
	"EUR": {Name: "Euro", Symbol: "€"},
	"GBP": {Name: "British Pound", Symbol: "£"},
	"JPY": {Name: "Japanese Yen", Symbol: "¥"},
	"CAD": {Name: "Canadian Dollar", Symbol: "C$"},
	"AUD": {Name: "Australian Dollar", Symbol: "A$"},
	"CHF": {Name: "Swiss Franc", Symbol: "CHF"},
	"CNY": {Name: "Chinese Yuan", Symbol: "¥"},
	"INR": {Name: "Indian Rupee", Symbol: "₹"},
	"MXN": {Name: "Mexican Peso", Symbol: "$"},
}

// Supported returns the display-currency catalog.
func Supported() map[string]Info {
	out := make(map[string]Info, len(supported))
	for code, info := range supported {
		out[code] = info
	}
	return out
}

func IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

type Converter struct {
	store  kv.Store
	client *retryablehttp.Client
	apiURL string
	pairs  *cache.LRU[decimal.Decimal]
	now    func() time.Time
}

func New(store kv.Store, apiURL string) *Converter {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &Converter{
		store:  store,
		client: client,
		apiURL: apiURL,
		pairs:  cache.NewLRU[decimal.Decimal](64, time.Hour),
		now:    time.Now,
	}
}

// Rate returns the multiplier from one currency to another. Rates go
// through USD (the table base); currencies missing from the table count
// as 1, and a completely unavailable table degrades to identity.
func (c *Converter) Rate(ctx context.Context, from, to string) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}

	pairKey := from + "/" + to
	if rate, ok := c.pairs.Get(pairKey); ok {
		return rate
	}

	table, err := c.rateTable(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Exchange rates unavailable, using identity rate",
			"from", from, "to", to, "error", err)
		return decimal.NewFromInt(1)
	}

	rate := tableRate(table, to).Div(tableRate(table, from))
	c.pairs.Set(pairKey, rate)
	return rate
}

// Convert converts an amount between currencies, degrading to the
// unconverted amount when no rates are available.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	return amount.Mul(c.Rate(ctx, from, to))
}

// Format renders an amount for display in the given currency, with the
// right symbol and fraction digits for the code.
func (c *Converter) Format(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// SelectedCurrency returns the persisted display currency, USD when unset.
func (c *Converter) SelectedCurrency(ctx context.Context) string {
	var code string
	err := kv.GetJSON(ctx, c.store, kv.KeySelectedCurrency, &code)
	if err != nil || !IsSupported(code) {
		return "USD"
	}
	return code
}

// SetSelectedCurrency persists the display currency choice.
func (c *Converter) SetSelectedCurrency(ctx context.Context, code string) error {
	if !IsSupported(code) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return kv.SetJSON(ctx, c.store, kv.KeySelectedCurrency, code)
}

func tableRate(table map[string]decimal.Decimal, code string) decimal.Decimal {
	if rate, ok := table[code]; ok && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}

// rateTable returns a fresh-enough table: the cached one while it is
// younger than 24 hours, otherwise a newly fetched one. A failed fetch
// falls back to the stale cache when one exists.
func (c *Converter) rateTable(ctx context.Context) (map[string]decimal.Decimal, error) {
	cached, cachedAt, cacheErr := c.cachedTable(ctx)
	if cacheErr == nil && c.now().Sub(cachedAt) < cacheDuration {
		return cached, nil
	}

	fetched, err := c.fetchTable(ctx)
	if err != nil {
		if cacheErr == nil {
			slog.WarnContext(ctx, "Rate fetch failed, falling back to stale cache",
				"cached_at", cachedAt, "error", err)
			return cached, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRatesUnavailable, err)
	}

	if err := kv.SetJSON(ctx, c.store, kv.KeyExchangeRates, fetched); err != nil {
		slog.WarnContext(ctx, "Failed to cache exchange rates", "error", err)
	} else if err := kv.SetJSON(ctx, c.store, kv.KeyRatesCacheTime, c.now().UnixMilli()); err != nil {
		slog.WarnContext(ctx, "Failed to record rates cache time", "error", err)
	}
	c.pairs.Purge()

	return fetched, nil
}

func (c *Converter) cachedTable(ctx context.Context) (map[string]decimal.Decimal, time.Time, error) {
	var table map[string]decimal.Decimal
	if err := kv.GetJSON(ctx, c.store, kv.KeyExchangeRates, &table); err != nil {
		return nil, time.Time{}, err
	}
	var cachedAtMilli int64
	if err := kv.GetJSON(ctx, c.store, kv.KeyRatesCacheTime, &cachedAtMilli); err != nil {
		return nil, time.Time{}, err
	}
	return table, time.UnixMilli(cachedAtMilli), nil
}

func (c *Converter) fetchTable(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch rates: status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, errors.New("empty rate table")
	}

	table := make(map[string]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		table[code] = decimal.NewFromFloat(rate)
	}

	slog.InfoContext(ctx, "Exchange rates refreshed",
		"currencies", len(table),
		"source", c.apiURL)
	return table, nil
}
