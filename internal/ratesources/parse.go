package ratesources

import (
	"fmt"
	"strings"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// TroyOunceGrams is the number of grams in one troy ounce.
var TroyOunceGrams = decimal.RequireFromString("31.1034768")

var one = decimal.NewFromInt(1)

// ParseFunc turns a raw provider body into a USD table.
type ParseFunc func(body []byte) (map[string]decimal.Decimal, error)

// decimalOf accepts JSON numbers and numeric strings. Anything else, and any
// non-positive value, is reported as absent.
func decimalOf(v gjson.Result) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v.Type {
	case gjson.Number:
		d, err = decimal.NewFromString(v.Raw)
	case gjson.String:
		d, err = decimal.NewFromString(strings.TrimSpace(v.Str))
	default:
		return decimal.Zero, false
	}
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// invertTable reads an object of "1 USD = X units" and returns "1 unit = X USD".
func invertTable(table gjson.Result) (map[string]decimal.Decimal, error) {
	if !table.IsObject() {
		return nil, ErrMalformedPayload
	}
	out := make(map[string]decimal.Decimal)
	table.ForEach(func(key, value gjson.Result) bool {
		perUSD, ok := decimalOf(value)
		if !ok {
			return true
		}
		out[strings.ToUpper(key.String())] = one.Div(perUSD)
		return true
	})
	if len(out) == 0 {
		return nil, ErrMalformedPayload
	}
	return out, nil
}

func parseOpenERAPI(body []byte) (map[string]decimal.Decimal, error) {
	if res := gjson.GetBytes(body, "result"); res.Exists() && res.String() != "success" {
		return nil, fmt.Errorf("upstream result %q", res.String())
	}
	return invertTable(gjson.GetBytes(body, "rates"))
}

func parseFrankfurter(body []byte) (map[string]decimal.Decimal, error) {
	return invertTable(gjson.GetBytes(body, "rates"))
}

func parseFawazCurrencyAPI(body []byte) (map[string]decimal.Decimal, error) {
	return invertTable(gjson.GetBytes(body, "usd"))
}

func parseCoinbase(body []byte) (map[string]decimal.Decimal, error) {
	return invertTable(gjson.GetBytes(body, "data.rates"))
}

// parseCoingecko reads a BTC-denominated table: usd(X) = rates.usd.value / rates.x.value.
// Commodity rows are skipped since they are quoted per ounce.
func parseCoingecko(body []byte) (map[string]decimal.Decimal, error) {
	rates := gjson.GetBytes(body, "rates")
	if !rates.IsObject() {
		return nil, ErrMalformedPayload
	}
	usdPerBTC, ok := decimalOf(rates.Get("usd.value"))
	if !ok {
		return nil, fmt.Errorf("%w: no usd row", ErrMalformedPayload)
	}
	out := make(map[string]decimal.Decimal)
	rates.ForEach(func(key, row gjson.Result) bool {
		if row.Get("type").String() == "commodity" {
			return true
		}
		perBTC, ok := decimalOf(row.Get("value"))
		if !ok {
			return true
		}
		out[strings.ToUpper(key.String())] = usdPerBTC.Div(perBTC)
		return true
	})
	return out, nil
}

func goldPerGram(perOunce gjson.Result) (map[string]decimal.Decimal, error) {
	price, ok := decimalOf(perOunce)
	if !ok {
		return nil, ErrMalformedPayload
	}
	return map[string]decimal.Decimal{domain.GoldCode: price.Div(TroyOunceGrams)}, nil
}

func parseGoldAPI(body []byte) (map[string]decimal.Decimal, error) {
	return goldPerGram(gjson.GetBytes(body, "price"))
}

func parseGoldPriceOrg(body []byte) (map[string]decimal.Decimal, error) {
	return goldPerGram(gjson.GetBytes(body, "items.0.xauPrice"))
}
