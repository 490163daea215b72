package ratesources

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseOpenERAPI(t *testing.T) {
	body := []byte(`{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.8,"GBP":0.5,"BAD":0,"NEG":-2,"STR":"x"}}`)

	rates, err := parseOpenERAPI(body)
	require.NoError(t, err)

	assert.True(t, dec("1.25").Equal(rates["EUR"]))
	assert.True(t, dec("2").Equal(rates["GBP"]))
	assert.NotContains(t, rates, "BAD")
	assert.NotContains(t, rates, "NEG")
	assert.NotContains(t, rates, "STR")
}

func TestParseOpenERAPIRejectsErrorResult(t *testing.T) {
	_, err := parseOpenERAPI([]byte(`{"result":"error","error-type":"quota-reached"}`))
	assert.Error(t, err)
}

func TestParseFawazUppercasesCodes(t *testing.T) {
	rates, err := parseFawazCurrencyAPI([]byte(`{"date":"2024-05-01","usd":{"eur":0.5,"pkr":278.5}}`))
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(rates["EUR"]))
	assert.Contains(t, rates, "PKR")
}

func TestParseCoinbaseStringValues(t *testing.T) {
	rates, err := parseCoinbase([]byte(`{"data":{"currency":"USD","rates":{"BTC":"0.00002","ETH":"0.0005","ZERO":"0"}}}`))
	require.NoError(t, err)
	assert.True(t, dec("50000").Equal(rates["BTC"]))
	assert.True(t, dec("2000").Equal(rates["ETH"]))
	assert.NotContains(t, rates, "ZERO")
}

func TestParseCoingecko(t *testing.T) {
	body := []byte(`{"rates":{
		"btc":{"name":"Bitcoin","unit":"BTC","value":1,"type":"crypto"},
		"eth":{"name":"Ether","unit":"ETH","value":20,"type":"crypto"},
		"usd":{"name":"US Dollar","unit":"$","value":60000,"type":"fiat"},
		"xau":{"name":"Gold - Troy Ounce","unit":"XAU","value":25,"type":"commodity"}
	}}`)

	rates, err := parseCoingecko(body)
	require.NoError(t, err)
	assert.True(t, dec("60000").Equal(rates["BTC"]))
	assert.True(t, dec("3000").Equal(rates["ETH"]))
	assert.NotContains(t, rates, "XAU")
}

func TestParseCoingeckoWithoutUSD(t *testing.T) {
	_, err := parseCoingecko([]byte(`{"rates":{"btc":{"value":1}}}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseGoldConvertsOunceToGram(t *testing.T) {
	perOunce := "3110.34768"

	for name, body := range map[string][]byte{
		"gold-api":      []byte(`{"name":"Gold","price":` + perOunce + `,"symbol":"XAU"}`),
		"goldprice-org": []byte(`{"items":[{"curr":"USD","xauPrice":` + perOunce + `}]}`),
	} {
		t.Run(name, func(t *testing.T) {
			parse := parseGoldAPI
			if name == "goldprice-org" {
				parse = parseGoldPriceOrg
			}
			rates, err := parse(body)
			require.NoError(t, err)
			assert.True(t, dec("100").Equal(rates["XAU"]), "got %s", rates["XAU"])
		})
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]ParseFunc{
		"frankfurter": parseFrankfurter,
		"coinbase":    parseCoinbase,
		"gold-api":    parseGoldAPI,
	}
	for name, parse := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse([]byte(`{"unexpected":true}`))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
