package ratesources

// Group names.
const (
	GroupFiat   = "fiat"
	GroupCrypto = "crypto"
	GroupGold   = "gold"
)

// DefaultGroups builds the production provider set in priority order.
func DefaultGroups(opts ...HTTPOption) []Group {
	return []Group{
		{
			Name:    GroupFiat,
			Accepts: notGold,
			Providers: []RateProvider{
				NewHTTPProvider("open-er-api", "https://open.er-api.com/v6/latest/USD", parseOpenERAPI, opts...),
				NewHTTPProvider("frankfurter", "https://api.frankfurter.app/latest?from=USD", parseFrankfurter, opts...),
				NewHTTPProvider("fawaz-currency-api",
					"https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1/currencies/usd.json",
					parseFawazCurrencyAPI, opts...),
			},
		},
		{
			Name:    GroupCrypto,
			Accepts: notGold,
			Providers: []RateProvider{
				NewHTTPProvider("coinbase", "https://api.coinbase.com/v2/exchange-rates?currency=USD", parseCoinbase, opts...),
				NewHTTPProvider("coingecko", "https://api.coingecko.com/api/v3/exchange_rates", parseCoingecko, opts...),
			},
		},
		{
			Name:    GroupGold,
			Accepts: onlyGold,
			Providers: []RateProvider{
				NewHTTPProvider("gold-api", "https://api.gold-api.com/price/XAU", parseGoldAPI, opts...),
				NewHTTPProvider("goldprice-org", "https://data-asg.goldprice.org/dbXRates/USD", parseGoldPriceOrg, opts...),
			},
		},
	}
}

// WrapProviders applies wrap to every provider of every group.
func WrapProviders(groups []Group, wrap func(RateProvider) RateProvider) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		wrapped := make([]RateProvider, len(g.Providers))
		for j, p := range g.Providers {
			wrapped[j] = wrap(p)
		}
		g.Providers = wrapped
		out[i] = g
	}
	return out
}
