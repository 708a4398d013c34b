package price

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/satstack"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// ErrNoQuote indicates that the price feed has no price for the requested day.
var ErrNoQuote = errors.New("no bitcoin quote available")

// CoinGecko fetches bitcoin prices from the CoinGecko public API.
type CoinGecko struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewCoinGecko creates a CoinGecko price oracle. The apiKey is optional.
func NewCoinGecko(httpClient *http.Client, apiKey string) *CoinGecko {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CoinGecko{httpClient: httpClient, baseURL: coinGeckoBaseURL, apiKey: apiKey}
}

func (p *CoinGecko) header() http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	if p.apiKey != "" {
		h.Set("x-cg-demo-api-key", p.apiKey)
	}
	return h
}

// Current returns the latest bitcoin price in USD.
//
//	{"bitcoin":{"usd":67187.34}}
func (p *CoinGecko) Current(ctx context.Context) (satstack.Money, error) {
	addr := p.baseURL + "/simple/price?" + url.Values{
		"ids":           {"bitcoin"},
		"vs_currencies": {"usd"},
	}.Encode()
	return p.get(ctx, addr, "$.bitcoin.usd")
}

// Historical returns the bitcoin price in USD on the given day.
//
//	{"id":"bitcoin","market_data":{"current_price":{"usd":16547.91, ...}}}
func (p *CoinGecko) Historical(ctx context.Context, on satstack.Date) (satstack.Money, error) {
	addr := p.baseURL + "/coins/bitcoin/history?" + url.Values{
		"date":         {fmt.Sprintf("%02d-%02d-%04d", on.Day(), on.Month(), on.Year())},
		"localization": {"false"},
	}.Encode()
	return p.get(ctx, addr, "$.market_data.current_price.usd")
}

func (p *CoinGecko) get(ctx context.Context, addr, path string) (satstack.Money, error) {
	var jobj any
	if err := jwget(ctx, p.httpClient, addr, p.header(), &jobj); err != nil {
		return satstack.Money{}, fmt.Errorf("error retrieving bitcoin price: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// CoinGecko omits market data for days before the coin was listed.
		return satstack.Money{}, fmt.Errorf("%w: %q: %v", ErrNoQuote, path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return satstack.Money{}, fmt.Errorf("error parsing %q: not a number %v", path, jval)
	}
	return satstack.USD(val).Round(), nil
}
