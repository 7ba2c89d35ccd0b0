package taapi

import (
	"context"
	"fmt"
	"strconv"

	drepo "CryptoPredict/internal/domain/repository"
	"CryptoPredict/pkg/config"
	xhttp "CryptoPredict/pkg/http"
)

// Client fetches technical indicators from a TAAPI-style REST API.
// One GET per indicator; the response is a flat JSON object whose value
// fields are scalars for single results and arrays when results > 1.
type Client struct {
	baseURL  string
	secret   string
	exchange string
	client   *xhttp.Client
}

// New creates a TAAPI indicator source from config.
func New(cfg *config.Config) drepo.IndicatorSource {
	return &Client{
		baseURL:  cfg.Taapi.BaseURL,
		secret:   cfg.Taapi.APIKey,
		exchange: cfg.Taapi.Exchange,
		client:   xhttp.NewClient(xhttp.WithTimeout(cfg.Taapi.Timeout)),
	}
}

// FetchSeries returns the most recent `results` values for the indicator,
// oldest first. Null or non-numeric entries come back as nil.
func (c *Client) FetchSeries(ctx context.Context, indicator, pair, timeframe string, results int, params map[string]int, valueKey string) ([]*float64, error) {
	query := c.baseQuery(pair, timeframe, params)
	query["results"] = []string{strconv.Itoa(results)}

	raw, err := c.get(ctx, indicator, query)
	if err != nil {
		return nil, err
	}

	v, ok := raw[valueKey]
	if !ok {
		return nil, fmt.Errorf("taapi %s: response missing %q", indicator, valueKey)
	}

	switch vals := v.(type) {
	case []any:
		series := make([]*float64, 0, len(vals))
		for _, item := range vals {
			series = append(series, asFloat(item))
		}
		return series, nil
	default:
		return []*float64{asFloat(v)}, nil
	}
}

// FetchValue returns the single latest value for the indicator, or nil
// when the source has no usable value.
func (c *Client) FetchValue(ctx context.Context, indicator, pair, timeframe string, params map[string]int, key string) (*float64, error) {
	raw, err := c.get(ctx, indicator, c.baseQuery(pair, timeframe, params))
	if err != nil {
		return nil, err
	}

	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("taapi %s: response missing %q", indicator, key)
	}
	return asFloat(v), nil
}

func (c *Client) get(ctx context.Context, indicator string, query map[string][]string) (map[string]any, error) {
	var out map[string]any
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/" + indicator,
		QueryParams: query,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("taapi %s: %w", indicator, err)
	}
	return out, nil
}

func (c *Client) baseQuery(pair, timeframe string, params map[string]int) map[string][]string {
	q := map[string][]string{
		"secret":   {c.secret},
		"exchange": {c.exchange},
		"symbol":   {pair},
		"interval": {timeframe},
	}
	for k, v := range params {
		q[k] = []string{strconv.Itoa(v)}
	}
	return q
}

// asFloat converts a decoded JSON value to *float64, nil for null or
// anything non-numeric.
func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}
