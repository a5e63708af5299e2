package benchfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPriceBaseURL = "https://stock.indianapi.in"

	// priceDatasetMetric labels the closing-price dataset in the
	// provider payload.
	priceDatasetMetric = "Price"

	// maxErrorBodyBytes bounds how much of a failed response body is
	// kept for diagnostics.
	maxErrorBodyBytes = 512
)

// Price client errors. Use errors.Is() to check for these conditions.
var (
	// ErrNoPriceDataset indicates the provider responded without a
	// price-labeled dataset.
	ErrNoPriceDataset = errors.New("no price dataset in response")
)

// HTTPDoer is an interface for making HTTP requests. It enables
// dependency injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type priceClientOptions struct {
	Logger      *slog.Logger
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration
	MaxParallel int
	HTTPClient  HTTPDoer // Optional: inject custom client for testing
}

type priceClient struct {
	logger      *slog.Logger
	baseURL     string
	apiKey      string
	maxParallel int
	client      HTTPDoer
}

func newPriceClient(opts priceClientOptions) *priceClient {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultPriceBaseURL
	}
	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 4
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}
	return &priceClient{
		logger:      logger,
		baseURL:     baseURL,
		apiKey:      opts.APIKey,
		maxParallel: maxParallel,
		client:      client,
	}
}

// historicalResponse mirrors the provider's labeled-dataset payload.
type historicalResponse struct {
	Datasets []historicalDataset `json:"datasets"`
}

type historicalDataset struct {
	Metric string     `json:"metric"`
	Values [][]string `json:"values"`
}

// FetchAll fetches the closing-price history for every symbol, one
// independent request per symbol with bounded parallelism. A failed
// fetch degrades that symbol to an empty series and records a
// diagnostic; the batch itself never fails. Every invocation is a
// fresh fetch: no retries, no caching across calls.
func (pc *priceClient) FetchAll(ctx context.Context, symbols []string, period, filter string) (map[string]PriceSeries, []Diagnostic) {
	distinct := dedupeSymbols(symbols)
	prices := make(map[string]PriceSeries, len(distinct))
	diagSlots := make([]*Diagnostic, len(distinct))
	series := make([]PriceSeries, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pc.maxParallel)
	for i, symbol := range distinct {
		g.Go(func() error {
			s, err := pc.fetchSeries(gctx, symbol, period, filter)
			if err != nil {
				pc.logger.Warn("price fetch failed", "symbol", symbol, "err", err)
				code := DiagFetchFailed
				if errors.Is(err, ErrNoPriceDataset) {
					code = DiagNoPriceDataset
				}
				diagSlots[i] = &Diagnostic{
					Stage:  StageFetch,
					Code:   code,
					Symbol: symbol,
					Detail: err.Error(),
				}
				return nil
			}
			series[i] = s
			return nil
		})
	}
	_ = g.Wait()

	var diags []Diagnostic
	for i, symbol := range distinct {
		prices[symbol] = series[i]
		if diagSlots[i] != nil {
			diags = append(diags, *diagSlots[i])
		}
	}
	return prices, diags
}

func (pc *priceClient) fetchSeries(ctx context.Context, symbol, period, filter string) (PriceSeries, error) {
	query := url.Values{}
	query.Set("stock_name", symbol)
	query.Set("period", period)
	query.Set("filter", filter)
	endpoint := fmt.Sprintf("%s/historical_data?%s", pc.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", pc.apiKey)

	resp, err := pc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload historicalResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var dataset *historicalDataset
	for i := range payload.Datasets {
		if payload.Datasets[i].Metric == priceDatasetMetric {
			dataset = &payload.Datasets[i]
			break
		}
	}
	if dataset == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoPriceDataset, symbol)
	}

	series := make(PriceSeries, 0, len(dataset.Values))
	for _, entry := range dataset.Values {
		if len(entry) < 2 {
			continue
		}
		date, ok := normalizeTradeDate(entry[0])
		if !ok {
			continue
		}
		closePrice, err := ParseAmount(entry[1])
		if err != nil {
			continue
		}
		series = append(series, PricePoint{Date: date, Close: closePrice})
	}
	sort.Slice(series, func(a, b int) bool { return series[a].Date < series[b].Date })
	return series, nil
}

func dedupeSymbols(symbols []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
