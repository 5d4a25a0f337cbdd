// Package stockdesk is a Go SDK for the stock-analysis backend REST API.
package stockdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client calls the stock-analysis backend. Every call is a single attempt;
// timeouts come from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new backend API client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchStockData retrieves prices, sentiments and risk metrics for a stock.
func (c *Client) FetchStockData(ctx context.Context, stockID, startDate, endDate string) (*StockData, error) {
	var out StockData
	if err := c.get(ctx, "fetch stock data", "/stocks/"+url.PathEscape(stockID), rangeParams(startDate, endDate), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchReport retrieves the generated investment report for a stock.
func (c *Client) FetchReport(ctx context.Context, stockID, startDate, endDate string) (*ReportData, error) {
	var out ReportData
	if err := c.get(ctx, "fetch report", "/reports/"+url.PathEscape(stockID), rangeParams(startDate, endDate), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchStrategy retrieves the strategy recommendation for a stock.
func (c *Client) FetchStrategy(ctx context.Context, stockID, startDate, endDate string) (*StrategyData, error) {
	var out StrategyData
	if err := c.get(ctx, "fetch strategy", "/strategies/"+url.PathEscape(stockID), rangeParams(startDate, endDate), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchNews runs a news search. The result is never nil on success.
func (c *Client) SearchNews(ctx context.Context, q NewsQuery) ([]NewsItem, error) {
	params := url.Values{}
	params.Set("stock_id", q.StockID)
	params.Set("query", q.Query)
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	if q.Sentiment != "" {
		params.Set("sentiment", q.Sentiment)
	}
	if len(q.Tags) > 0 {
		params.Set("tags", strings.Join(q.Tags, ","))
	}

	var out []NewsItem
	if err := c.get(ctx, "search news", "/news/search", params, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []NewsItem{}
	}
	return out, nil
}

// LogAction posts a user action to the backend logging endpoint.
func (c *Client) LogAction(ctx context.Context, action string, data map[string]any) error {
	body, err := json.Marshal(map[string]any{"action": action, "data": data})
	if err != nil {
		return fmt.Errorf("encoding action: %w", err)
	}
	u := c.baseURL + "/log-action"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Op: "log action", URL: u, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "log action", nil)
}

func rangeParams(startDate, endDate string) url.Values {
	return url.Values{
		"start_date": {startDate},
		"end_date":   {endDate},
	}
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &NetworkError{Op: op, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, op, out)
}

// do executes req and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(req *http.Request, op string, out any) error {
	u := req.URL.String()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, URL: u, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: op, URL: u, StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &NetworkError{Op: op, URL: u, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorDetail extracts the FastAPI "detail" message, falling back to the raw
// body.
func errorDetail(body []byte) string {
	var e struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &e) == nil && e.Detail != nil {
		if s, ok := e.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(e.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(body))
}
