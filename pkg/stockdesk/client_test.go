package stockdesk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8000/"
	c := NewClient(baseURL)

	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("expected trailing slash trimmed, got %q", c.baseURL)
	}
	if c.httpClient == nil {
		t.Fatal("expected non-nil httpClient")
	}

	hc := &http.Client{}
	if got := NewClient(baseURL, WithHTTPClient(hc)).httpClient; got != hc {
		t.Error("WithHTTPClient did not replace the http client")
	}
}

func TestFetchStockData(t *testing.T) {
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"stock_id": "0050",
			"latest_price": null,
			"daily_prices": [{"date": "2024-01-02", "open": 130.1, "high": 131, "low": 129.5, "close": 130.8, "volume": 1.2e6}],
			"sentiments": [],
			"risk_metrics": {"VaR": 0.0213, "Sharpe": 1.5}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	data, err := c.FetchStockData(context.Background(), "0050", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("FetchStockData: %v", err)
	}

	wantURI := "/stocks/0050?end_date=2024-01-31&start_date=2024-01-01"
	if gotURI != wantURI {
		t.Errorf("request URI = %q, want %q", gotURI, wantURI)
	}
	if data.StockID != "0050" {
		t.Errorf("StockID = %q, want %q", data.StockID, "0050")
	}
	if data.LatestPrice != nil {
		t.Errorf("LatestPrice = %+v, want nil", data.LatestPrice)
	}
	if len(data.DailyPrices) != 1 || data.DailyPrices[0].Close != 130.8 || data.DailyPrices[0].Volume != 1.2e6 {
		t.Errorf("DailyPrices = %+v", data.DailyPrices)
	}
	if data.RiskMetrics.VaR == nil || *data.RiskMetrics.VaR != 0.0213 {
		t.Errorf("VaR = %v, want 0.0213", data.RiskMetrics.VaR)
	}
	if data.RiskMetrics.Beta != nil {
		t.Errorf("Beta = %v, want nil", *data.RiskMetrics.Beta)
	}
	if data.RiskMetrics.Empty() {
		t.Error("RiskMetrics.Empty() = true, want false")
	}
}

func TestFetchReportAndStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports/2330":
			io.WriteString(w, `{"stock_id":"2330","period":"2024-01-01 to 2024-01-31","summary":"Latest Sentiment: positive"}`)
		case "/strategies/2330":
			io.WriteString(w, `{"stock_id":"2330","strategy":"momentum_breakout","signal":"buy","hybrid_score":0.726,
				"signals":{"momentum":0.8},"optimized_weights":{"momentum":0.6},"risk_metrics":{"VaR":0.02},"news_impact":0.1}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	report, err := c.FetchReport(context.Background(), "2330", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("FetchReport: %v", err)
	}
	if report.Period != "2024-01-01 to 2024-01-31" {
		t.Errorf("Period = %q", report.Period)
	}

	strat, err := c.FetchStrategy(context.Background(), "2330", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("FetchStrategy: %v", err)
	}
	if strat.Signal != "buy" || strat.HybridScore == nil || *strat.HybridScore != 0.726 {
		t.Errorf("strategy = %+v", strat)
	}
	if strat.Signals["momentum"] != 0.8 || strat.OptimizedWeights["momentum"] != 0.6 {
		t.Errorf("signals/weights = %v / %v", strat.Signals, strat.OptimizedWeights)
	}
}

func TestSearchNewsParams(t *testing.T) {
	tests := []struct {
		name  string
		query NewsQuery
		want  map[string][]string
	}{
		{
			name:  "required only",
			query: NewsQuery{StockID: "0050", Query: "市場動態"},
			want:  map[string][]string{"stock_id": {"0050"}, "query": {"市場動態"}},
		},
		{
			name: "all filters",
			query: NewsQuery{
				StockID: "0050", Query: "ETF", Date: "2024-01-15",
				Sentiment: SentimentPositive, Tags: []string{"市場", "ETF"},
			},
			want: map[string][]string{
				"stock_id": {"0050"}, "query": {"ETF"}, "date": {"2024-01-15"},
				"sentiment": {"positive"}, "tags": {"市場,ETF"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string][]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/news/search" {
					t.Errorf("path = %q, want /news/search", r.URL.Path)
				}
				got = r.URL.Query()
				io.WriteString(w, `[]`)
			}))
			defer srv.Close()

			items, err := NewClient(srv.URL).SearchNews(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("SearchNews: %v", err)
			}
			if items == nil || len(items) != 0 {
				t.Errorf("items = %v, want empty non-nil slice", items)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("query = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchNewsNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL).SearchNews(context.Background(), NewsQuery{StockID: "0050", Query: "x"})
	if err != nil {
		t.Fatalf("SearchNews: %v", err)
	}
	if items == nil {
		t.Error("expected empty non-nil slice for null body")
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"No data found for stock 9999"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchStockData(context.Background(), "9999", "2024-01-01", "2024-01-31")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", httpErr.StatusCode)
	}
	if httpErr.Detail != "No data found for stock 9999" {
		t.Errorf("Detail = %q", httpErr.Detail)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).FetchReport(context.Background(), "0050", "2024-01-01", "2024-01-31")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.Op != "fetch report" {
		t.Errorf("Op = %q, want %q", netErr.Op, "fetch report")
	}
}

func TestDecodeErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchStrategy(context.Background(), "0050", "2024-01-01", "2024-01-31")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
}

func TestLogAction(t *testing.T) {
	var got struct {
		Action string         `json:"action"`
		Data   map[string]any `json:"data"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/log-action" {
			t.Errorf("got %s %s, want POST /log-action", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).LogAction(context.Background(), "page_view", map[string]any{"page": "news"})
	if err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	if got.Action != "page_view" || got.Data["page"] != "news" {
		t.Errorf("payload = %+v", got)
	}
}

func TestTags(t *testing.T) {
	tags := SplitTags("市場,ETF")
	if !reflect.DeepEqual(tags, []string{"市場", "ETF"}) {
		t.Errorf("SplitTags = %q", tags)
	}
	if got := JoinTags(tags); got != "市場, ETF" {
		t.Errorf("JoinTags = %q, want %q", got, "市場, ETF")
	}
	if got := SplitTags(" 市場 , ,ETF "); !reflect.DeepEqual(got, []string{"市場", "ETF"}) {
		t.Errorf("SplitTags with blanks = %q", got)
	}
	if got := SplitTags(""); got != nil {
		t.Errorf("SplitTags(\"\") = %q, want nil", got)
	}
}

func TestValidDate(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-02-29"} {
		if !ValidDate(s) {
			t.Errorf("ValidDate(%q) = false", s)
		}
	}
	for _, s := range []string{"", "2024/01/01", "2024-13-01", "20240101"} {
		if ValidDate(s) {
			t.Errorf("ValidDate(%q) = true", s)
		}
	}
}

func TestStockDataEmpty(t *testing.T) {
	var nilData *StockData
	if !nilData.Empty() {
		t.Error("nil StockData should be empty")
	}
	if !(&StockData{StockID: "0050"}).Empty() {
		t.Error("StockData with no sections should be empty")
	}
	if (&StockData{LatestPrice: &PricePoint{Date: "2024-01-02"}}).Empty() {
		t.Error("StockData with latest price should not be empty")
	}
}
