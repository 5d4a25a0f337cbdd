package stockdesk

import (
	"strings"
	"time"
)

// PricePoint is one trading day of OHLCV data.
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// SentimentRecord is a scored text snippet attached to a stock.
type SentimentRecord struct {
	StockID   string `json:"stock_id"`
	Date      string `json:"date"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Timestamp string `json:"timestamp"`
}

// RiskMetrics holds the server-computed risk indicators. Any field may be
// absent in the response and is then nil.
type RiskMetrics struct {
	VaR                   *float64 `json:"VaR,omitempty"`
	Sharpe                *float64 `json:"Sharpe,omitempty"`
	Beta                  *float64 `json:"Beta,omitempty"`
	MaxDrawdown           *float64 `json:"MaxDrawdown,omitempty"`
	Volatility            *float64 `json:"Volatility,omitempty"`
	CVaR                  *float64 `json:"CVaR,omitempty"`
	Sortino               *float64 `json:"Sortino,omitempty"`
	JensenAlpha           *float64 `json:"JensenAlpha,omitempty"`
	Treynor               *float64 `json:"Treynor,omitempty"`
	StopLoss              *float64 `json:"StopLoss,omitempty"`
	DynamicPositionSizing *float64 `json:"DynamicPositionSizing,omitempty"`
	RiskParity            *float64 `json:"RiskParity,omitempty"`
}

// NamedMetric pairs a display label with an optional value.
type NamedMetric struct {
	Name  string
	Value *float64
}

// Metrics returns all twelve indicators in display order.
func (r RiskMetrics) Metrics() []NamedMetric {
	return []NamedMetric{
		{"VaR", r.VaR},
		{"Sharpe", r.Sharpe},
		{"Beta", r.Beta},
		{"Max Drawdown", r.MaxDrawdown},
		{"Volatility", r.Volatility},
		{"CVaR", r.CVaR},
		{"Sortino", r.Sortino},
		{"Jensen Alpha", r.JensenAlpha},
		{"Treynor", r.Treynor},
		{"Stop Loss", r.StopLoss},
		{"Dynamic Position Sizing", r.DynamicPositionSizing},
		{"Risk Parity", r.RiskParity},
	}
}

// Empty reports whether every indicator is absent.
func (r RiskMetrics) Empty() bool {
	for _, m := range r.Metrics() {
		if m.Value != nil {
			return false
		}
	}
	return true
}

// StockData is the response of GET /stocks/{stock_id}.
type StockData struct {
	StockID     string            `json:"stock_id"`
	LatestPrice *PricePoint       `json:"latest_price"`
	DailyPrices []PricePoint      `json:"daily_prices"`
	Sentiments  []SentimentRecord `json:"sentiments"`
	RiskMetrics RiskMetrics       `json:"risk_metrics"`
}

// Empty reports whether the response carries nothing to display.
func (d *StockData) Empty() bool {
	return d == nil || (d.LatestPrice == nil && len(d.DailyPrices) == 0 &&
		len(d.Sentiments) == 0 && d.RiskMetrics.Empty())
}

// ReportData is the response of GET /reports/{stock_id}.
type ReportData struct {
	StockID string `json:"stock_id"`
	Period  string `json:"period"`
	Summary string `json:"summary"`
}

// StrategyData is the response of GET /strategies/{stock_id}.
type StrategyData struct {
	StockID          string             `json:"stock_id"`
	Strategy         string             `json:"strategy"`
	Signal           string             `json:"signal"`
	HybridScore      *float64           `json:"hybrid_score"`
	Signals          map[string]float64 `json:"signals"`
	OptimizedWeights map[string]float64 `json:"optimized_weights"`
	RiskMetrics      map[string]float64 `json:"risk_metrics"`
	NewsImpact       *float64           `json:"news_impact"`
}

// NewsItem is one element of the GET /news/search response.
type NewsItem struct {
	StockID   string   `json:"stock_id"`
	Date      string   `json:"date"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Outline   string   `json:"outline"`
	Tags      []string `json:"tags"`
	Sentiment string   `json:"sentiment"`
}

// Sentiment filter values accepted by the news search endpoint.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsQuery holds the news search parameters. Date, Sentiment and Tags are
// optional and omitted from the request when empty.
type NewsQuery struct {
	StockID   string
	Query     string
	Date      string
	Sentiment string
	Tags      []string
}

// SplitTags parses a comma separated tag input, trimming whitespace and
// dropping empty entries. It returns nil when no tag remains.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags formats tags for display.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// DateLayout is the ISO 8601 calendar date layout used by every endpoint.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a yyyy-MM-dd calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
