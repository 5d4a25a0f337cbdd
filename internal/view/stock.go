package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stockdesk/pkg/stockdesk"
)

// Placeholder messages of the stock data panel.
const (
	NoStockData   = "無數據可顯示"
	NoLatestPrice = "無最新股價數據"
	NoSentiments  = "無情緒數據"
	NoRiskMetrics = "無風險指標"
)

// maxSentiments caps the sentiment records shown on the stock panel.
const maxSentiments = 3

// StockPanel renders the latest price, the first sentiment records and the
// risk metrics of a stock query. Each section has its own placeholder; the
// whole panel collapses to one placeholder when every section is empty.
func StockPanel(d *stockdesk.StockData) string {
	if d.Empty() {
		return Placeholder(NoStockData)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		card("最新股價", LatestPrice(d.LatestPrice)),
		card("情緒數據", Sentiments(d.Sentiments)),
		card("風險指標", RiskMetrics(d.RiskMetrics)),
	)
}

// LatestPrice renders one trading day's OHLCV.
func LatestPrice(p *stockdesk.PricePoint) string {
	if p == nil {
		return Placeholder(NoLatestPrice)
	}
	return strings.Join([]string{
		field("日期", p.Date),
		field("開盤價", Fixed2(p.Open)),
		field("最高價", Fixed2(p.High)),
		field("最低價", Fixed2(p.Low)),
		field("收盤價", Fixed2(p.Close)),
		field("成交量", FormatVolume(p.Volume)),
	}, "\n")
}

// Sentiments renders up to three sentiment records as "text - label".
func Sentiments(recs []stockdesk.SentimentRecord) string {
	if len(recs) == 0 {
		return Placeholder(NoSentiments)
	}
	if len(recs) > maxSentiments {
		recs = recs[:maxSentiments]
	}
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, "• "+valueStyle.Render(r.Text)+" - "+sentimentStyle(r.Sentiment).Render(r.Sentiment))
	}
	return strings.Join(lines, "\n")
}

// RiskMetrics renders all twelve indicators, "N/A" for absent ones.
func RiskMetrics(m stockdesk.RiskMetrics) string {
	if m.Empty() {
		return Placeholder(NoRiskMetrics)
	}
	metrics := m.Metrics()
	lines := make([]string, 0, len(metrics))
	for _, nm := range metrics {
		lines = append(lines, field(nm.Name, Metric(nm.Value)))
	}
	return strings.Join(lines, "\n")
}
