package view

import (
	"maps"
	"slices"
	"strings"

	"stockdesk/pkg/stockdesk"
)

// NoStrategy is shown before a strategy has been fetched.
const NoStrategy = "無策略可顯示"

// StrategyPanel renders a strategy recommendation. Map sections are listed in
// key order; empty ones are skipped.
func StrategyPanel(d *stockdesk.StrategyData) string {
	if d == nil {
		return Placeholder(NoStrategy)
	}
	lines := []string{
		field("股票代碼", d.StockID),
		field("策略", d.Strategy),
		field("信號", d.Signal),
		field("混合評分", Metric(d.HybridScore)),
		field("新聞影響", Metric(d.NewsImpact)),
	}
	lines = appendScores(lines, "風險指標", d.RiskMetrics)
	lines = appendScores(lines, "信號分數", d.Signals)
	lines = appendScores(lines, "優化權重", d.OptimizedWeights)
	return card("交易策略", strings.Join(lines, "\n"))
}

func appendScores(lines []string, title string, m map[string]float64) []string {
	if len(m) == 0 {
		return lines
	}
	lines = append(lines, "", titleStyle.Render(title))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		lines = append(lines, "  "+field(k, Fixed2(m[k])))
	}
	return lines
}
