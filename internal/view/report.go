package view

import (
	"github.com/charmbracelet/lipgloss"

	"stockdesk/pkg/stockdesk"
)

// NoReport is shown before a report has been fetched.
const NoReport = "無報告可顯示"

// ReportPanel renders a generated investment report verbatim.
func ReportPanel(d *stockdesk.ReportData) string {
	if d == nil {
		return Placeholder(NoReport)
	}
	return card("投資報告", lipgloss.JoinVertical(lipgloss.Left,
		field("股票代碼", d.StockID),
		field("期間", d.Period),
		"",
		valueStyle.Render(d.Summary),
	))
}
