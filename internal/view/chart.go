package view

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"stockdesk/pkg/stockdesk"
)

// NoPriceHistory is shown when there are no daily prices to plot.
const NoPriceHistory = "無歷史價格數據可顯示"

const (
	chartHeight = 12
	// chartGutter is the width asciigraph uses for the y-axis labels.
	chartGutter = 12
)

// Series is the closing price line of a stock, one point per trading day.
type Series struct {
	Title  string
	Label  string
	Dates  []string
	Closes []float64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Closes) }

// PriceSeries extracts the closing price series from a stock query result.
func PriceSeries(d *stockdesk.StockData) Series {
	if d == nil {
		return Series{}
	}
	s := Series{
		Title:  d.StockID + " 歷史股價",
		Label:  "收盤價",
		Dates:  make([]string, 0, len(d.DailyPrices)),
		Closes: make([]float64, 0, len(d.DailyPrices)),
	}
	for _, p := range d.DailyPrices {
		s.Dates = append(s.Dates, p.Date)
		s.Closes = append(s.Closes, p.Close)
	}
	return s
}

// PriceChart plots the closing prices within width columns.
func PriceChart(d *stockdesk.StockData, width int) string {
	s := PriceSeries(d)
	if s.Len() == 0 {
		return Placeholder(NoPriceHistory)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n")

	if s.Len() == 1 {
		// A single day has no line to draw.
		fmt.Fprintf(&b, "  %s  %s %s\n", dimStyle.Render(s.Dates[0]), s.Label, valueStyle.Render(Fixed2(s.Closes[0])))
		return b.String()
	}

	opts := []asciigraph.Option{
		asciigraph.Height(chartHeight),
		asciigraph.Precision(2),
		asciigraph.Caption(s.Label),
	}
	plotWidth := width - chartGutter
	if plotWidth > s.Len() {
		opts = append(opts, asciigraph.Width(plotWidth))
	} else {
		plotWidth = s.Len()
	}
	b.WriteString(chartStyle.Render(asciigraph.Plot(s.Closes, opts...)))
	b.WriteString("\n")
	b.WriteString(axisLabels(s.Dates[0], s.Dates[len(s.Dates)-1], plotWidth))
	b.WriteString("\n")
	return b.String()
}

// axisLabels places first and last dates under the plot area.
func axisLabels(first, last string, width int) string {
	gap := width - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return dimStyle.Render(strings.Repeat(" ", chartGutter) + first + strings.Repeat(" ", gap) + last)
}
