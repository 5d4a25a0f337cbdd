package page

import (
	"context"
	"log/slog"
	"strings"

	"stockdesk/internal/analytics"
	"stockdesk/pkg/stockdesk"
)

// Localized failure messages, one per page.
const (
	ErrStockQuery = "無法獲取股價數據，請稍後再試"
	ErrReport     = "無法獲取報告，請稍後再試"
	ErrStrategy   = "無法獲取策略，請稍後再試"
	ErrNews       = "無法獲取新聞，請稍後再試"
)

// Analytics page names.
const (
	NameStockQuery = "stock_query"
	NameReport     = "report"
	NameStrategy   = "strategy"
	NameNews       = "news"
)

// API is the backend surface the pages use. *stockdesk.Client implements it.
type API interface {
	FetchStockData(ctx context.Context, stockID, startDate, endDate string) (*stockdesk.StockData, error)
	FetchReport(ctx context.Context, stockID, startDate, endDate string) (*stockdesk.ReportData, error)
	FetchStrategy(ctx context.Context, stockID, startDate, endDate string) (*stockdesk.StrategyData, error)
	SearchNews(ctx context.Context, q stockdesk.NewsQuery) ([]stockdesk.NewsItem, error)
}

// RangeQuery is the submission of the stock, report and strategy pages.
type RangeQuery struct {
	StockID   string
	StartDate string
	EndDate   string
}

// NewsForm is the raw submission of the news page. Tags is the comma
// separated input.
type NewsForm struct {
	StockID   string
	Query     string
	Date      string
	Sentiment string
	Tags      string
}

// NewsQuery converts the form into API parameters.
func (f NewsForm) NewsQuery() stockdesk.NewsQuery {
	return stockdesk.NewsQuery{
		StockID:   strings.TrimSpace(f.StockID),
		Query:     strings.TrimSpace(f.Query),
		Date:      f.Date,
		Sentiment: f.Sentiment,
		Tags:      stockdesk.SplitTags(f.Tags),
	}
}

// Deps are shared by every page.
type Deps struct {
	API      API
	Recorder analytics.Recorder
	Log      *slog.Logger
}

func (d Deps) recorder() analytics.Recorder {
	if d.Recorder == nil {
		return analytics.Nop{}
	}
	return d.Recorder
}

func (d Deps) logger() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}

// StockQuery is the price query page controller.
type StockQuery = Controller[RangeQuery, *stockdesk.StockData]

// Report is the report page controller.
type Report = Controller[RangeQuery, *stockdesk.ReportData]

// Strategy is the strategy page controller.
type Strategy = Controller[RangeQuery, *stockdesk.StrategyData]

// News is the news search page controller.
type News = Controller[NewsForm, []stockdesk.NewsItem]

// NewStockQuery creates the price query page.
func NewStockQuery(d Deps) *StockQuery {
	return &StockQuery{
		name:     NameStockQuery,
		errText:  ErrStockQuery,
		validate: validateRange,
		event:    rangeEvent(""),
		fetch: func(ctx context.Context, q RangeQuery) (*stockdesk.StockData, error) {
			return d.API.FetchStockData(ctx, strings.TrimSpace(q.StockID), q.StartDate, q.EndDate)
		},
		rec: d.recorder(),
		log: d.logger(),
	}
}

// NewReport creates the report page.
func NewReport(d Deps) *Report {
	return &Report{
		name:     NameReport,
		errText:  ErrReport,
		validate: validateRange,
		event:    rangeEvent(NameReport),
		fetch: func(ctx context.Context, q RangeQuery) (*stockdesk.ReportData, error) {
			return d.API.FetchReport(ctx, strings.TrimSpace(q.StockID), q.StartDate, q.EndDate)
		},
		rec: d.recorder(),
		log: d.logger(),
	}
}

// NewStrategy creates the strategy page.
func NewStrategy(d Deps) *Strategy {
	return &Strategy{
		name:     NameStrategy,
		errText:  ErrStrategy,
		validate: validateRange,
		event:    rangeEvent(NameStrategy),
		fetch: func(ctx context.Context, q RangeQuery) (*stockdesk.StrategyData, error) {
			return d.API.FetchStrategy(ctx, strings.TrimSpace(q.StockID), q.StartDate, q.EndDate)
		},
		rec: d.recorder(),
		log: d.logger(),
	}
}

// NewNews creates the news search page.
func NewNews(d Deps) *News {
	return &News{
		name:     NameNews,
		errText:  ErrNews,
		validate: validateNews,
		event:    newsEvent,
		fetch: func(ctx context.Context, f NewsForm) ([]stockdesk.NewsItem, error) {
			return d.API.SearchNews(ctx, f.NewsQuery())
		},
		rec: d.recorder(),
		log: d.logger(),
	}
}

func validateRange(q RangeQuery) error {
	if err := required("stock_id", strings.TrimSpace(q.StockID)); err != nil {
		return err
	}
	for _, d := range []struct{ field, v string }{{"start_date", q.StartDate}, {"end_date", q.EndDate}} {
		if d.v != "" && !stockdesk.ValidDate(d.v) {
			return &ValidationError{Field: d.field, Reason: "must be yyyy-MM-dd"}
		}
	}
	return nil
}

func validateNews(f NewsForm) error {
	if err := required("stock_id", strings.TrimSpace(f.StockID)); err != nil {
		return err
	}
	if err := required("query", strings.TrimSpace(f.Query)); err != nil {
		return err
	}
	if f.Date != "" && !stockdesk.ValidDate(f.Date) {
		return &ValidationError{Field: "date", Reason: "must be yyyy-MM-dd"}
	}
	switch f.Sentiment {
	case "", stockdesk.SentimentPositive, stockdesk.SentimentNegative, stockdesk.SentimentNeutral:
	default:
		return &ValidationError{Field: "sentiment", Reason: "must be positive, negative or neutral"}
	}
	return nil
}

// rangeEvent builds the search event payload. The stock query page sends no
// type discriminator.
func rangeEvent(kind string) func(RangeQuery) map[string]any {
	return func(q RangeQuery) map[string]any {
		data := map[string]any{
			"stock_id":   strings.TrimSpace(q.StockID),
			"start_date": q.StartDate,
			"end_date":   q.EndDate,
		}
		if kind != "" {
			data["type"] = kind
		}
		return data
	}
}

func newsEvent(f NewsForm) map[string]any {
	return map[string]any{
		"stock_id":  strings.TrimSpace(f.StockID),
		"query":     strings.TrimSpace(f.Query),
		"date":      f.Date,
		"sentiment": f.Sentiment,
		"tags":      f.Tags,
		"type":      NameNews,
	}
}
