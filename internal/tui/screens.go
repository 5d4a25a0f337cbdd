package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stockdesk/internal/page"
	"stockdesk/internal/view"
	"stockdesk/pkg/stockdesk"
)

// Loading is shown while a page waits for the backend.
const Loading = "正在載入..."

// fetchedMsg carries a backend result back to the page instance that asked.
type fetchedMsg struct {
	instance uint64
	seq      uint64
	data     any
	err      error
}

// screen is the behaviour the shell needs from a page.
type screen interface {
	id() uint64
	mount()
	form() *form
	// submit validates the form and returns the fetch command, or nil.
	submit(ctx context.Context) tea.Cmd
	// resolve applies a fetch result addressed to this instance.
	resolve(msg fetchedMsg)
	status() string
	body(width int) string
}

// pageScreen binds a form and a controller to a render function.
type pageScreen[Q, T any] struct {
	instance uint64
	ctrl     *page.Controller[Q, T]
	f        *form
	query    func(*form) Q
	render   func(data T, width int) string
	hint     string
}

func (s *pageScreen[Q, T]) id() uint64  { return s.instance }
func (s *pageScreen[Q, T]) mount()      { s.ctrl.Mount() }
func (s *pageScreen[Q, T]) form() *form { return s.f }

func (s *pageScreen[Q, T]) submit(ctx context.Context) tea.Cmd {
	q := s.query(s.f)
	seq, err := s.ctrl.Begin(q)
	if err != nil {
		s.hint = err.Error()
		return nil
	}
	s.hint = ""
	ctrl, instance := s.ctrl, s.instance
	return func() tea.Msg {
		data, err := ctrl.Fetch(ctx, q)
		return fetchedMsg{instance: instance, seq: seq, data: data, err: err}
	}
}

func (s *pageScreen[Q, T]) resolve(msg fetchedMsg) {
	data, _ := msg.data.(T)
	s.ctrl.Resolve(msg.seq, data, msg.err)
}

func (s *pageScreen[Q, T]) status() string {
	st := s.ctrl.State()
	var parts []string
	if s.hint != "" {
		parts = append(parts, hintStyle.Render("  "+s.hint))
	}
	if st.Loading {
		parts = append(parts, loadingStyle.Render("  "+Loading))
	}
	if st.Err != "" {
		parts = append(parts, errorStyle.Render("  "+st.Err))
	}
	return strings.Join(parts, "  ")
}

func (s *pageScreen[Q, T]) body(width int) string {
	return s.render(s.ctrl.State().Data, width)
}

// sentimentChoices mirror the backend's sentiment labels.
var sentimentChoices = []choice{
	{"", "所有情緒"},
	{stockdesk.SentimentPositive, "正向"},
	{stockdesk.SentimentNegative, "負向"},
	{stockdesk.SentimentNeutral, "中性"},
}

func rangeForm(today string) *form {
	return newForm(
		textField("股票代碼", "輸入股票代碼 (如 0050)", ""),
		textField("開始日期", stockdesk.DateLayout, today),
		textField("結束日期", stockdesk.DateLayout, today),
	)
}

func rangeQuery(f *form) page.RangeQuery {
	return page.RangeQuery{StockID: f.Value(0), StartDate: f.Value(1), EndDate: f.Value(2)}
}

// newScreen builds a fresh page instance for route i. Page state does not
// survive navigation.
func newScreen(i int, instance uint64, deps page.Deps, now time.Time) screen {
	today := now.Format(stockdesk.DateLayout)
	switch Routes[i].Path {
	case "/reports":
		return &pageScreen[page.RangeQuery, *stockdesk.ReportData]{
			instance: instance,
			ctrl:     page.NewReport(deps),
			f:        rangeForm(today),
			query:    rangeQuery,
			render:   func(d *stockdesk.ReportData, _ int) string { return view.ReportPanel(d) },
		}
	case "/strategies":
		return &pageScreen[page.RangeQuery, *stockdesk.StrategyData]{
			instance: instance,
			ctrl:     page.NewStrategy(deps),
			f:        rangeForm(today),
			query:    rangeQuery,
			render:   func(d *stockdesk.StrategyData, _ int) string { return view.StrategyPanel(d) },
		}
	case "/news":
		return &pageScreen[page.NewsForm, []stockdesk.NewsItem]{
			instance: instance,
			ctrl:     page.NewNews(deps),
			f: newForm(
				textField("股票代碼", "股票代碼 (如 0050)", ""),
				textField("關鍵詞", "關鍵詞 (如 市場動態)", ""),
				textField("日期", stockdesk.DateLayout, today),
				choiceField("情緒", sentimentChoices),
				textField("標籤", "標籤 (用逗號分隔，如 市場,ETF)", ""),
			),
			query: func(f *form) page.NewsForm {
				return page.NewsForm{
					StockID:   f.Value(0),
					Query:     f.Value(1),
					Date:      f.Value(2),
					Sentiment: f.Value(3),
					Tags:      f.Value(4),
				}
			},
			render: func(items []stockdesk.NewsItem, _ int) string { return view.NewsList(items) },
		}
	default:
		return &pageScreen[page.RangeQuery, *stockdesk.StockData]{
			instance: instance,
			ctrl:     page.NewStockQuery(deps),
			f:        rangeForm(today),
			query:    rangeQuery,
			render:   renderStock,
		}
	}
}

// renderStock shows nothing until the first result arrives.
func renderStock(d *stockdesk.StockData, width int) string {
	if d == nil {
		return ""
	}
	return view.StockPanel(d) + "\n" + view.PriceChart(d, width)
}
