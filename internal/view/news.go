package view

import (
	"strings"

	"stockdesk/pkg/stockdesk"
)

// NoNews is shown for an empty search result.
const NoNews = "無新聞可顯示"

// NewsList renders search results, one card per item.
func NewsList(items []stockdesk.NewsItem) string {
	if len(items) == 0 {
		return Placeholder(NoNews)
	}
	cards := make([]string, 0, len(items))
	for _, it := range items {
		cards = append(cards, NewsItem(it))
	}
	return strings.Join(cards, "\n")
}

// NewsItem renders a single news item.
func NewsItem(it stockdesk.NewsItem) string {
	return cardStyle.Render(strings.Join([]string{
		titleStyle.Render(it.Title),
		field("日期", it.Date),
		valueStyle.Render(it.Outline),
		labelStyle.Render("情緒:") + " " + sentimentStyle(it.Sentiment).Render(it.Sentiment),
		field("標籤", stockdesk.JoinTags(it.Tags)),
	}, "\n"))
}
