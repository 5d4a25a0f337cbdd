package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stockdesk/internal/page"
	"stockdesk/internal/view"
)

// chartWidth is the plot width of one-shot output.
const chartWidth = 80

type rangeRunner func(ctx context.Context, a *app, q page.RangeQuery, w io.Writer) error

func newRangeCmd(o *options, name, short string, run rangeRunner) *cobra.Command {
	var q page.RangeQuery
	cmd := &cobra.Command{
		Use:   name + " STOCK_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(false)
			if err != nil {
				return err
			}
			defer a.close()

			q.StockID = args[0]
			return run(cmd.Context(), a, q, o.stdout)
		},
	}
	cmd.Flags().StringVar(&q.StartDate, "start", "", "start date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&q.EndDate, "end", "", "end date (yyyy-MM-dd)")
	return cmd
}

func newNewsCmd(o *options) *cobra.Command {
	var f page.NewsForm
	cmd := &cobra.Command{
		Use:   "news STOCK_ID QUERY",
		Short: "Search news articles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(false)
			if err != nil {
				return err
			}
			defer a.close()

			f.StockID, f.Query = args[0], args[1]
			ctrl := page.NewNews(a.deps)
			ctrl.Mount()
			if err := outcome(ctrl.Run(cmd.Context(), f), ctrl.State().Err); err != nil {
				return err
			}
			fmt.Fprintln(o.stdout, view.NewsList(ctrl.State().Data))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Date, "date", "", "publication date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&f.Sentiment, "sentiment", "", "positive, negative or neutral")
	cmd.Flags().StringVar(&f.Tags, "tags", "", "comma separated tags")
	return cmd
}

func runStock(ctx context.Context, a *app, q page.RangeQuery, w io.Writer) error {
	ctrl := page.NewStockQuery(a.deps)
	ctrl.Mount()
	if err := outcome(ctrl.Run(ctx, q), ctrl.State().Err); err != nil {
		return err
	}
	d := ctrl.State().Data
	fmt.Fprintln(w, view.StockPanel(d))
	fmt.Fprintln(w, view.PriceChart(d, chartWidth))
	return nil
}

func runReport(ctx context.Context, a *app, q page.RangeQuery, w io.Writer) error {
	ctrl := page.NewReport(a.deps)
	ctrl.Mount()
	if err := outcome(ctrl.Run(ctx, q), ctrl.State().Err); err != nil {
		return err
	}
	fmt.Fprintln(w, view.ReportPanel(ctrl.State().Data))
	return nil
}

func runStrategy(ctx context.Context, a *app, q page.RangeQuery, w io.Writer) error {
	ctrl := page.NewStrategy(a.deps)
	ctrl.Mount()
	if err := outcome(ctrl.Run(ctx, q), ctrl.State().Err); err != nil {
		return err
	}
	fmt.Fprintln(w, view.StrategyPanel(ctrl.State().Data))
	return nil
}

// outcome maps a page run error to what the user sees: validation problems
// verbatim, fetch failures as the page's localized message.
func outcome(err error, message string) error {
	if err == nil {
		return nil
	}
	var verr *page.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return errors.New(message)
}
