// Command stockdesk is the terminal client of the stock information backend.
//
// Usage:
//
//	stockdesk                      # interactive UI
//	stockdesk tui --page /news
//	stockdesk stock 0050 --start 2024-01-01 --end 2024-01-31
//	stockdesk news 0050 市場動態 --sentiment positive --tags 市場,ETF
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
