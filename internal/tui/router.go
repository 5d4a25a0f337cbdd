package tui

// Route is one top-level page of the shell.
type Route struct {
	Path  string
	Title string
	Key   string // jump key
}

// Routes lists the pages in navigation order.
var Routes = []Route{
	{Path: "/", Title: "股價查詢", Key: "f1"},
	{Path: "/reports", Title: "報告", Key: "f2"},
	{Path: "/strategies", Title: "策略", Key: "f3"},
	{Path: "/news", Title: "新聞", Key: "f4"},
}

// Lookup returns the index of the route for path. Unknown paths resolve to
// the stock query page.
func Lookup(path string) int {
	for i, r := range Routes {
		if r.Path == path {
			return i
		}
	}
	return 0
}

// routeForKey returns the route bound to a jump key, or -1.
func routeForKey(key string) int {
	for i, r := range Routes {
		if r.Key == key {
			return i
		}
	}
	return -1
}
