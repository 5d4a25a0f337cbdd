package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"stockdesk/pkg/stockdesk"
)

// fakeStore mimics the subset of the Elasticsearch API the sink uses.
type fakeStore struct {
	mu     sync.Mutex
	status int
	paths  []string
	events []Event
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	var ev Event
	json.NewDecoder(r.Body).Decode(&ev)

	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.events = append(f.events, ev)
	status := f.status
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusCreated
	}
	w.WriteHeader(status)
	w.Write([]byte(`{"result":"created"}`))
}

func (f *fakeStore) snapshot() ([]string, []Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...), append([]Event(nil), f.events...)
}

type fakeBackend struct {
	mu      sync.Mutex
	actions []string
	data    []map[string]any
	ctxErrs []error
	err     error
}

func (f *fakeBackend) LogAction(ctx context.Context, action string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	f.data = append(f.data, data)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

func newTestSink(t *testing.T, store *fakeStore, backend ActionPoster, logBuf *bytes.Buffer) *Sink {
	t.Helper()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	es, err := NewElasticsearch(srv.URL, "", "")
	if err != nil {
		t.Fatalf("NewElasticsearch: %v", err)
	}
	log := slog.New(slog.NewTextHandler(logBuf, nil))
	s := NewSink(es, "", backend, log)
	s.now = func() time.Time { return time.Date(2024, 1, 31, 8, 30, 0, 0, time.FixedZone("CST", 8*3600)) }
	return s
}

func flush(t *testing.T, s *Sink) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestRecordWritesBothDestinations(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeBackend{}
	var logBuf bytes.Buffer
	s := newTestSink(t, store, backend, &logBuf)

	s.Record(ActionPageView, map[string]any{"page": "news"})
	flush(t, s)

	paths, events := store.snapshot()
	if len(events) != 1 {
		t.Fatalf("indexed %d events, want 1", len(events))
	}
	if !strings.HasPrefix(paths[0], "PUT /user_actions/_doc/") {
		t.Errorf("index request = %q, want PUT /user_actions/_doc/{id}", paths[0])
	}
	ev := events[0]
	if ev.Action != ActionPageView || ev.Data["page"] != "news" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Timestamp != "2024-01-31T00:30:00.000Z" {
		t.Errorf("Timestamp = %q, want %q", ev.Timestamp, "2024-01-31T00:30:00.000Z")
	}

	if len(backend.actions) != 1 || backend.actions[0] != ActionPageView {
		t.Errorf("backend actions = %v", backend.actions)
	}
	if logBuf.Len() != 0 {
		t.Errorf("unexpected diagnostics: %s", logBuf.String())
	}
}

func TestRecordFailuresAreIndependentAndSwallowed(t *testing.T) {
	store := &fakeStore{status: http.StatusInternalServerError}
	backend := &fakeBackend{err: errors.New("connection refused")}
	var logBuf bytes.Buffer
	s := newTestSink(t, store, backend, &logBuf)

	s.Record(ActionSearch, map[string]any{"stock_id": "0050"})
	flush(t, s)

	if len(backend.actions) != 1 {
		t.Errorf("backend called %d times, want 1 despite index failure", len(backend.actions))
	}
	out := logBuf.String()
	if !strings.Contains(out, "indexing user action") {
		t.Errorf("missing index diagnostic in %q", out)
	}
	if !strings.Contains(out, "posting user action") {
		t.Errorf("missing backend diagnostic in %q", out)
	}
}

func TestRecordIndexesOnceOnUnavailable(t *testing.T) {
	store := &fakeStore{status: http.StatusServiceUnavailable}
	var logBuf bytes.Buffer
	s := newTestSink(t, store, nil, &logBuf)

	s.Record(ActionSearch, map[string]any{"stock_id": "0050"})
	flush(t, s)

	if paths, _ := store.snapshot(); len(paths) != 1 {
		t.Errorf("index attempts = %d, want 1", len(paths))
	}
	if !strings.Contains(logBuf.String(), "indexing user action") {
		t.Errorf("missing index diagnostic in %q", logBuf.String())
	}
}

func TestSlowStoreDoesNotDelayBackend(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	es, err := NewElasticsearch(srv.URL, "", "")
	if err != nil {
		t.Fatalf("NewElasticsearch: %v", err)
	}
	backend := &fakeBackend{}
	s := NewSink(es, "", backend, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	s.timeout = 200 * time.Millisecond

	s.Record(ActionPageView, map[string]any{"page": "news"})
	flush(t, s)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.actions) != 1 {
		t.Fatalf("backend called %d times, want 1", len(backend.actions))
	}
	if backend.ctxErrs[0] != nil {
		t.Errorf("backend context at call = %v, want live context", backend.ctxErrs[0])
	}
}

func TestRecordWithBackendClient(t *testing.T) {
	var mu sync.Mutex
	var got []string
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Action string `json:"action"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		got = append(got, r.URL.Path+" "+body.Action)
		mu.Unlock()
	}))
	defer backendSrv.Close()

	var logBuf bytes.Buffer
	s := NewSink(nil, "", stockdesk.NewClient(backendSrv.URL), slog.New(slog.NewTextHandler(&logBuf, nil)))
	s.Record(ActionSearch, map[string]any{"stock_id": "0050", "type": "report"})
	s.Record(ActionPageView, map[string]any{"page": "report"})
	flush(t, s)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("backend received %v, want 2 posts", got)
	}
	for _, g := range got {
		if !strings.HasPrefix(g, "/log-action ") {
			t.Errorf("post = %q, want /log-action", g)
		}
	}
}

func TestFlushHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	backend := blockingBackend(block)

	s := NewSink(nil, "", backend, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	s.Record(ActionPageView, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Flush = %v, want deadline exceeded", err)
	}
}

type blockingBackend chan struct{}

func (b blockingBackend) LogAction(ctx context.Context, _ string, _ map[string]any) error {
	select {
	case <-b:
	case <-ctx.Done():
	}
	return nil
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(ActionPageView, map[string]any{"page": "stock_query"})
}
