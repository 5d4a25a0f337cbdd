// Package analytics records user actions to an Elasticsearch index and to the
// backend logging endpoint. Recording is fire-and-forget: failures only reach
// the diagnostic logger.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

// Action names emitted by the pages.
const (
	ActionPageView = "page_view"
	ActionSearch   = "search"
)

// DefaultIndex is the event store index for user actions.
const DefaultIndex = "user_actions"

// timestampLayout matches the millisecond UTC form the event store expects.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Recorder accepts user actions.
type Recorder interface {
	Record(action string, data map[string]any)
}

// Nop discards every action.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(string, map[string]any) {}

// ActionPoster sends a user action to the backend. *stockdesk.Client
// implements it.
type ActionPoster interface {
	LogAction(ctx context.Context, action string, data map[string]any) error
}

// Event is the document written to the index.
type Event struct {
	Action    string         `json:"action"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

// Sink writes each recorded action to both destinations independently, on
// its own goroutine. Either destination may be nil.
type Sink struct {
	es      *elasticsearch.Client
	index   string
	backend ActionPoster
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

// NewSink creates a sink. An empty index selects DefaultIndex.
func NewSink(es *elasticsearch.Client, index string, backend ActionPoster, log *slog.Logger) *Sink {
	if index == "" {
		index = DefaultIndex
	}
	return &Sink{
		es:      es,
		index:   index,
		backend: backend,
		log:     log,
		timeout: 10 * time.Second,
		now:     time.Now,
	}
}

// NewElasticsearch creates an event store client for addr. Credentials are
// optional. Each event gets a single attempt.
func NewElasticsearch(addr, username, password string) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{addr},
		Username:     username,
		Password:     password,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}
	return es, nil
}

// Record implements Recorder. It returns immediately.
func (s *Sink) Record(action string, data map[string]any) {
	ev := Event{
		Action:    action,
		Data:      data,
		Timestamp: s.now().UTC().Format(timestampLayout),
	}

	if s.es != nil {
		s.deliver(func(ctx context.Context) error { return s.indexEvent(ctx, ev) },
			"indexing user action", "action", action, "index", s.index)
	}
	if s.backend != nil {
		s.deliver(func(ctx context.Context) error { return s.backend.LogAction(ctx, action, data) },
			"posting user action", "action", action)
	}
}

// deliver runs send on its own goroutine under its own deadline.
func (s *Sink) deliver(send func(context.Context) error, msg string, attrs ...any) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := send(ctx); err != nil {
			s.log.Warn(msg, append(attrs, "error", err)...)
		}
	}()
}

// Flush waits until every recorded action has been delivered or dropped, or
// until ctx is done.
func (s *Sink) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sink) indexEvent(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	res, err := s.es.Index(s.index, bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(uuid.NewString()),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index response: %s", res.Status())
	}
	return nil
}
