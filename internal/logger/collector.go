// ABOUTME: Forwards warning and error records to an external monitoring collector
// ABOUTME: Records are queued and posted as JSON by one background sender

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	collectorQueueSize    = 256
	collectorDrainTimeout = 2 * time.Second
	collectorAttempts     = 3
	collectorRetryDelay   = 100 * time.Millisecond
)

// Event is the JSON document posted to the collector
type Event struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Service string         `json:"service,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Collector posts events to a monitoring endpoint without blocking the caller.
// A full queue drops the event; a failed post is retried a few times.
type Collector struct {
	url     string
	service string
	client  *http.Client
	queue   chan []byte
	done    chan struct{}

	mu     sync.RWMutex
	closed bool

	sent    atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewCollector starts the sender. If client is nil, a client with a 5s timeout is used.
func NewCollector(url, service string, client *http.Client) *Collector {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	c := &Collector{
		url:     url,
		service: service,
		client:  client,
		queue:   make(chan []byte, collectorQueueSize),
		done:    make(chan struct{}),
	}
	go c.run()
	return c
}

// Handler returns an slog.Handler that enqueues records at or above level
func (c *Collector) Handler(level slog.Leveler) slog.Handler {
	return &collectorHandler{collector: c, level: level}
}

// Stats returns how many events were delivered, dropped and failed
func (c *Collector) Stats() (sent, dropped, failed int64) {
	return c.sent.Load(), c.dropped.Load(), c.failed.Load()
}

// Close stops accepting events and waits for the queue to drain or ctx to end
func (c *Collector) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Collector) enqueue(payload []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.dropped.Add(1)
		return
	}
	select {
	case c.queue <- payload:
	default:
		c.dropped.Add(1)
	}
}

func (c *Collector) run() {
	defer close(c.done)
	for payload := range c.queue {
		err := retry.Do(
			func() error { return c.post(payload) },
			retry.Attempts(collectorAttempts),
			retry.Delay(collectorRetryDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			c.failed.Add(1)
			continue
		}
		c.sent.Add(1)
	}
}

func (c *Collector) post(payload []byte) error {
	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %s", resp.Status)
	}
	return nil
}

type collectorHandler struct {
	collector *Collector
	level     slog.Leveler
	attrs     []slog.Attr
	prefix    string
}

func (h *collectorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *collectorHandler) Handle(_ context.Context, r slog.Record) error {
	ev := Event{
		Time:    r.Time.UTC().Format(time.RFC3339Nano),
		Level:   r.Level.String(),
		Message: r.Message,
		Service: h.collector.service,
		Fields:  make(map[string]any),
	}
	for _, a := range h.attrs {
		addField(ev.Fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addField(ev.Fields, h.prefix, a)
		return true
	})
	if len(ev.Fields) == 0 {
		ev.Fields = nil
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.collector.enqueue(payload)
	return nil
}

func (h *collectorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *collectorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func addField(fields map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			addField(fields, prefix+a.Key+".", ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	switch val := v.Any().(type) {
	case error:
		fields[prefix+a.Key] = val.Error()
	default:
		fields[prefix+a.Key] = val
	}
}
