// ABOUTME: Exchange rate cache that polls the BCV rate and converts EUR prices to bolívares
// ABOUTME: A failed poll keeps the previous rate so prices stay visible

package currency

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/delcarajo/storefront/internal/models"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is how often the rate is polled
const DefaultInterval = time.Hour

// LoadingText is shown in place of a price until a rate is known
const LoadingText = "Cargando..."

// FetchErrorText is the user-facing message of a failed poll
const FetchErrorText = "No se pudo obtener la tasa"

var errAlreadyStarted = errors.New("currency cache already started")

// RateSource fetches the current exchange rate
type RateSource interface {
	Rate(ctx context.Context) (*models.BcvRate, error)
}

// Snapshot is the cached rate state
type Snapshot struct {
	Rate       float64   `json:"rate,omitempty"`
	HasRate    bool      `json:"hasRate"`
	LastUpdate string    `json:"lastUpdate,omitempty"`
	Source     string    `json:"source,omitempty"`
	FetchedAt  time.Time `json:"fetchedAt,omitzero"`
	Error      string    `json:"error,omitempty"`
	IsLoading  bool      `json:"isLoading"`
}

// Conversion is a price expressed in bolívares
type Conversion struct {
	AmountInLocal float64 `json:"amountInLocal"`
	Rate          float64 `json:"rate"`
	Formatted     string  `json:"formatted"`
}

// Options configures a Cache
type Options struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Cache holds the latest exchange rate. Reads never block on the network.
type Cache struct {
	source   RateSource
	interval time.Duration
	logger   *slog.Logger
	group    singleflight.Group

	mu       sync.RWMutex
	snap     Snapshot
	onChange []func(Snapshot)

	lifecycle sync.Mutex
	scheduler *cron.Cron
	cancel    context.CancelFunc
	initial   sync.WaitGroup
}

// New creates a cache that has not fetched yet
func New(source RateSource, opts Options) *Cache {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		source:   source,
		interval: interval,
		logger:   logger.With("component", "currency"),
		snap:     Snapshot{IsLoading: true},
	}
}

// OnChange registers fn to receive every new snapshot. Register before Start.
func (c *Cache) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

// Start fetches the rate immediately in the background and then on every
// interval until Stop is called or ctx ends.
func (c *Cache) Start(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.scheduler != nil {
		return errAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.scheduler = cron.New()
	c.scheduler.Schedule(cron.Every(c.interval), cron.FuncJob(func() {
		c.Refresh(ctx)
	}))
	c.scheduler.Start()

	c.initial.Add(1)
	go func() {
		defer c.initial.Done()
		c.Refresh(ctx)
	}()
	return nil
}

// Stop cancels polling and waits for the initial fetch and any running
// scheduled poll to finish. No listener fires after Stop returns.
func (c *Cache) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.scheduler == nil {
		return
	}
	c.cancel()
	<-c.scheduler.Stop().Done()
	c.initial.Wait()
	c.scheduler = nil
}

// Refresh fetches the rate now. Concurrent calls share one request.
func (c *Cache) Refresh(ctx context.Context) (Snapshot, error) {
	_, err, _ := c.group.Do("rate", func() (any, error) {
		return nil, c.fetch(ctx)
	})
	return c.Snapshot(), err
}

func (c *Cache) fetch(ctx context.Context) error {
	rate, err := c.source.Rate(ctx)
	if err == nil && rate.Rate <= 0 {
		err = errors.New("backend returned a non-positive rate")
	}

	c.mu.Lock()
	if err != nil {
		c.snap.Error = FetchErrorText
	} else {
		c.snap.Rate = rate.Rate
		c.snap.HasRate = true
		c.snap.LastUpdate = rate.LastUpdate
		c.snap.Source = rate.Source
		c.snap.FetchedAt = time.Now()
		c.snap.Error = ""
	}
	c.snap.IsLoading = false
	snap := c.snap
	listeners := append([]func(Snapshot){}, c.onChange...)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("error fetching BCV rate", "error", err, "kept_rate", snap.HasRate)
	} else {
		c.logger.Debug("BCV rate updated", "rate", snap.Rate, "last_update", snap.LastUpdate)
	}

	for _, fn := range listeners {
		fn(snap)
	}
	return err
}

// Snapshot returns the current rate state
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Convert expresses amount (EUR) in bolívares. It returns nil until a rate
// has been fetched.
func (c *Cache) Convert(amount float64) *Conversion {
	snap := c.Snapshot()
	if !snap.HasRate {
		return nil
	}
	local := amount * snap.Rate
	return &Conversion{
		AmountInLocal: local,
		Rate:          snap.Rate,
		Formatted:     Format(local),
	}
}

// Display renders amount as a bolívar price, or the loading text
func (c *Cache) Display(amount float64) string {
	conv := c.Convert(amount)
	if conv == nil {
		return LoadingText
	}
	return "Bs. " + conv.Formatted
}
