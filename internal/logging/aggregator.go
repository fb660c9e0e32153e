package logging

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

type eventKey struct {
	component string
	event     string
}

type eventCount struct {
	n      int64
	fields []slog.Attr // from the most recent Record call
}

// Aggregator batches repetitive events (one per skipped file during a scan,
// for example) and logs one summary per event per interval.
type Aggregator struct {
	logger   *slog.Logger
	interval time.Duration

	mu     sync.Mutex
	counts map[eventKey]*eventCount

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewAggregator creates an aggregator flushing every intervalSecs seconds.
// A nil logger drops everything.
func NewAggregator(logger *slog.Logger, intervalSecs int) *Aggregator {
	if intervalSecs <= 0 {
		intervalSecs = 30
	}
	return &Aggregator{
		logger:   logger,
		interval: time.Duration(intervalSecs) * time.Second,
		counts:   make(map[eventKey]*eventCount),
		done:     make(chan struct{}),
	}
}

// Start launches the periodic flush goroutine.
func (a *Aggregator) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.flush()
			case <-a.done:
				return
			}
		}
	}()
}

// Stop ends the flush goroutine and writes whatever is still pending.
func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
	a.wg.Wait()
	a.flush()
}

// Record bumps the counter for component/event.
func (a *Aggregator) Record(component, event string, fields ...slog.Attr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	k := eventKey{component: component, event: event}
	c, ok := a.counts[k]
	if !ok {
		c = &eventCount{}
		a.counts[k] = c
	}
	c.n++
	if len(fields) > 0 {
		c.fields = fields
	}
}

func (a *Aggregator) flush() {
	a.mu.Lock()
	if len(a.counts) == 0 {
		a.mu.Unlock()
		return
	}
	pending := a.counts
	a.counts = make(map[eventKey]*eventCount)
	a.mu.Unlock()

	if a.logger == nil {
		return
	}

	keys := make([]eventKey, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].component != keys[j].component {
			return keys[i].component < keys[j].component
		}
		return keys[i].event < keys[j].event
	})

	for _, k := range keys {
		c := pending[k]
		args := []any{
			slog.String("component", k.component),
			slog.String("event", k.event),
			slog.Int64("count", c.n),
			slog.Int("window_seconds", int(a.interval.Seconds())),
		}
		for _, f := range c.fields {
			args = append(args, f)
		}
		a.logger.Info("event_summary", args...)
	}
}
