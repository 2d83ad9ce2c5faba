// Package analytics forwards selection events to Kafka without blocking the
// caller that records them.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/kafka"
)

const defaultKey = "frecency"

// Publisher writes a batch of events. *kafka.Producer satisfies it.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// Keyed events choose their own partition key.
type Keyed interface {
	PartitionKey() string
}

type Collector struct {
	producer Publisher
	eventCh  chan any
	logger   *slog.Logger
	done     chan struct{}

	mu        sync.RWMutex
	started   bool
	closed    bool
	closeOnce sync.Once
}

func NewCollector(producer Publisher, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan any, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		done:     make(chan struct{}),
	}
}

// Start publishes tracked events until ctx is cancelled or Close is called.
// Only the first call on an open collector has an effect.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				if err := c.producer.PublishBatch(ctx, []kafka.Event{toKafka(event)}); err != nil {
					c.logger.Error("failed to publish selection event", "error", err)
				}
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track queues event for publishing. It never blocks; events are dropped when
// the buffer is full or the collector is closed.
func (c *Collector) Track(event any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Warn("selection event dropped (collector closed)")
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("selection event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for queued ones to be published.
// Without a prior Start the queue is published synchronously. Repeated calls
// are no-ops.
func (c *Collector) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.eventCh)
		started := c.started
		c.mu.Unlock()

		if !started {
			c.drainRemaining()
			close(c.done)
			return
		}
		<-c.done
	})
}

func (c *Collector) drainRemaining() {
	var batch []kafka.Event
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				c.flush(batch)
				return
			}
			batch = append(batch, toKafka(event))
		default:
			c.flush(batch)
			return
		}
	}
}

func (c *Collector) flush(batch []kafka.Event) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.producer.PublishBatch(ctx, batch); err != nil {
		c.logger.Error("failed to publish remaining events", "count", len(batch), "error", err)
	}
}

func toKafka(event any) kafka.Event {
	key := defaultKey
	if k, ok := event.(Keyed); ok && k.PartitionKey() != "" {
		key = k.PartitionKey()
	}
	return kafka.Event{Key: key, Value: event}
}
