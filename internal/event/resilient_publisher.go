package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/ItemVault_Go/internal/logger"
)

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps an event Bus with a bounded retry queue and a
// dead-letter file for events that never get through.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker.
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes an event, queuing it for background retries when
// the first attempt fails. It never blocks on the retry path.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := rp.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	log.Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	select {
	case rp.retryQueue <- retryEntry{event: event, attempts: 1, lastErr: err}:
	default:
		log.Error(LogMsgRetryQueueFull, "event_type", event.Type)
		if dlErr := rp.deadLetter.Write(event, 1, err); dlErr != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
		}
	}
}

// Publish satisfies Bus so the publisher can stand in for the bus it wraps.
func (rp *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	rp.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		// Shutdown wins over queued work; drain gives the rest one attempt.
		select {
		case <-rp.shutdown:
			rp.drain()
			return
		default:
		}

		select {
		case entry := <-rp.retryQueue:
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// retry keeps attempting one event with exponential backoff until it lands,
// exhausts its attempts, or the publisher shuts down.
func (rp *ResilientPublisher) retry(entry retryEntry) {
	log := logger.FromContext(context.Background())
	for entry.attempts <= rp.maxRetries {
		select {
		case <-time.After(backoff(rp.retryDelay, entry.attempts)):
		case <-rp.shutdown:
			rp.deadLetterEntry(entry)
			return
		}

		err := rp.bus.Publish(context.Background(), entry.event)
		entry.attempts++
		if err == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempts", entry.attempts)
			return
		}
		entry.lastErr = err
		log.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempts)
	rp.deadLetterEntry(entry)
}

// drain makes one last attempt at every queued event during shutdown.
func (rp *ResilientPublisher) drain() {
	log := logger.FromContext(context.Background())
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			drained++
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				entry.attempts++
				entry.lastErr = err
				log.Warn(LogMsgEventDroppedShutdown, "event_type", entry.event.Type)
				rp.deadLetterEntry(entry)
			}
		default:
			if drained > 0 {
				log.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) deadLetterEntry(entry retryEntry) {
	if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		logger.FromContext(context.Background()).Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the retry worker, draining the queue, and closes the
// dead-letter file. It returns ctx.Err() when the worker does not finish in
// time.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.closeOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Error(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

// backoff doubles base for every attempt already made: base, 2*base, 4*base...
func backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		return base
	}
	return base << (attempts - 1)
}
