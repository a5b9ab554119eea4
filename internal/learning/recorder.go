package learning

import (
	"context"
	"sync"
	"time"

	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	// eventQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	eventQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are written.
	flushInterval = 50 * time.Millisecond

	// writeTimeout bounds a single history write.
	writeTimeout = 2 * time.Second
)

var log = logger.New("learning")

// Sink is where the recorder writes feedback.
type Sink interface {
	AppendFeedback(ctx context.Context, rec history.FeedbackRecord) (history.FeedbackRecord, error)
}

// Recorder records suggestion feedback in the background with non-blocking writes.
type Recorder struct {
	sink       Sink
	eventQueue chan Event
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	enabled    bool
	mu         sync.RWMutex
}

// NewRecorder starts a recorder writing to sink.
func NewRecorder(sink Sink) *Recorder {
	r := &Recorder{
		sink:       sink,
		eventQueue: make(chan Event, eventQueueSize),
		stopChan:   make(chan struct{}),
		enabled:    sink != nil,
	}

	r.wg.Add(1)
	go r.processEvents()

	return r
}

// RecordFeedback queues feedback for s. It never blocks; when the queue is
// full the event is dropped with a warning.
func (r *Recorder) RecordFeedback(query string, s suggest.Suggestion, wasSelected bool) {
	r.Record(NewEvent(query, s, wasSelected))
}

// Record queues a prepared event.
func (r *Recorder) Record(event Event) {
	if !r.IsEnabled() {
		return
	}

	select {
	case <-r.stopChan:
		log.Warn("recorder stopped, dropping feedback", "text", event.Text)
		return
	default:
	}

	select {
	case r.eventQueue <- event:
	default:
		log.Warn("feedback queue full, dropping event", "kind", event.Kind, "text", event.Text)
	}
}

// Stop drains the queue, flushes pending events and stops the background
// goroutine. It is safe to call more than once.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

// Disable makes the recorder ignore new events.
func (r *Recorder) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
}

// Enable resumes recording.
func (r *Recorder) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = r.sink != nil
}

// IsEnabled returns whether recording is enabled.
func (r *Recorder) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Pending returns the number of queued events not yet written.
func (r *Recorder) Pending() int {
	return len(r.eventQueue)
}

func (r *Recorder) processEvents() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)

	for {
		select {
		case event := <-r.eventQueue:
			batch = append(batch, event)
			if len(batch) >= batchFlushSize {
				r.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}

		case <-r.stopChan:
			for {
				select {
				case event := <-r.eventQueue:
					batch = append(batch, event)
					if len(batch) >= batchFlushSize {
						r.flush(batch)
						batch = batch[:0]
					}
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch. Failed writes are logged and dropped.
func (r *Recorder) flush(events []Event) {
	for _, event := range events {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if _, err := r.sink.AppendFeedback(ctx, event.ToRecord()); err != nil {
			log.Warn("failed to record feedback", "kind", event.Kind, "text", event.Text, "err", err)
		}
		cancel()
	}
}
