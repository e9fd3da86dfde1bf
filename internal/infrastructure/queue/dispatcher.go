// Package queue delivers audit records to storage off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/ports"
	"github.com/ctvnews/newsroom/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit records to a fixed set of workers using consistent
// hashing on the resource, so records of one resource are stored in order.
// It implements ports.AuditRecorder.
type Dispatcher struct {
	workers []chan domain.MutationRecord
	sink    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.MutationRecord, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.MutationRecord, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queues and stop once ctx is
// cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record counts the outcome and queues it for storage. It never blocks: when
// the worker queue is full the record is logged and dropped.
func (d *Dispatcher) Record(_ context.Context, rec domain.MutationRecord) {
	metrics.MutationsTotal.WithLabelValues(rec.Action, string(rec.State)).Inc()

	idx := d.shardIndex(rec.Resource)
	select {
	case d.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("action", rec.Action).
			Str("resource", rec.Resource).
			Str("state", string(rec.State)).
			Msg("audit queue full, record dropped")
	}
}

// shardIndex maps a resource deterministically to a worker index.
func (d *Dispatcher) shardIndex(resource string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resource))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.MutationRecord) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case rec := <-ch:
			d.store(context.WithoutCancel(ctx), id, rec)
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}

// drain stores whatever is still queued after shutdown was requested.
func (d *Dispatcher) drain(id int, ch <-chan domain.MutationRecord) {
	for {
		select {
		case rec := <-ch:
			d.store(context.Background(), id, rec)
		default:
			return
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, id int, rec domain.MutationRecord) {
	start := time.Now()
	err := d.sink.Insert(ctx, rec)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("action", rec.Action).
			Str("resource", rec.Resource).
			Int("worker_id", id).
			Msg("audit record not stored")
	}
	metrics.AuditWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

// LogSink is an AuditRepository that writes records to the log. It stands in
// when no audit database is configured.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Insert(_ context.Context, rec domain.MutationRecord) error {
	ev := s.Log.Info().
		Str("action", rec.Action).
		Str("resource", rec.Resource).
		Str("state", string(rec.State)).
		Time("occurred_at", rec.OccurredAt)
	if rec.ActorID != nil {
		ev = ev.Int64("actor_id", *rec.ActorID)
	}
	if rec.Reason != "" {
		ev = ev.Str("reason", rec.Reason)
	}
	ev.Msg("mutation")
	return nil
}
