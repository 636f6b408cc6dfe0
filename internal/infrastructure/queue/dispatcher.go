package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoice-dashboard/internal/api/metrics"
	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the invoice id, so events for one invoice are stored in order.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, service, log)
}

func newDispatcher(numWorkers, buffer int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, buffer)
	}
	return d
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// Start launches all worker goroutines. When ctx is cancelled each worker
// records what is still buffered, bounded by drainTimeout, then stops.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its invoice. It never
// blocks: when that worker's channel is full the event is dropped.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	idx := d.shardIndex(event.InvoiceID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("invoice_id", event.InvoiceID).
			Str("action", string(event.Action)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an invoice id deterministically to a worker index.
func (d *Dispatcher) shardIndex(invoiceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(invoiceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				d.drain(ctx, id, ch, event)
				return
			}
			depth.Set(float64(len(ch)))
			d.record(ctx, id, event)
		}
	}
}

// drain records taken, then whatever is left in ch, on a context detached
// from the cancelled worker context.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.AuditEvent, taken ...domain.AuditEvent) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	for _, event := range taken {
		d.record(drainCtx, id, event)
	}

	for drainCtx.Err() == nil {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.record(drainCtx, id, event)
		default:
			return
		}
	}
	if n := len(ch); n > 0 {
		metrics.AuditEventsDroppedTotal.Add(float64(n))
		d.log.Warn().Int("worker_id", id).Int("pending", n).Msg("audit drain timed out, events dropped")
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.AuditEvent) {
	if err := d.service.Record(ctx, event); err != nil {
		metrics.AuditEventsFailedTotal.Inc()
		d.log.Error().Err(err).
			Str("invoice_id", event.InvoiceID).
			Int("worker_id", id).
			Msg("audit event processing failed")
	}
}
