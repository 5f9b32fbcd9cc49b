package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierhq/backoffice/internal/api/metrics"
	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256

	insertTimeout = 5 * time.Second
)

// AuditWriter persists audit entries asynchronously through a fixed set of
// workers. Entries are sharded by entity ID with consistent hashing, so the
// history of a single record is always written in the order it was produced.
type AuditWriter struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditWriter creates an AuditWriter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditWriter(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &AuditWriter{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *AuditWriter) Start(ctx context.Context) {
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Record queues an entry for persistence. When the shard buffer is full the
// entry is dropped and logged rather than stalling the request path.
func (w *AuditWriter) Record(entry domain.AuditEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	idx := w.shardIndex(entry.EntityID)
	select {
	case w.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(w.workers[idx])))
	default:
		metrics.AuditWriteErrorsTotal.Inc()
		w.log.Warn().
			Str("entity", entry.Entity).
			Str("entity_id", entry.EntityID).
			Int("worker_id", idx).
			Msg("audit queue full, entry dropped")
	}
}

// shardIndex maps an entity ID deterministically to a worker index.
func (w *AuditWriter) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32()) % len(w.workers)
}

func (w *AuditWriter) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			err := w.repo.Insert(insertCtx, &entry)
			cancel()
			if err != nil {
				metrics.AuditWriteErrorsTotal.Inc()
				w.log.Error().Err(err).
					Str("entity", entry.Entity).
					Str("entity_id", entry.EntityID).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
