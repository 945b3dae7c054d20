package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

type AuditSink interface {
	SaveAuditBatch(ctx context.Context, payloads []json.RawMessage) error
}

// AuditPipeline batches HTTP audit entries and hands them to the sink, which
// persists them as outbox tasks. A full queue drops the entry with a warning
// so the request path never blocks on auditing.
type AuditPipeline struct {
	workerCount int
	batchSize   int
	timeout     time.Duration

	sink   AuditSink
	logger *zap.Logger

	inputChan  chan repository.AuditLogPayload
	batchChan  chan []repository.AuditLogPayload
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewAuditPipeline(workerCount, batchSize int, timeout time.Duration, sink AuditSink, logger *zap.Logger) *AuditPipeline {
	return &AuditPipeline{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		sink:        sink,
		logger:      logger,
		inputChan:   make(chan repository.AuditLogPayload, workerCount*batchSize*2),
		batchChan:   make(chan []repository.AuditLogPayload, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (p *AuditPipeline) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.runAggregator(ctx)

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
}

func (p *AuditPipeline) Shutdown(ctx context.Context) {
	p.once.Do(func() {
		close(p.shutdownCh)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			p.logger.Info("audit pipeline shutdown completed")
		case <-ctx.Done():
			p.logger.Warn("audit pipeline shutdown interrupted")
		}
	})
}

func (p *AuditPipeline) LogEntry(ctx context.Context, entry repository.AuditLogPayload) {
	select {
	case p.inputChan <- entry:
	default:
		p.logger.Warn("audit queue full, dropping entry",
			zap.String("handler", entry.Handler),
			zap.String("path", entry.Path))
	}
}

func (p *AuditPipeline) runAggregator(ctx context.Context) {
	defer p.wg.Done()

	var (
		batch    []repository.AuditLogPayload
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if len(batch) > 0 {
			p.dispatchBatch(batch)
		}
		close(p.batchChan)
	}()

	for {
		select {
		case entry := <-p.inputChan:
			batch = append(batch, entry)
			if len(batch) >= p.batchSize {
				p.dispatchBatch(batch)
				batch = nil
				if timer != nil {
					timer.Stop()
					timer = nil
				}
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(p.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			p.dispatchBatch(batch)
			batch = nil
			timer = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-p.shutdownCh:
			return
		}
	}
}

func (p *AuditPipeline) dispatchBatch(batch []repository.AuditLogPayload) {
	batchCopy := make([]repository.AuditLogPayload, len(batch))
	copy(batchCopy, batch)

	select {
	case p.batchChan <- batchCopy:
	default:
		p.persistBatch(batchCopy)
	}
}

func (p *AuditPipeline) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case batch, ok := <-p.batchChan:
			if !ok {
				return
			}
			p.persistBatch(batch)
		case <-ctx.Done():
			// Drain what is already queued before exiting.
			for {
				select {
				case batch, ok := <-p.batchChan:
					if !ok {
						return
					}
					p.persistBatch(batch)
				default:
					return
				}
			}
		}
	}
}

func (p *AuditPipeline) persistBatch(batch []repository.AuditLogPayload) {
	payloads := make([]json.RawMessage, 0, len(batch))
	for _, entry := range batch {
		raw, err := json.Marshal(entry)
		if err != nil {
			p.logger.Error("failed to marshal audit entry", zap.Error(err))
			continue
		}
		payloads = append(payloads, raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.sink.SaveAuditBatch(ctx, payloads); err != nil {
		p.logger.Error("failed to persist audit batch",
			zap.Int("entries", len(payloads)),
			zap.Error(err))
	}
}
