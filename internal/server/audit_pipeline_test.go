package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

type capturingSink struct {
	mu      sync.Mutex
	batches [][]json.RawMessage
}

func (s *capturingSink) SaveAuditBatch(_ context.Context, payloads []json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, payloads)
	return nil
}

func (s *capturingSink) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func (s *capturingSink) entryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, batch := range s.batches {
		total += len(batch)
	}
	return total
}

func auditEntry(handler string) repository.AuditLogPayload {
	return repository.AuditLogPayload{
		Handler:   handler,
		Method:    "POST",
		Path:      "/shipments",
		Timestamp: time.Now(),
	}
}

func TestAuditPipeline_SizeFlush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &capturingSink{}
	pipeline := NewAuditPipeline(1, 2, time.Minute, sink, zap.NewNop())
	pipeline.Start(ctx)
	defer pipeline.Shutdown(context.Background())

	pipeline.LogEntry(ctx, auditEntry("handleCreateShipment"))
	pipeline.LogEntry(ctx, auditEntry("handleTransition"))

	require.Eventually(t, func() bool {
		return sink.entryCount() == 2
	}, time.Second, 10*time.Millisecond, "a full batch flushes without waiting for the timeout")
}

func TestAuditPipeline_SizeFlushResetsTimer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &capturingSink{}
	pipeline := NewAuditPipeline(1, 2, 60*time.Millisecond, sink, zap.NewNop())
	pipeline.Start(ctx)
	defer pipeline.Shutdown(context.Background())

	pipeline.LogEntry(ctx, auditEntry("handleCreateShipment"))
	pipeline.LogEntry(ctx, auditEntry("handleTransition"))

	require.Eventually(t, func() bool {
		return sink.batchCount() == 1
	}, time.Second, 10*time.Millisecond)

	// Wait past the original timer deadline. A timer left running from the
	// size-triggered flush would fire here and push a stray empty batch.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, sink.batchCount())

	// A fresh timer still covers the next partial batch.
	pipeline.LogEntry(ctx, auditEntry("handleRedispatch"))
	require.Eventually(t, func() bool {
		return sink.batchCount() == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, sink.entryCount())
}

func TestAuditPipeline_TimeoutFlush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &capturingSink{}
	pipeline := NewAuditPipeline(1, 10, 50*time.Millisecond, sink, zap.NewNop())
	pipeline.Start(ctx)
	defer pipeline.Shutdown(context.Background())

	pipeline.LogEntry(ctx, auditEntry("handleGetShipment"))

	require.Eventually(t, func() bool {
		return sink.entryCount() == 1
	}, time.Second, 10*time.Millisecond, "a partial batch flushes on timeout")
}

func TestAuditPipeline_ShutdownFlushesPartialBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &capturingSink{}
	pipeline := NewAuditPipeline(1, 10, time.Minute, sink, zap.NewNop())
	pipeline.Start(ctx)

	pipeline.LogEntry(ctx, auditEntry("handleCreateShipment"))
	pipeline.LogEntry(ctx, auditEntry("handleTransition"))

	// Give the aggregator a moment to pull both entries off the queue.
	require.Eventually(t, func() bool {
		return len(pipeline.inputChan) == 0
	}, time.Second, 5*time.Millisecond)

	pipeline.Shutdown(context.Background())

	assert.Equal(t, 2, sink.entryCount())
}
