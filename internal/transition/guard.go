package transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
)

// ErrTransitionConflict is returned when the conditional write lost the race
// twice in a row. Transient; the caller may retry the full request.
var ErrTransitionConflict = errors.New("transition conflict, retry")

const (
	ReasonAlreadyInState    = "already_in_state"
	ReasonIllegalTransition = "illegal_transition"
)

type Store interface {
	GetShipment(ctx context.Context, shipmentID string) (*storage.Shipment, error)
	AppendTransition(ctx context.Context, rec storage.TransitionRecord) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, shipment *storage.Shipment, status storage.Status, actor string) error
}

// Cache receives every applied transition so dashboard reads stay current.
// Setting a terminal status evicts the shipment.
type Cache interface {
	Set(shipment storage.Shipment)
}

type Request struct {
	ShipmentID string
	Target     storage.Status
	Actor      string
	// RiderID is required only when Target is assigned.
	RiderID string
}

type Result struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// Guard is the sole entry point for changing shipment status. For any number
// of concurrent or retried calls requesting the same transition, the status
// changes exactly once and the dispatcher runs for it exactly once.
type Guard struct {
	store      Store
	dispatcher Dispatcher
	cache      Cache
	logger     *zap.Logger
	locks      *keyedMutex
}

func NewGuard(store Store, dispatcher Dispatcher, cache Cache, logger *zap.Logger) *Guard {
	return &Guard{
		store:      store,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

func (g *Guard) RequestTransition(ctx context.Context, req Request) (Result, error) {
	if !req.Target.Valid() {
		metrics.TransitionsRejectedTotal.WithLabelValues(ReasonIllegalTransition).Inc()
		return Result{Applied: false, Reason: ReasonIllegalTransition}, nil
	}

	unlock := g.locks.Lock(req.ShipmentID)
	defer unlock()

	// One extra pass: if the conditional write loses to a concurrent writer,
	// re-read and re-validate once before giving up.
	for attempt := 0; attempt < 2; attempt++ {
		shipment, err := g.store.GetShipment(ctx, req.ShipmentID)
		if err != nil {
			return Result{}, err
		}

		if shipment.Status == req.Target {
			// Duplicate trigger for a transition that already happened.
			// A no-op, not an error, and it must not re-dispatch.
			g.logger.Info("transition already applied",
				zap.String("shipment_id", req.ShipmentID),
				zap.String("status", string(req.Target)),
				zap.String("actor", req.Actor))
			metrics.TransitionsRejectedTotal.WithLabelValues(ReasonAlreadyInState).Inc()
			return Result{Applied: false, Reason: ReasonAlreadyInState}, nil
		}

		if !Allowed(shipment.Status, req.Target) {
			metrics.TransitionsRejectedTotal.WithLabelValues(ReasonIllegalTransition).Inc()
			return Result{Applied: false, Reason: ReasonIllegalTransition}, nil
		}

		rec := storage.TransitionRecord{
			ShipmentID: req.ShipmentID,
			From:       shipment.Status,
			To:         req.Target,
			Actor:      req.Actor,
			RiderID:    req.RiderID,
			ChangedAt:  time.Now().UTC(),
		}
		if err := g.store.AppendTransition(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				continue
			}
			return Result{}, fmt.Errorf("failed to append transition: %w", err)
		}

		metrics.TransitionsAppliedTotal.WithLabelValues(string(req.Target)).Inc()

		shipment.Status = req.Target
		if req.Target == storage.StatusAssigned && req.RiderID != "" {
			shipment.AssignedRiderID = req.RiderID
		}
		g.cache.Set(*shipment)

		// A notification problem must not revert the business fact that the
		// transition happened; it is logged and left to the resend path.
		if err := g.dispatcher.Dispatch(ctx, shipment, req.Target, req.Actor); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("dispatch").Inc()
			g.logger.Error("notification dispatch failed",
				zap.String("shipment_id", req.ShipmentID),
				zap.String("status", string(req.Target)),
				zap.Error(err))
		}

		return Result{Applied: true}, nil
	}

	metrics.OperationErrorsTotal.WithLabelValues("transition_conflict").Inc()
	return Result{}, ErrTransitionConflict
}

// Redispatch re-runs the dispatcher for the shipment's current status. Used by
// the operator recovery path after a crash between the status append and the
// dispatch; the ledger keeps already-sent recipients from being re-sent.
func (g *Guard) Redispatch(ctx context.Context, shipmentID string) error {
	unlock := g.locks.Lock(shipmentID)
	defer unlock()

	shipment, err := g.store.GetShipment(ctx, shipmentID)
	if err != nil {
		return err
	}

	g.logger.Info("redispatching notifications",
		zap.String("shipment_id", shipmentID),
		zap.String("status", string(shipment.Status)))

	return g.dispatcher.Dispatch(ctx, shipment, shipment.Status, "system")
}
