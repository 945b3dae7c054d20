package notifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
)

type Ledger interface {
	TryRecordNotification(ctx context.Context, shipmentID string, status storage.Status, recipientRole string) (bool, error)
}

type Directory interface {
	ResolveRecipient(ctx context.Context, role string, shipment *storage.Shipment) (*storage.Contact, error)
}

type Sender interface {
	Send(ctx context.Context, to string, body string) error
}

// recipientRoles maps a confirmed target status to who gets told about it.
var recipientRoles = map[storage.Status][]string{
	storage.StatusAssigned:      {storage.RoleRider},
	storage.StatusPickedUp:      {storage.RoleRider, storage.RoleAdmin},
	storage.StatusDelivered:     {storage.RoleAdmin, storage.RoleCustomer},
	storage.StatusIssueReported: {storage.RoleAdmin},
	storage.StatusResolved:      {storage.RoleRider},
}

// Dispatcher performs at-most-once delivery per (shipment, transition,
// recipient). The ledger insert gates every send, so a second dispatch for the
// same transition, however it happens, skips recipients already recorded.
type Dispatcher struct {
	ledger    Ledger
	directory Directory
	sender    Sender
	logger    *zap.Logger
}

func NewDispatcher(ledger Ledger, directory Directory, sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:    ledger,
		directory: directory,
		sender:    sender,
		logger:    logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, shipment *storage.Shipment, status storage.Status, actor string) error {
	var errs []error

	for _, role := range recipientRoles[status] {
		contact, err := d.directory.ResolveRecipient(ctx, role, shipment)
		if err != nil {
			// No ledger record yet, so a redispatch will retry this recipient.
			errs = append(errs, fmt.Errorf("resolve %s: %w", role, err))
			continue
		}

		inserted, err := d.ledger.TryRecordNotification(ctx, shipment.ID, status, role)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", role, err))
			continue
		}
		if !inserted {
			metrics.NotificationsDedupedTotal.Inc()
			d.logger.Debug("notification already sent, skipping",
				zap.String("shipment_id", shipment.ID),
				zap.String("status", string(status)),
				zap.String("recipient_role", role))
			continue
		}

		body := messageFor(status, role, shipment)
		if err := d.sender.Send(ctx, contact.Phone, body); err != nil {
			// The ledger record stays: re-sending blindly could duplicate a
			// message whose send succeeded but whose response was lost. The
			// failure is surfaced for the operator resend path instead.
			metrics.OperationErrorsTotal.WithLabelValues("notification_send").Inc()
			errs = append(errs, fmt.Errorf("send to %s: %w", role, err))
			continue
		}

		metrics.NotificationsSentTotal.WithLabelValues(role).Inc()
		d.logger.Info("notification sent",
			zap.String("shipment_id", shipment.ID),
			zap.String("status", string(status)),
			zap.String("recipient_role", role),
			zap.String("actor", actor))
	}

	return errors.Join(errs...)
}

func messageFor(status storage.Status, role string, shipment *storage.Shipment) string {
	switch status {
	case storage.StatusAssigned:
		return fmt.Sprintf("New delivery assigned: shipment %s to %s", shipment.ID, shipment.Address)
	case storage.StatusPickedUp:
		if role == storage.RoleAdmin {
			return fmt.Sprintf("Order picked up by rider: shipment %s", shipment.ID)
		}
		return fmt.Sprintf("Package picked up: shipment %s", shipment.ID)
	case storage.StatusDelivered:
		if role == storage.RoleCustomer {
			return fmt.Sprintf("Your package has been delivered: shipment %s", shipment.ID)
		}
		return fmt.Sprintf("Delivery completed: shipment %s", shipment.ID)
	case storage.StatusIssueReported:
		return fmt.Sprintf("Issue reported on shipment %s", shipment.ID)
	case storage.StatusResolved:
		return fmt.Sprintf("Issue resolved on shipment %s", shipment.ID)
	}
	return fmt.Sprintf("Shipment %s is now %s", shipment.ID, status)
}
