package postgresql

import (
	"context"
	"fmt"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

// LedgerRepo backs the delivery-idempotency ledger. Deduplication relies on
// the unique index over (shipment_id, status, recipient_role); concurrent
// writers cannot race past ON CONFLICT DO NOTHING.
type LedgerRepo struct {
	db db.DB
}

func NewLedgerRepo(db db.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// TryRecord inserts the ledger entry if absent. It reports true only for the
// caller that actually created the row; everyone else must skip sending.
func (r *LedgerRepo) TryRecord(ctx context.Context, shipmentID, status, recipientRole string, sentAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        INSERT INTO notification_ledger (shipment_id, status, recipient_role, sent_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (shipment_id, status, recipient_role) DO NOTHING
    `, shipmentID, status, recipientRole, sentAt)
	if err != nil {
		return false, fmt.Errorf("failed to record notification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LedgerRepo) GetByShipmentID(ctx context.Context, shipmentID string) ([]*repository.NotificationRecord, error) {
	var records []*repository.NotificationRecord
	err := r.db.Select(ctx, &records, `
        SELECT * FROM notification_ledger
        WHERE shipment_id = $1
        ORDER BY sent_at ASC
    `, shipmentID)
	return records, err
}
