package postgresql

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

type HistoryRepo struct {
	db db.DB
}

func NewHistoryRepo(db db.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO shipment_history (
            shipment_id, status, actor, changed_at
        ) VALUES ($1, $2, $3, $4)
    `, entry.ShipmentID, entry.Status, entry.Actor, entry.ChangedAt)
	return err
}

func (r *HistoryRepo) GetByShipmentID(ctx context.Context, shipmentID string) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM shipment_history
        WHERE shipment_id = $1
        ORDER BY changed_at ASC
    `, shipmentID)
	return entries, err
}
