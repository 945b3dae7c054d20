package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

type ShipmentRepo struct {
	db db.DB
}

func NewShipmentRepo(db db.DB) *ShipmentRepo {
	return &ShipmentRepo{db: db}
}

// CreateTx runs inside the shipment-creation transaction so the row, its first
// history entry, and its outbox event commit together.
func (r *ShipmentRepo) CreateTx(ctx context.Context, tx db.Tx, shipment *repository.Shipment) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO shipments (
            id, customer_name, customer_phone, address, status, assigned_rider_id, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, shipment.ID, shipment.CustomerName, shipment.CustomerPhone, shipment.Address, shipment.Status, shipment.AssignedRiderID, shipment.CreatedAt, shipment.UpdatedAt)
	return err
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*repository.Shipment, error) {
	var shipment repository.Shipment
	err := r.db.Get(ctx, &shipment, "SELECT * FROM shipments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// UpdateStatusTx is the conditional write behind the transition guard: the row
// is touched only while its status still equals expected. Zero rows affected
// means a concurrent writer won the race.
func (r *ShipmentRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, id string, expected, target string, riderID string, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
        UPDATE shipments
        SET
            status = $1,
            assigned_rider_id = COALESCE(NULLIF($2, ''), assigned_rider_id),
            updated_at = $3
        WHERE id = $4 AND status = $5
    `, target, riderID, updatedAt, id, expected)
	if err != nil {
		return fmt.Errorf("failed to update shipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}

func (r *ShipmentRepo) GetByRiderID(ctx context.Context, riderID string, activeOnly bool) ([]*repository.Shipment, error) {
	query := "SELECT * FROM shipments WHERE assigned_rider_id = $1"
	if activeOnly {
		query += " AND status NOT IN ('delivered', 'resolved')"
	}
	query += " ORDER BY created_at DESC"

	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments, query, riderID)
	return shipments, err
}

func (r *ShipmentRepo) GetAllActive(ctx context.Context) ([]*repository.Shipment, error) {
	query := `
        SELECT * FROM shipments
        WHERE status NOT IN ('delivered', 'resolved')
        ORDER BY created_at ASC
    `
	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active shipments: %w", err)
	}
	return shipments, nil
}
