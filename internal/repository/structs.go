package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound = errors.New("not found")

	// ErrStatusConflict means the conditional status update matched no row
	// because a concurrent writer already advanced the shipment.
	ErrStatusConflict = errors.New("status conflict")
)

type Shipment struct {
	ID              string    `db:"id"`
	CustomerName    string    `db:"customer_name"`
	CustomerPhone   string    `db:"customer_phone"`
	Address         string    `db:"address"`
	Status          string    `db:"status"`
	AssignedRiderID *string   `db:"assigned_rider_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type HistoryEntry struct {
	ID         int64     `db:"id"`
	ShipmentID string    `db:"shipment_id"`
	Status     string    `db:"status"`
	Actor      string    `db:"actor"`
	ChangedAt  time.Time `db:"changed_at"`
}

// NotificationRecord is a delivery-idempotency ledger entry. At most one row
// per (shipment_id, status, recipient_role), enforced by a unique index.
// Rows are never updated or deleted.
type NotificationRecord struct {
	ID            int64     `db:"id"`
	ShipmentID    string    `db:"shipment_id"`
	Status        string    `db:"status"`
	RecipientRole string    `db:"recipient_role"`
	SentAt        time.Time `db:"sent_at"`
}

type Contact struct {
	ID    string `db:"id"`
	Role  string `db:"role"`
	Name  string `db:"name"`
	Phone string `db:"phone"`
}
