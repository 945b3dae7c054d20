package storage

import "time"

type Status string

const (
	StatusCreated       Status = "created"
	StatusAssigned      Status = "assigned"
	StatusPickedUp      Status = "picked_up"
	StatusDelivered     Status = "delivered"
	StatusIssueReported Status = "issue_reported"
	StatusResolved      Status = "resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusAssigned, StatusPickedUp, StatusDelivered, StatusIssueReported, StatusResolved:
		return true
	}
	return false
}

// Terminal statuses close the shipment lifecycle; shipments are never deleted,
// only terminally marked.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusResolved
}

const (
	RoleRider    = "rider"
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type Shipment struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	Address         string    `json:"address"`
	Status          Status    `json:"status"`
	AssignedRiderID string    `json:"assigned_rider_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HistoryEntry struct {
	Status    Status    `json:"status"`
	Actor     string    `json:"actor"`
	ChangedAt time.Time `json:"changed_at"`
}

type Contact struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TransitionRecord is one confirmed status change. From is the status the caller
// observed; the store applies the change only while the row still carries it.
type TransitionRecord struct {
	ShipmentID string
	From       Status
	To         Status
	Actor      string
	RiderID    string
	ChangedAt  time.Time
}

type NotificationRecord struct {
	ShipmentID    string    `json:"shipment_id"`
	Status        Status    `json:"status"`
	RecipientRole string    `json:"recipient_role"`
	SentAt        time.Time `json:"sent_at"`
}
