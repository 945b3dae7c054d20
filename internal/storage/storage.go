package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

const (
	TopicStatusEvents = "shipment_status_events"
	TopicAuditLogs    = "shipment_audit_logs"
)

type ShipmentRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, shipment *repository.Shipment) error
	GetByID(ctx context.Context, id string) (*repository.Shipment, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, id string, expected, target string, riderID string, updatedAt time.Time) error
	GetByRiderID(ctx context.Context, riderID string, activeOnly bool) ([]*repository.Shipment, error)
	GetAllActive(ctx context.Context) ([]*repository.Shipment, error)
}

type HistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
	GetByShipmentID(ctx context.Context, shipmentID string) ([]*repository.HistoryEntry, error)
}

type LedgerRepository interface {
	TryRecord(ctx context.Context, shipmentID, status, recipientRole string, sentAt time.Time) (bool, error)
	GetByShipmentID(ctx context.Context, shipmentID string) ([]*repository.NotificationRecord, error)
}

type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*repository.Contact, error)
	GetByRole(ctx context.Context, role string) (*repository.Contact, error)
}

type UserRepository interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

// PostgresStorage is the status store: every shipment mutation goes through it,
// and a status change, its history entry, and its outbox event commit in one
// transaction.
type PostgresStorage struct {
	db           db.DB
	shipmentRepo ShipmentRepository
	historyRepo  HistoryRepository
	ledgerRepo   LedgerRepository
	contactRepo  ContactRepository
	outboxRepo   OutboxTaskRepository
}

func NewPostgresStorage(
	db db.DB,
	shipmentRepo ShipmentRepository,
	historyRepo HistoryRepository,
	ledgerRepo LedgerRepository,
	contactRepo ContactRepository,
	outboxRepo OutboxTaskRepository,
) *PostgresStorage {
	return &PostgresStorage{
		db:           db,
		shipmentRepo: shipmentRepo,
		historyRepo:  historyRepo,
		ledgerRepo:   ledgerRepo,
		contactRepo:  contactRepo,
		outboxRepo:   outboxRepo,
	}
}

func (s *PostgresStorage) AddShipment(ctx context.Context, shipment Shipment) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	repoShipment := toRepoShipment(shipment)
	if err := s.shipmentRepo.CreateTx(ctx, tx, repoShipment); err != nil {
		return fmt.Errorf("failed to add shipment: %w", err)
	}

	entry := &repository.HistoryEntry{
		ShipmentID: shipment.ID,
		Status:     string(shipment.Status),
		Actor:      "admin",
		ChangedAt:  shipment.CreatedAt,
	}
	if err := s.historyRepo.CreateTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to add shipment history entry: %w", err)
	}

	if err := s.enqueueStatusEventTx(ctx, tx, repository.StatusEventPayload{
		ShipmentID: shipment.ID,
		NewStatus:  string(shipment.Status),
		Actor:      "admin",
		ChangedAt:  shipment.CreatedAt,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStorage) GetShipment(ctx context.Context, shipmentID string) (*Shipment, error) {
	repoShipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("shipment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}
	return fromRepoShipment(repoShipment), nil
}

// AppendTransition applies the conditional status write plus its history entry
// and outbox event atomically. repository.ErrStatusConflict surfaces when the
// shipment no longer carries rec.From.
func (s *PostgresStorage) AppendTransition(ctx context.Context, rec TransitionRecord) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	err = s.shipmentRepo.UpdateStatusTx(ctx, tx, rec.ShipmentID, string(rec.From), string(rec.To), rec.RiderID, rec.ChangedAt)
	if err != nil {
		return err
	}

	entry := &repository.HistoryEntry{
		ShipmentID: rec.ShipmentID,
		Status:     string(rec.To),
		Actor:      rec.Actor,
		ChangedAt:  rec.ChangedAt,
	}
	if err := s.historyRepo.CreateTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to add shipment history entry: %w", err)
	}

	if err := s.enqueueStatusEventTx(ctx, tx, repository.StatusEventPayload{
		ShipmentID: rec.ShipmentID,
		OldStatus:  string(rec.From),
		NewStatus:  string(rec.To),
		Actor:      rec.Actor,
		RiderID:    rec.RiderID,
		ChangedAt:  rec.ChangedAt,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStorage) enqueueStatusEventTx(ctx context.Context, tx db.Tx, payload repository.StatusEventPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}
	task := &repository.OutboxTask{Payload: raw, Topic: TopicStatusEvents}
	if err := s.outboxRepo.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue status event: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetShipmentHistory(ctx context.Context, shipmentID string) ([]HistoryEntry, error) {
	repoEntries, err := s.historyRepo.GetByShipmentID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment history: %w", err)
	}

	entries := make([]HistoryEntry, len(repoEntries))
	for i, repoEntry := range repoEntries {
		entries[i] = HistoryEntry{
			Status:    Status(repoEntry.Status),
			Actor:     repoEntry.Actor,
			ChangedAt: repoEntry.ChangedAt,
		}
	}
	return entries, nil
}

func (s *PostgresStorage) GetRiderShipments(ctx context.Context, riderID string, activeOnly bool) ([]Shipment, error) {
	repoShipments, err := s.shipmentRepo.GetByRiderID(ctx, riderID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get rider shipments: %w", err)
	}

	shipments := make([]Shipment, len(repoShipments))
	for i, repoShipment := range repoShipments {
		shipments[i] = *fromRepoShipment(repoShipment)
	}
	return shipments, nil
}

func (s *PostgresStorage) ActiveShipments(ctx context.Context) ([]Shipment, error) {
	repoShipments, err := s.shipmentRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	shipments := make([]Shipment, len(repoShipments))
	for i, repoShipment := range repoShipments {
		shipments[i] = *fromRepoShipment(repoShipment)
	}
	return shipments, nil
}

// TryRecordNotification is the ledger's insert-if-absent operation. True means
// this caller owns the send for the tuple.
func (s *PostgresStorage) TryRecordNotification(ctx context.Context, shipmentID string, status Status, recipientRole string) (bool, error) {
	return s.ledgerRepo.TryRecord(ctx, shipmentID, string(status), recipientRole, time.Now().UTC())
}

func (s *PostgresStorage) NotificationRecords(ctx context.Context, shipmentID string) ([]NotificationRecord, error) {
	repoRecords, err := s.ledgerRepo.GetByShipmentID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification records: %w", err)
	}

	records := make([]NotificationRecord, len(repoRecords))
	for i, repoRecord := range repoRecords {
		records[i] = NotificationRecord{
			ShipmentID:    repoRecord.ShipmentID,
			Status:        Status(repoRecord.Status),
			RecipientRole: repoRecord.RecipientRole,
			SentAt:        repoRecord.SentAt,
		}
	}
	return records, nil
}

// ResolveRecipient maps a recipient role for a shipment to a concrete contact.
// Riders come from the directory by assignment, admins from the dispatch desk,
// customers from the shipment record itself.
func (s *PostgresStorage) ResolveRecipient(ctx context.Context, role string, shipment *Shipment) (*Contact, error) {
	switch role {
	case RoleCustomer:
		if shipment.CustomerPhone == "" {
			return nil, fmt.Errorf("shipment %s has no customer phone", shipment.ID)
		}
		return &Contact{Role: RoleCustomer, Name: shipment.CustomerName, Phone: shipment.CustomerPhone}, nil
	case RoleRider:
		if shipment.AssignedRiderID == "" {
			return nil, fmt.Errorf("shipment %s has no assigned rider", shipment.ID)
		}
		contact, err := s.contactRepo.GetByID(ctx, shipment.AssignedRiderID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve rider contact: %w", err)
		}
		return fromRepoContact(contact), nil
	case RoleAdmin:
		contact, err := s.contactRepo.GetByRole(ctx, RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve admin contact: %w", err)
		}
		return fromRepoContact(contact), nil
	default:
		return nil, fmt.Errorf("unknown recipient role %q", role)
	}
}

// SaveAuditBatch persists a batch of audit payloads as outbox tasks in one
// transaction. Used by the HTTP audit pipeline.
func (s *PostgresStorage) SaveAuditBatch(ctx context.Context, payloads []json.RawMessage) error {
	if len(payloads) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, payload := range payloads {
		task := &repository.OutboxTask{Payload: payload, Topic: TopicAuditLogs}
		if err := s.outboxRepo.CreateTx(ctx, tx, task); err != nil {
			return fmt.Errorf("failed to enqueue audit task: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func toRepoShipment(shipment Shipment) *repository.Shipment {
	var riderID *string
	if shipment.AssignedRiderID != "" {
		id := shipment.AssignedRiderID
		riderID = &id
	}
	return &repository.Shipment{
		ID:              shipment.ID,
		CustomerName:    shipment.CustomerName,
		CustomerPhone:   shipment.CustomerPhone,
		Address:         shipment.Address,
		Status:          string(shipment.Status),
		AssignedRiderID: riderID,
		CreatedAt:       shipment.CreatedAt,
		UpdatedAt:       shipment.UpdatedAt,
	}
}

func fromRepoShipment(repoShipment *repository.Shipment) *Shipment {
	shipment := &Shipment{
		ID:            repoShipment.ID,
		CustomerName:  repoShipment.CustomerName,
		CustomerPhone: repoShipment.CustomerPhone,
		Address:       repoShipment.Address,
		Status:        Status(repoShipment.Status),
		CreatedAt:     repoShipment.CreatedAt,
		UpdatedAt:     repoShipment.UpdatedAt,
	}
	if repoShipment.AssignedRiderID != nil {
		shipment.AssignedRiderID = *repoShipment.AssignedRiderID
	}
	return shipment
}

func fromRepoContact(contact *repository.Contact) *Contact {
	return &Contact{
		ID:    contact.ID,
		Role:  contact.Role,
		Name:  contact.Name,
		Phone: contact.Phone,
	}
}
