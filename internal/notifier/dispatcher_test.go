package notifier_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/notifier"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
)

// memLedger enforces tuple uniqueness the way the unique index does.
type memLedger struct {
	mu      sync.Mutex
	entries map[string]struct{}
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[string]struct{})}
}

func (l *memLedger) key(shipmentID string, status storage.Status, role string) string {
	return shipmentID + "|" + string(status) + "|" + role
}

func (l *memLedger) TryRecordNotification(_ context.Context, shipmentID string, status storage.Status, role string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := l.key(shipmentID, status, role)
	if _, exists := l.entries[k]; exists {
		return false, nil
	}
	l.entries[k] = struct{}{}
	return true, nil
}

func (l *memLedger) preRecord(shipmentID string, status storage.Status, role string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.key(shipmentID, status, role)] = struct{}{}
}

type staticDirectory struct {
	missingRoles map[string]bool
}

func (d *staticDirectory) ResolveRecipient(_ context.Context, role string, shipment *storage.Shipment) (*storage.Contact, error) {
	if d.missingRoles[role] {
		return nil, fmt.Errorf("no contact for role %s", role)
	}
	return &storage.Contact{Role: role, Phone: "+7700" + role}, nil
}

type recordingSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{failFor: make(map[string]error)}
}

func (s *recordingSender) Send(_ context.Context, to string, body string) error {
	if err := s.failFor[to]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+": "+body)
	return nil
}

func (s *recordingSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func pickedUpShipment() *storage.Shipment {
	return &storage.Shipment{
		ID:              "ship-26",
		CustomerName:    "Alex",
		CustomerPhone:   "+77001234567",
		Address:         "12 Main St",
		Status:          storage.StatusPickedUp,
		AssignedRiderID: "rider-1",
	}
}

func TestDispatch_PickedUpNotifiesRiderAndAdmin(t *testing.T) {
	ledger := newMemLedger()
	sender := newRecordingSender()
	d := notifier.NewDispatcher(ledger, &staticDirectory{}, sender, zap.NewNop())

	err := d.Dispatch(context.Background(), pickedUpShipment(), storage.StatusPickedUp, "rider-1")

	require.NoError(t, err)
	require.Equal(t, 2, sender.sentCount())
	assert.Contains(t, sender.sent[0], "Package picked up")
	assert.Contains(t, sender.sent[1], "Order picked up by rider")
}

func TestDispatch_SecondCallSendsNothing(t *testing.T) {
	ledger := newMemLedger()
	sender := newRecordingSender()
	d := notifier.NewDispatcher(ledger, &staticDirectory{}, sender, zap.NewNop())

	shipment := pickedUpShipment()
	require.NoError(t, d.Dispatch(context.Background(), shipment, storage.StatusPickedUp, "rider-1"))
	require.NoError(t, d.Dispatch(context.Background(), shipment, storage.StatusPickedUp, "rider-1"))

	assert.Equal(t, 2, sender.sentCount(), "repeat dispatch must not duplicate sends")
}

// Crash-recovery scenario: the rider was already notified by a prior partial
// run; a re-dispatch must send only the missing admin message.
func TestDispatch_PartialRecovery(t *testing.T) {
	ledger := newMemLedger()
	ledger.preRecord("ship-26", storage.StatusPickedUp, storage.RoleRider)
	sender := newRecordingSender()
	d := notifier.NewDispatcher(ledger, &staticDirectory{}, sender, zap.NewNop())

	err := d.Dispatch(context.Background(), pickedUpShipment(), storage.StatusPickedUp, "rider-1")

	require.NoError(t, err)
	require.Equal(t, 1, sender.sentCount())
	assert.Contains(t, sender.sent[0], "Order picked up by rider")
}

func TestDispatch_SendFailureKeepsLedgerRecord(t *testing.T) {
	ledger := newMemLedger()
	sender := newRecordingSender()
	sender.failFor["+7700"+storage.RoleRider] = errors.New("gateway timeout")
	d := notifier.NewDispatcher(ledger, &staticDirectory{}, sender, zap.NewNop())

	shipment := pickedUpShipment()
	err := d.Dispatch(context.Background(), shipment, storage.StatusPickedUp, "rider-1")

	require.Error(t, err, "the delivery failure is surfaced for the operator resend path")
	assert.Equal(t, 1, sender.sentCount(), "the admin message still goes out")

	// The record survives, so a blind re-dispatch cannot double-send a
	// message whose original send may actually have gone through.
	inserted, recErr := ledger.TryRecordNotification(context.Background(), shipment.ID, storage.StatusPickedUp, storage.RoleRider)
	require.NoError(t, recErr)
	assert.False(t, inserted)
}

func TestDispatch_ResolveFailureLeavesNoRecord(t *testing.T) {
	ledger := newMemLedger()
	sender := newRecordingSender()
	directory := &staticDirectory{missingRoles: map[string]bool{storage.RoleRider: true}}
	d := notifier.NewDispatcher(ledger, directory, sender, zap.NewNop())

	shipment := pickedUpShipment()
	err := d.Dispatch(context.Background(), shipment, storage.StatusPickedUp, "rider-1")

	require.Error(t, err)

	// No ledger record was burned, so recovery can still notify the rider.
	inserted, recErr := ledger.TryRecordNotification(context.Background(), shipment.ID, storage.StatusPickedUp, storage.RoleRider)
	require.NoError(t, recErr)
	assert.True(t, inserted)
}

func TestDispatch_ConcurrentCallsSendOnce(t *testing.T) {
	ledger := newMemLedger()
	sender := newRecordingSender()
	d := notifier.NewDispatcher(ledger, &staticDirectory{}, sender, zap.NewNop())

	shipment := pickedUpShipment()
	const callers = 10

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), shipment, storage.StatusPickedUp, "rider-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, sender.sentCount(), "one send per recipient role, total")
}

func TestDispatch_CreatedHasNoRecipients(t *testing.T) {
	ledger := newMemLedger()
	sender := newRecordingSender()
	d := notifier.NewDispatcher(ledger, &staticDirectory{}, sender, zap.NewNop())

	err := d.Dispatch(context.Background(), pickedUpShipment(), storage.StatusCreated, "admin")

	require.NoError(t, err)
	assert.Zero(t, sender.sentCount())
}
