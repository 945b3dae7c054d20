package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
)

type stubSource struct {
	shipments []storage.Shipment
	err       error
}

func (s *stubSource) ActiveShipments(_ context.Context) ([]storage.Shipment, error) {
	return s.shipments, s.err
}

func TestShipmentCache_LoadInitialData(t *testing.T) {
	source := &stubSource{
		shipments: []storage.Shipment{
			{ID: "ship-1", Status: storage.StatusCreated},
			{ID: "ship-2", Status: storage.StatusPickedUp},
		},
	}
	c := cache.NewShipmentCache(source)

	require.NoError(t, c.LoadInitialData(context.Background()))

	shipment, found := c.Get("ship-1")
	require.True(t, found)
	assert.Equal(t, storage.StatusCreated, shipment.Status)

	_, found = c.Get("ship-3")
	assert.False(t, found)
}

func TestShipmentCache_LoadInitialData_SourceError(t *testing.T) {
	expectedErr := errors.New("database error")
	c := cache.NewShipmentCache(&stubSource{err: expectedErr})

	err := c.LoadInitialData(context.Background())
	assert.Equal(t, expectedErr, err)
}

func TestShipmentCache_SetEvictsTerminal(t *testing.T) {
	c := cache.NewShipmentCache(&stubSource{})

	c.Set(storage.Shipment{ID: "ship-1", Status: storage.StatusPickedUp})
	_, found := c.Get("ship-1")
	require.True(t, found)

	c.Set(storage.Shipment{ID: "ship-1", Status: storage.StatusDelivered})
	_, found = c.Get("ship-1")
	assert.False(t, found, "terminal statuses must leave the cache")
}

func TestShipmentCache_GetReturnsCopy(t *testing.T) {
	c := cache.NewShipmentCache(&stubSource{})
	c.Set(storage.Shipment{ID: "ship-1", Status: storage.StatusAssigned, Address: "12 Main St"})

	first, found := c.Get("ship-1")
	require.True(t, found)
	first.Address = "mutated"

	second, found := c.Get("ship-1")
	require.True(t, found)
	assert.Equal(t, "12 Main St", second.Address)
}

func TestShipmentCache_Delete(t *testing.T) {
	c := cache.NewShipmentCache(&stubSource{})
	c.Set(storage.Shipment{ID: "ship-1", Status: storage.StatusAssigned})

	c.Delete("ship-1")
	_, found := c.Get("ship-1")
	assert.False(t, found)

	// deleting an absent key is a no-op
	c.Delete("ship-1")
}

func TestShipmentCache_ConcurrentAccess(t *testing.T) {
	c := cache.NewShipmentCache(&stubSource{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := "ship-1"
			if n%2 == 0 {
				c.Set(storage.Shipment{ID: id, Status: storage.StatusPickedUp})
			} else {
				c.Get(id)
			}
		}(i)
	}
	wg.Wait()

	shipment, found := c.Get("ship-1")
	require.True(t, found)
	assert.Equal(t, storage.StatusPickedUp, shipment.Status)
}
