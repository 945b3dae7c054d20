package cache

import (
	"context"
	"log"
	"sync"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
)

type ShipmentSource interface {
	ActiveShipments(ctx context.Context) ([]storage.Shipment, error)
}

// ShipmentCache keeps active (non-terminal) shipments in memory for dashboard
// reads. It is a read accelerator only; the ledger and the status store stay
// the sources of truth.
type ShipmentCache struct {
	mu     sync.RWMutex
	cache  map[string]storage.Shipment
	source ShipmentSource
}

func NewShipmentCache(source ShipmentSource) *ShipmentCache {
	return &ShipmentCache{
		cache:  make(map[string]storage.Shipment),
		source: source,
	}
}

func (c *ShipmentCache) LoadInitialData(ctx context.Context) error {
	log.Println("Loading active shipments into cache...")
	shipments, err := c.source.ActiveShipments(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, shipment := range shipments {
		c.cache[shipment.ID] = shipment
	}
	metrics.ShipmentCacheItems.Set(float64(len(c.cache)))
	log.Printf("Loaded %d active shipments into cache.", len(c.cache))
	return nil
}

func (c *ShipmentCache) Get(shipmentID string) (*storage.Shipment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	shipment, found := c.cache[shipmentID]
	if !found {
		return nil, false
	}
	copied := shipment
	return &copied, true
}

// Set stores the shipment, or evicts it once it reaches a terminal status.
func (c *ShipmentCache) Set(shipment storage.Shipment) {
	if shipment.Status.Terminal() {
		c.Delete(shipment.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[shipment.ID] = shipment
	metrics.ShipmentCacheItems.Set(float64(len(c.cache)))
}

func (c *ShipmentCache) Delete(shipmentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[shipmentID]; found {
		delete(c.cache, shipmentID)
		metrics.ShipmentCacheItems.Set(float64(len(c.cache)))
	}
}
