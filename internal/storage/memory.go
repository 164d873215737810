// Package storage persists promo history. The in-memory store backs tests
// and single-profile runs; the Postgres store shares history across
// processes.
package storage

import (
	"sync"

	"promo-engine/internal/promo"
)

// Memory is a promo.StorageService keeping history in a map. Guarded by a
// mutex because the Postgres change listener may refresh concurrently in
// mixed deployments; the core itself is single-threaded.
type Memory struct {
	mu   sync.RWMutex
	data map[promo.FeatureID]promo.PromoData
}

func NewMemory() *Memory {
	return &Memory{data: map[promo.FeatureID]promo.PromoData{}}
}

func (m *Memory) ReadPromoData(feature promo.FeatureID) (promo.PromoData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[feature]
	return d, ok
}

func (m *Memory) SavePromoData(feature promo.FeatureID, data promo.PromoData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[feature] = data
	return nil
}

func (m *Memory) ResetPromoData(feature promo.FeatureID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, feature)
	return nil
}
