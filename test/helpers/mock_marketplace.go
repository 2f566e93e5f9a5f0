package helpers

import (
	"context"
	"sync"

	"github.com/hostlabs/gpupricer-go/internal/domain/market"
)

// MockMarketplace is a test double for the market.Marketplace port.
type MockMarketplace struct {
	mu sync.RWMutex

	listMachinesFunc func(ctx context.Context) ([]market.Machine, error)
	searchOffersFunc func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error)
	setPriceFunc     func(ctx context.Context, machineID int, newPrice float64) error

	searchCalls []SearchCall
	updateCalls []UpdateCall
}

// SearchCall records one SearchComparableOffers invocation.
type SearchCall struct {
	GPUName        string
	NumGPUs        int
	MinReliability float64
}

// UpdateCall records one SetMinimumBidPrice invocation.
type UpdateCall struct {
	MachineID int
	NewPrice  float64
}

// NewMockMarketplace creates a new mock marketplace.
func NewMockMarketplace() *MockMarketplace {
	return &MockMarketplace{}
}

func (m *MockMarketplace) ListOwnMachines(ctx context.Context) ([]market.Machine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listMachinesFunc != nil {
		return m.listMachinesFunc(ctx)
	}
	return nil, nil
}

func (m *MockMarketplace) SearchComparableOffers(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, SearchCall{GPUName: gpuName, NumGPUs: numGPUs, MinReliability: minReliability})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.searchOffersFunc != nil {
		return m.searchOffersFunc(ctx, gpuName, numGPUs, minReliability)
	}
	return nil, nil
}

func (m *MockMarketplace) SetMinimumBidPrice(ctx context.Context, machineID int, newPrice float64) error {
	m.mu.Lock()
	m.updateCalls = append(m.updateCalls, UpdateCall{MachineID: machineID, NewPrice: newPrice})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.setPriceFunc != nil {
		return m.setPriceFunc(ctx, machineID, newPrice)
	}
	return nil
}

// SetListMachinesFunc sets the function called by ListOwnMachines.
func (m *MockMarketplace) SetListMachinesFunc(f func(ctx context.Context) ([]market.Machine, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listMachinesFunc = f
}

// SetSearchOffersFunc sets the function called by SearchComparableOffers.
func (m *MockMarketplace) SetSearchOffersFunc(f func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchOffersFunc = f
}

// SetSetPriceFunc sets the function called by SetMinimumBidPrice.
func (m *MockMarketplace) SetSetPriceFunc(f func(ctx context.Context, machineID int, newPrice float64) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPriceFunc = f
}

// GetSearchCalls returns all recorded search calls.
func (m *MockMarketplace) GetSearchCalls() []SearchCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchCalls
}

// GetUpdateCalls returns all recorded price update calls.
func (m *MockMarketplace) GetUpdateCalls() []UpdateCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updateCalls
}
