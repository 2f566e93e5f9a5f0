package repricing_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostlabs/gpupricer-go/internal/application/repricing"
	"github.com/hostlabs/gpupricer-go/internal/domain/market"
	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
	"github.com/hostlabs/gpupricer-go/test/helpers"
)

// capturingLogger collects log lines so tests can assert on the event stream.
type capturingLogger struct {
	lines []string
}

func (l *capturingLogger) Log(level, message string) {
	l.lines = append(l.lines, level+" "+message)
}

func (l *capturingLogger) Logf(level, format string, args ...interface{}) {
	l.Log(level, fmt.Sprintf(format, args...))
}

func (l *capturingLogger) contains(substr string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// capturingRecorder collects decision records in memory.
type capturingRecorder struct {
	records []*pricing.DecisionRecord
	err     error
}

func (r *capturingRecorder) RecordDecision(ctx context.Context, rec *pricing.DecisionRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *capturingRecorder) RecentDecisions(ctx context.Context, machineID int, limit int) ([]*pricing.DecisionRecord, error) {
	return nil, nil
}

func testPolicy() *pricing.Policy {
	return pricing.NewPolicy(pricing.Params{
		BasePrice:   0.40,
		MaxPrice:    1.50,
		StepPercent: 10,
		HighDemand:  80,
		LowDemand:   30,
	})
}

// marketOffers builds an offer list with the given number of rented offers
// plus one available offer per price.
func marketOffers(rented int, availablePrices ...float64) []market.Offer {
	offers := make([]market.Offer, 0, rented+len(availablePrices))
	for i := 0; i < rented; i++ {
		offers = append(offers, market.Offer{Rented: true, PricePerHour: 1.00})
	}
	for _, p := range availablePrices {
		offers = append(offers, market.Offer{Rented: false, PricePerHour: p})
	}
	return offers
}

func newService(mock *helpers.MockMarketplace, opts repricing.Options, logger *capturingLogger, recorder *capturingRecorder) *repricing.Service {
	var rec pricing.DecisionRecorder
	if recorder != nil {
		rec = recorder
	}
	return repricing.NewService(mock, testPolicy(), opts, logger, rec, nil, nil)
}

func TestRunCycle_SubmitsPriceUpdate(t *testing.T) {
	// Arrange - 9 of 10 offers rented (90% demand), median 0.80
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{{ID: 1101, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50}}, nil
	})
	mock.SetSearchOffersFunc(func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
		return marketOffers(9, 0.80), nil
	})
	logger := &capturingLogger{}
	recorder := &capturingRecorder{}
	service := newService(mock, repricing.Options{MinReliability: 0.95}, logger, recorder)

	// Act
	err := service.RunCycle(context.Background())

	// Assert - high demand prices at 95% of median
	require.NoError(t, err)
	updates := mock.GetUpdateCalls()
	require.Len(t, updates, 1)
	assert.Equal(t, 1101, updates[0].MachineID)
	assert.InDelta(t, 0.76, updates[0].NewPrice, 1e-9)
	assert.True(t, logger.contains("SUCCESS: updated machine 1101"))

	require.Len(t, recorder.records, 1)
	assert.Equal(t, pricing.ActionIncrease, recorder.records[0].Action)
	assert.Equal(t, 0.50, recorder.records[0].PreviousPrice)

	price, ok := service.LastKnownPrice(1101)
	require.True(t, ok)
	assert.InDelta(t, 0.76, price, 1e-9)
}

func TestRunCycle_TestModeSuppressesUpdates(t *testing.T) {
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{{ID: 1101, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50}}, nil
	})
	mock.SetSearchOffersFunc(func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
		return marketOffers(9, 0.80), nil
	})
	logger := &capturingLogger{}
	recorder := &capturingRecorder{}
	service := newService(mock, repricing.Options{TestMode: true}, logger, recorder)

	err := service.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Empty(t, mock.GetUpdateCalls())
	assert.True(t, logger.contains("TEST MODE: would update machine 1101"))

	// Decision is still recorded, flagged as test mode
	require.Len(t, recorder.records, 1)
	assert.True(t, recorder.records[0].TestMode)
}

func TestRunCycle_HoldMakesNoUpdate(t *testing.T) {
	// Zero comparable offers: neutral demand, policy holds
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{{ID: 1101, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50}}, nil
	})
	logger := &capturingLogger{}
	service := newService(mock, repricing.Options{}, logger, nil)

	err := service.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Empty(t, mock.GetUpdateCalls())
	assert.True(t, logger.contains("Action: HOLD"))
	assert.True(t, logger.contains("No comparable offers found in market"))
}

func TestRunCycle_FiltersMachinesByTarget(t *testing.T) {
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{
			{ID: 1, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50},
			{ID: 2, GPUName: "RTX 3090", NumGPUs: 4, CurrentPrice: 0.30},
			{ID: 3, GPUName: "RTX 4090", NumGPUs: 8, CurrentPrice: 0.50},
		}, nil
	})
	logger := &capturingLogger{}
	opts := repricing.Options{TargetGPUName: "RTX 4090", TargetNumGPUs: 4, MinReliability: 0.95}
	service := newService(mock, opts, logger, nil)

	err := service.RunCycle(context.Background())

	require.NoError(t, err)
	searches := mock.GetSearchCalls()
	require.Len(t, searches, 1)
	assert.Equal(t, "RTX 4090", searches[0].GPUName)
	assert.Equal(t, 4, searches[0].NumGPUs)
	assert.Equal(t, 0.95, searches[0].MinReliability)
}

func TestRunCycle_NoMatchingMachines(t *testing.T) {
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{{ID: 1, GPUName: "RTX 3090", NumGPUs: 1, CurrentPrice: 0.30}}, nil
	})
	logger := &capturingLogger{}
	service := newService(mock, repricing.Options{TargetGPUName: "H100"}, logger, nil)

	err := service.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Empty(t, mock.GetSearchCalls())
	assert.True(t, logger.contains("No matching machines found"))
}

func TestRunCycle_ListFailureAbortsCycle(t *testing.T) {
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return nil, market.ErrMarketplaceUnavailable
	})
	logger := &capturingLogger{}
	service := newService(mock, repricing.Options{}, logger, nil)

	err := service.RunCycle(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrMarketplaceUnavailable)
	assert.Empty(t, mock.GetSearchCalls())
}

func TestRunCycle_SearchFailureSkipsMachine(t *testing.T) {
	// First machine's market search fails, second proceeds normally
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{
			{ID: 1, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50},
			{ID: 2, GPUName: "RTX 4090", NumGPUs: 8, CurrentPrice: 0.50},
		}, nil
	})
	mock.SetSearchOffersFunc(func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
		if numGPUs == 4 {
			return nil, errors.New("timeout")
		}
		return marketOffers(9, 0.80), nil
	})
	logger := &capturingLogger{}
	service := newService(mock, repricing.Options{}, logger, nil)

	err := service.RunCycle(context.Background())

	require.NoError(t, err)
	assert.True(t, logger.contains("Market search failed for machine 1"))
	updates := mock.GetUpdateCalls()
	require.Len(t, updates, 1)
	assert.Equal(t, 2, updates[0].MachineID)
}

func TestRunCycle_RejectedUpdateLogsMarketplaceMessage(t *testing.T) {
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{{ID: 1101, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50}}, nil
	})
	mock.SetSearchOffersFunc(func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
		return marketOffers(9, 0.80), nil
	})
	mock.SetSetPriceFunc(func(ctx context.Context, machineID int, newPrice float64) error {
		return &market.UpdateRejectedError{MachineID: machineID, Message: "machine is delisted"}
	})
	logger := &capturingLogger{}
	recorder := &capturingRecorder{}
	service := newService(mock, repricing.Options{}, logger, recorder)

	err := service.RunCycle(context.Background())

	// No retries, cycle survives, diagnostic surfaced verbatim
	require.NoError(t, err)
	require.Len(t, mock.GetUpdateCalls(), 1)
	assert.True(t, logger.contains("FAILED: could not update machine 1101: machine is delisted"))
	assert.Len(t, recorder.records, 1)
}

func TestRunCycle_RecorderFailureIsNonFatal(t *testing.T) {
	mock := helpers.NewMockMarketplace()
	mock.SetListMachinesFunc(func(ctx context.Context) ([]market.Machine, error) {
		return []market.Machine{{ID: 1101, GPUName: "RTX 4090", NumGPUs: 4, CurrentPrice: 0.50}}, nil
	})
	mock.SetSearchOffersFunc(func(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
		return marketOffers(9, 0.80), nil
	})
	logger := &capturingLogger{}
	recorder := &capturingRecorder{err: errors.New("disk full")}
	service := newService(mock, repricing.Options{}, logger, recorder)

	err := service.RunCycle(context.Background())

	require.NoError(t, err)
	require.Len(t, mock.GetUpdateCalls(), 1)
	assert.True(t, logger.contains("Failed to record decision for machine 1101"))
}
