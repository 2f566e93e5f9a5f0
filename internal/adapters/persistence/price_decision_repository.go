package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
)

// GormPriceDecisionRepository implements pricing.DecisionRecorder using GORM.
type GormPriceDecisionRepository struct {
	db *gorm.DB
}

// NewGormPriceDecisionRepository creates a new GORM decision repository.
func NewGormPriceDecisionRepository(db *gorm.DB) *GormPriceDecisionRepository {
	return &GormPriceDecisionRepository{db: db}
}

// RecordDecision appends one decision history row.
func (r *GormPriceDecisionRepository) RecordDecision(ctx context.Context, record *pricing.DecisionRecord) error {
	model := &PriceDecisionModel{
		CycleID:       record.CycleID,
		MachineID:     record.MachineID,
		GPUName:       record.GPUName,
		NumGPUs:       record.NumGPUs,
		DemandPercent: record.DemandPercent,
		PreviousPrice: record.PreviousPrice,
		NewPrice:      record.NewPrice,
		Action:        string(record.Action),
		Reason:        record.Reason,
		TestMode:      record.TestMode,
		RecordedAt:    record.RecordedAt,
	}

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to record decision: %w", result.Error)
	}
	return nil
}

// RecentDecisions returns up to limit entries ordered by recorded_at DESC.
// machineID 0 means all machines.
func (r *GormPriceDecisionRepository) RecentDecisions(ctx context.Context, machineID int, limit int) ([]*pricing.DecisionRecord, error) {
	query := r.db.WithContext(ctx).Order("recorded_at DESC")
	if machineID > 0 {
		query = query.Where("machine_id = ?", machineID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []PriceDecisionModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", result.Error)
	}

	records := make([]*pricing.DecisionRecord, len(models))
	for i, model := range models {
		records[i] = &pricing.DecisionRecord{
			CycleID:       model.CycleID,
			MachineID:     model.MachineID,
			GPUName:       model.GPUName,
			NumGPUs:       model.NumGPUs,
			DemandPercent: model.DemandPercent,
			PreviousPrice: model.PreviousPrice,
			NewPrice:      model.NewPrice,
			Action:        pricing.Action(model.Action),
			Reason:        model.Reason,
			TestMode:      model.TestMode,
			RecordedAt:    model.RecordedAt,
		}
	}
	return records, nil
}
