package persistence

import "time"

// PriceDecisionModel represents the price_decisions table. This is
// append-only telemetry: the pricing loop writes one row per decision and
// never reads it back on the decision path.
type PriceDecisionModel struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	CycleID       string    `gorm:"column:cycle_id;index;not null"`
	MachineID     int       `gorm:"column:machine_id;index;not null"`
	GPUName       string    `gorm:"column:gpu_name;not null"`
	NumGPUs       int       `gorm:"column:num_gpus;not null"`
	DemandPercent float64   `gorm:"column:demand_percent;not null"`
	PreviousPrice float64   `gorm:"column:previous_price;not null"`
	NewPrice      float64   `gorm:"column:new_price;not null"`
	Action        string    `gorm:"column:action;not null"`
	Reason        string    `gorm:"column:reason;type:text;not null"`
	TestMode      bool      `gorm:"column:test_mode;not null;default:false"`
	RecordedAt    time.Time `gorm:"column:recorded_at;index;not null"`
}

func (PriceDecisionModel) TableName() string {
	return "price_decisions"
}
