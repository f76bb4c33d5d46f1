package models

// ProjectHouse is the per-project progress aggregate (the "log house"). It is
// created zeroed alongside the project and recomputed whenever a log is
// granted or the house is queried. CurrentLogs never decreases; logs are not
// revoked.
type ProjectHouse struct {
	ID                uint    `gorm:"primaryKey" json:"-"`
	ProjectID         uint    `gorm:"uniqueIndex;not null" json:"project"`
	DifficultyRatio   float64 `gorm:"not null;default:0.85" json:"difficulty_ratio"`
	TotalRequiredLogs int     `gorm:"not null;default:0" json:"total_required_logs"`
	CurrentLogs       int     `gorm:"not null;default:0" json:"current_logs"`
}
