package models

import "time"

// Log records one reward grant for a user in a project on a calendar day.
// The composite unique index is the system's idempotency guarantee: at most
// one log per (user, project, reason, day), even under concurrent grants.
type Log struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_log_once;not null" json:"user_id"`
	ProjectID  uint      `gorm:"uniqueIndex:idx_log_once;not null" json:"project_id"`
	Reason     string    `gorm:"size:32;uniqueIndex:idx_log_once;not null" json:"reason"`
	RewardDate time.Time `gorm:"type:date;uniqueIndex:idx_log_once;not null" json:"reward_date"`
	CreatedAt  time.Time `json:"created_at"`
}
