package models

import "time"

// Memo is a daily journal entry a user writes inside a project. Date is the
// journal date the entry belongs to; CreatedAt is what reward eligibility
// windows are computed against.
type Memo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	ProjectID uint      `gorm:"index;not null" json:"project"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Contents  string    `gorm:"size:500" json:"contents"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"modified_at"`
}
