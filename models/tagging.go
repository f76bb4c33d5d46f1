package models

import "time"

// TagStyle is a project-scoped annotation category with a display color.
// Detail and color are each unique within their project.
type TagStyle struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"uniqueIndex:idx_style_detail;uniqueIndex:idx_style_color;not null" json:"project"`
	TagDetail string `gorm:"size:20;uniqueIndex:idx_style_detail;not null" json:"tag_detail"`
	TagColor  string `gorm:"size:7;uniqueIndex:idx_style_color;not null" json:"tag_color"`
}

// Tagging annotates a span of a memo with a tag style. OffsetStart must not
// exceed OffsetEnd; that is validated before construction, not in a hook.
type Tagging struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TagStyleID  uint      `gorm:"index;not null" json:"tag_style"`
	UserID      uint      `gorm:"index;not null" json:"user"`
	MemoID      uint      `gorm:"index;not null" json:"memo"`
	TagContents string    `gorm:"size:500" json:"tag_contents"`
	OffsetStart uint      `gorm:"default:0" json:"offset_start"`
	OffsetEnd   uint      `gorm:"default:0" json:"offset_end"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"modified_at"`
	TagStyle    TagStyle  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
