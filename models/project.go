package models

import "time"

// Team member roles. The project creator becomes the single Admin; everyone
// joining through an invite code becomes a Member.
const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

// Project is a team workspace with a fixed inclusive date range. The invite
// code is generated at creation time and never changes.
type Project struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"project_name"`
	DateStart  time.Time `gorm:"type:date;not null" json:"date_start"`
	DateEnd    time.Time `gorm:"type:date;not null" json:"date_end"`
	OwnerID    uint      `gorm:"index;not null" json:"owner"`
	InviteCode string    `gorm:"size:20;uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// DurationDays returns the project length in days, both endpoints inclusive.
func (p *Project) DurationDays() int {
	return int(p.DateEnd.Sub(p.DateStart).Hours()/24) + 1
}

// TeamMember links a user to a project with a role. A user joins a project at
// most once; the per-project head count cap is enforced at join time.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"uniqueIndex:idx_member_once;not null" json:"user"`
	ProjectID uint      `gorm:"uniqueIndex:idx_member_once;not null" json:"project"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
