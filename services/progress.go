package services

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
)

// HouseSnapshot is the refreshed progress view of a project's log house.
type HouseSnapshot struct {
	ProjectID         uint    `json:"project_id"`
	ProjectName       string  `json:"project_name"`
	MemberCount       int     `json:"member_count"`
	DurationDays      int     `json:"duration_days"`
	DifficultyRatio   float64 `json:"difficulty_ratio"`
	CurrentLogs       int     `json:"current_logs"`
	TotalRequiredLogs int     `json:"total_required_logs"`
	ProgressPercent   float64 `json:"progress_percent"`
}

// MemberContribution is one team member's share of a project's logs.
type MemberContribution struct {
	UserID              uint    `json:"user_id"`
	Username            string  `json:"username"`
	Role                string  `json:"role"`
	TotalLogs           int     `json:"total_logs"`
	MaxPossibleLogs     int     `json:"max_possible_logs"`
	ContributionPercent float64 `json:"contribution_percent"`
}

// ProgressAggregator recomputes house progress from the live member count,
// project duration and log count. Refresh is read-mostly: it does not need to
// serialize against in-flight grants, a snapshot that misses a concurrently
// committing log self-corrects on the next refresh.
type ProgressAggregator struct {
	db           *gorm.DB
	defaultRatio float64
}

// NewProgressAggregator creates an aggregator. defaultRatio seeds houses that
// are missing their row, normally 0.85.
func NewProgressAggregator(db *gorm.DB, defaultRatio float64) *ProgressAggregator {
	return &ProgressAggregator{db: db, defaultRatio: defaultRatio}
}

// Refresh recomputes and persists the project's house aggregate, then returns
// the snapshot.
//
// total_required_logs = floor(member_count * duration_days * 2 * ratio) with
// duration inclusive of both endpoints. A zero total yields zero percent
// instead of a division by zero.
func (p *ProgressAggregator) Refresh(projectID uint) (*HouseSnapshot, error) {
	var project models.Project
	if err := p.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	var house models.ProjectHouse
	err := p.db.Where(models.ProjectHouse{ProjectID: projectID}).
		Attrs(models.ProjectHouse{DifficultyRatio: p.defaultRatio}).
		FirstOrCreate(&house).Error
	if err != nil {
		return nil, fmt.Errorf("loading project house: %w", err)
	}

	var memberCount int64
	if err := p.db.Model(&models.TeamMember{}).Where("project_id = ?", projectID).Count(&memberCount).Error; err != nil {
		return nil, fmt.Errorf("counting team members: %w", err)
	}

	var currentLogs int64
	if err := p.db.Model(&models.Log{}).Where("project_id = ?", projectID).Count(&currentLogs).Error; err != nil {
		return nil, fmt.Errorf("counting logs: %w", err)
	}

	duration := project.DurationDays()
	total := int(math.Floor(float64(memberCount) * float64(duration) * 2 * house.DifficultyRatio))

	house.CurrentLogs = int(currentLogs)
	house.TotalRequiredLogs = total
	if err := p.db.Save(&house).Error; err != nil {
		return nil, fmt.Errorf("saving project house: %w", err)
	}

	return &HouseSnapshot{
		ProjectID:         project.ID,
		ProjectName:       project.Name,
		MemberCount:       int(memberCount),
		DurationDays:      duration,
		DifficultyRatio:   house.DifficultyRatio,
		CurrentLogs:       house.CurrentLogs,
		TotalRequiredLogs: house.TotalRequiredLogs,
		ProgressPercent:   percentOf(house.CurrentLogs, house.TotalRequiredLogs),
	}, nil
}

// Contribution returns each member's log count against their personal ceiling
// of two logs per project day.
func (p *ProgressAggregator) Contribution(projectID uint) ([]MemberContribution, error) {
	var project models.Project
	if err := p.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	var memberships []models.TeamMember
	if err := p.db.Where("project_id = ?", projectID).Order("joined_at ASC").Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}

	maxPossible := project.DurationDays() * 2
	contributions := make([]MemberContribution, 0, len(memberships))
	for _, m := range memberships {
		var user models.User
		if err := p.db.First(&user, m.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loading member user: %w", err)
		}

		var totalLogs int64
		err := p.db.Model(&models.Log{}).
			Where("project_id = ? AND user_id = ?", projectID, m.UserID).
			Count(&totalLogs).Error
		if err != nil {
			return nil, fmt.Errorf("counting member logs: %w", err)
		}

		contributions = append(contributions, MemberContribution{
			UserID:              m.UserID,
			Username:            user.Username,
			Role:                m.Role,
			TotalLogs:           int(totalLogs),
			MaxPossibleLogs:     maxPossible,
			ContributionPercent: percentOf(int(totalLogs), maxPossible),
		})
	}
	return contributions, nil
}

// percentOf returns current/total*100 rounded half-up to one decimal place,
// and 0 when total is 0.
func percentOf(current, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(current)/float64(total)*1000) / 10
}
