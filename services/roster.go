package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
)

// TeamRoster manages project memberships and enforces the head count cap.
type TeamRoster struct {
	db         *gorm.DB
	maxMembers int
}

// NewTeamRoster creates a roster with the configured cap, normally 6.
func NewTeamRoster(db *gorm.DB, maxMembers int) *TeamRoster {
	return &TeamRoster{db: db, maxMembers: maxMembers}
}

// Join adds a user to a project. It returns ErrAlreadyMember for duplicate
// joins and ErrConstraintViolation when the project is full; neither persists
// a membership.
func (r *TeamRoster) Join(userID, projectID uint, role string) (*models.TeamMember, error) {
	member := models.TeamMember{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.TeamMember{}).
			Where("user_id = ? AND project_id = ?", userID, projectID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyMember
		}

		var count int64
		if err := tx.Model(&models.TeamMember{}).
			Where("project_id = ?", projectID).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= r.maxMembers {
			return fmt.Errorf("%w: project already has %d members", ErrConstraintViolation, count)
		}

		return tx.Create(&member).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyMember
		}
		if errors.Is(err, ErrAlreadyMember) || errors.Is(err, ErrConstraintViolation) {
			return nil, err
		}
		return nil, fmt.Errorf("joining project: %w", err)
	}

	return &member, nil
}

// MemberCount returns the current number of memberships in a project.
func (r *TeamRoster) MemberCount(projectID uint) (int, error) {
	var count int64
	if err := r.db.Model(&models.TeamMember{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting team members: %w", err)
	}
	return int(count), nil
}

// IsMember reports whether the user belongs to the project.
func (r *TeamRoster) IsMember(userID, projectID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return count > 0, nil
}

// ValidateProjectDates rejects ranges whose start falls after the end.
func ValidateProjectDates(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: project start date is after end date", ErrConstraintViolation)
	}
	return nil
}
