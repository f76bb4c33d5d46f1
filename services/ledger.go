package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
)

// Reward reasons. Exactly one log may exist per user, project, reason and
// calendar day.
const (
	ReasonDailyComplete     = "DAILY_COMPLETE"
	ReasonTagReviewComplete = "TAG_REVIEW_COMPLETE"
)

// ValidReason reports whether the reason belongs to the enumerated set.
func ValidReason(reason string) bool {
	return reason == ReasonDailyComplete || reason == ReasonTagReviewComplete
}

// RewardLedger records reward grants and enforces the at-most-one-per-day
// rule. The check-then-insert runs inside a transaction and the composite
// unique index on logs backstops any race two concurrent grants could win
// simultaneously: exactly one insert commits, the other maps to
// ErrAlreadyGranted.
type RewardLedger struct {
	db    *gorm.DB
	clock *Clock
}

// NewRewardLedger creates a ledger over the given database handle.
func NewRewardLedger(db *gorm.DB, clock *Clock) *RewardLedger {
	return &RewardLedger{db: db, clock: clock}
}

// HasRewardToday reports whether a log exists for the tuple on the
// reference-zone day containing now.
func (l *RewardLedger) HasRewardToday(userID, projectID uint, reason string, now time.Time) (bool, error) {
	if !ValidReason(reason) {
		return false, ErrInvalidReason
	}
	start, end := l.clock.DayBounds(now)
	var count int64
	err := l.db.Model(&models.Log{}).
		Where("user_id = ? AND project_id = ? AND reason = ? AND reward_date >= ? AND reward_date < ?",
			userID, projectID, reason, start, end).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("querying reward ledger: %w", err)
	}
	return count > 0, nil
}

// Grant inserts a log for the day containing the given instant. It returns
// ErrAlreadyGranted when a log for the tuple already exists and
// ErrInvalidReason for reasons outside the enumerated set; nothing is written
// in either case.
func (l *RewardLedger) Grant(userID, projectID uint, reason string, day time.Time) (*models.Log, error) {
	if !ValidReason(reason) {
		return nil, ErrInvalidReason
	}

	rewardDate := l.clock.Today(day)
	record := models.Log{
		UserID:     userID,
		ProjectID:  projectID,
		Reason:     reason,
		RewardDate: rewardDate,
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Log{}).
			Where("user_id = ? AND project_id = ? AND reason = ? AND reward_date = ?",
				userID, projectID, reason, rewardDate).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyGranted
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyGranted) || isDuplicateKey(err) {
			return nil, ErrAlreadyGranted
		}
		return nil, fmt.Errorf("granting reward: %w", err)
	}

	return &record, nil
}

// CountProjectLogs returns the total number of logs for a project, across all
// members and both reasons.
func (l *RewardLedger) CountProjectLogs(projectID uint) (int, error) {
	var count int64
	if err := l.db.Model(&models.Log{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting project logs: %w", err)
	}
	return int(count), nil
}

// isDuplicateKey detects unique-constraint violations across the mysql and
// sqlite dialects in use.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
