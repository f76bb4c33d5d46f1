package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
)

// EligibilityEvaluator decides whether a reward condition holds for a user in
// a project on the current reference-zone day. It only reads memos and
// taggings; idempotency against double-granting is the ledger's job, not this
// evaluator's.
type EligibilityEvaluator struct {
	db    *gorm.DB
	clock *Clock
}

// NewEligibilityEvaluator creates an evaluator over the given database handle.
func NewEligibilityEvaluator(db *gorm.DB, clock *Clock) *EligibilityEvaluator {
	return &EligibilityEvaluator{db: db, clock: clock}
}

// Eligible dispatches to the rule for the given reason.
func (e *EligibilityEvaluator) Eligible(reason string, userID, projectID uint, now time.Time) (bool, error) {
	switch reason {
	case ReasonDailyComplete:
		return e.EligibleForDaily(userID, projectID, now)
	case ReasonTagReviewComplete:
		return e.EligibleForTagReview(userID, projectID, now)
	default:
		return false, ErrInvalidReason
	}
}

// EligibleForDaily holds when the user created at least one memo in the
// project today. The memo-created event itself is the trigger; the caller
// invokes this right after persisting the memo, so the check doubles as a
// guard against calls that arrive without a matching write.
func (e *EligibilityEvaluator) EligibleForDaily(userID, projectID uint, now time.Time) (bool, error) {
	ids, err := e.todayMemoIDs(userID, projectID, now)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// EligibleForTagReview holds when every memo the user created in the project
// today carries at least one tagging. A day with zero memos is explicitly
// ineligible: the vacuous subset would otherwise hand out rewards for doing
// nothing.
func (e *EligibilityEvaluator) EligibleForTagReview(userID, projectID uint, now time.Time) (bool, error) {
	ids, err := e.todayMemoIDs(userID, projectID, now)
	if err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}

	var covered int64
	err = e.db.Model(&models.Tagging{}).
		Distinct("memo_id").
		Where("memo_id IN ?", ids).
		Count(&covered).Error
	if err != nil {
		return false, fmt.Errorf("counting tagged memos: %w", err)
	}
	return covered == int64(len(ids)), nil
}

func (e *EligibilityEvaluator) todayMemoIDs(userID, projectID uint, now time.Time) ([]uint, error) {
	start, end := e.clock.DayBounds(now)
	var ids []uint
	err := e.db.Model(&models.Memo{}).
		Where("user_id = ? AND project_id = ? AND created_at >= ? AND created_at < ?",
			userID, projectID, start, end).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing today's memos: %w", err)
	}
	return ids, nil
}
