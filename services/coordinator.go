package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/utils"
)

// Activity kinds the CRUD layer reports after a successful write.
const (
	ActivityMemoCreated          = "MEMO_CREATED"
	ActivityTaggingBatchComplete = "TAGGING_BATCH_COMPLETE"
)

// RewardOutcome is what the coordinator hands back for inclusion in the API
// response of the memo or tagging write that triggered it.
type RewardOutcome struct {
	Granted  bool           `json:"granted"`
	Message  string         `json:"message"`
	Progress *HouseSnapshot `json:"progress,omitempty"`
}

// RewardCoordinator orchestrates one reward evaluation per activity event:
// eligibility, ledger grant, house refresh. Losing a grant race yields a
// granted:false outcome rather than an error.
type RewardCoordinator struct {
	db        *gorm.DB
	clock     *Clock
	ledger    *RewardLedger
	evaluator *EligibilityEvaluator
	progress  *ProgressAggregator
}

// NewRewardCoordinator wires the reward core over one database handle.
func NewRewardCoordinator(db *gorm.DB, clock *Clock, defaultRatio float64) *RewardCoordinator {
	return &RewardCoordinator{
		db:        db,
		clock:     clock,
		ledger:    NewRewardLedger(db, clock),
		evaluator: NewEligibilityEvaluator(db, clock),
		progress:  NewProgressAggregator(db, defaultRatio),
	}
}

// Ledger exposes the underlying reward ledger.
func (c *RewardCoordinator) Ledger() *RewardLedger { return c.ledger }

// Aggregator exposes the underlying progress aggregator.
func (c *RewardCoordinator) Aggregator() *ProgressAggregator { return c.progress }

// RecordActivity evaluates the reward for an activity event at the current
// instant.
func (c *RewardCoordinator) RecordActivity(userID, projectID uint, kind string) (*RewardOutcome, error) {
	return c.RecordActivityAt(userID, projectID, kind, time.Now())
}

// RecordActivityAt is RecordActivity with an injected reference instant.
func (c *RewardCoordinator) RecordActivityAt(userID, projectID uint, kind string, now time.Time) (*RewardOutcome, error) {
	reason, err := reasonForActivity(kind)
	if err != nil {
		return nil, err
	}

	if err := c.ensureExists(&models.User{}, userID); err != nil {
		return nil, err
	}
	if err := c.ensureExists(&models.Project{}, projectID); err != nil {
		return nil, err
	}

	eligible, err := c.evaluator.Eligible(reason, userID, projectID, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return &RewardOutcome{Granted: false, Message: "reward condition not met"}, nil
	}

	if _, err := c.ledger.Grant(userID, projectID, reason, now); err != nil {
		if errors.Is(err, ErrAlreadyGranted) {
			return &RewardOutcome{Granted: false, Message: "already granted today"}, nil
		}
		return nil, err
	}

	snapshot, err := c.progress.Refresh(projectID)
	if err != nil {
		// The log is committed; a failed snapshot refresh must not look like a
		// failed grant. The next refresh call recomputes from scratch anyway.
		if utils.Sugar != nil {
			utils.Sugar.Warnf("house refresh after grant failed: project=%d user=%d reason=%s err=%v",
				projectID, userID, reason, err)
		}
		return &RewardOutcome{Granted: true, Message: "log granted"}, nil
	}

	return &RewardOutcome{Granted: true, Message: "log granted", Progress: snapshot}, nil
}

func (c *RewardCoordinator) ensureExists(model interface{}, id uint) error {
	err := c.db.First(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up record %d: %w", id, err)
	}
	return nil
}

func reasonForActivity(kind string) (string, error) {
	switch kind {
	case ActivityMemoCreated:
		return ReasonDailyComplete, nil
	case ActivityTaggingBatchComplete:
		return ReasonTagReviewComplete, nil
	default:
		return "", ErrInvalidReason
	}
}
