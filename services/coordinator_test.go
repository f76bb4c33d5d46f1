package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
)

func TestCoordinatorGrantsDailyOnMemoCreated(t *testing.T) {
	db := newTestDB(t)
	coordinator := services.NewRewardCoordinator(db, newTestClock(), 0.85)

	user := seedUser(t, db, "hana")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, kst)
	project := seedProject(t, db, user.ID, start, start.AddDate(0, 0, 9))
	seedMember(t, db, user.ID, project.ID, models.RoleAdmin)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, kst)
	seedMemoAt(t, db, user.ID, project.ID, now)

	outcome, err := coordinator.RecordActivityAt(user.ID, project.ID, services.ActivityMemoCreated, now)
	require.NoError(t, err)
	require.True(t, outcome.Granted)
	require.NotNil(t, outcome.Progress)
	require.Equal(t, 1, outcome.Progress.CurrentLogs)
	require.Equal(t, 17, outcome.Progress.TotalRequiredLogs) // 1 * 10 * 2 * 0.85 floored

	// A second memo the same day is still eligible but the ledger refuses a
	// second grant; the race resolves to a calm granted:false.
	seedMemoAt(t, db, user.ID, project.ID, now.Add(time.Hour))
	outcome, err = coordinator.RecordActivityAt(user.ID, project.ID, services.ActivityMemoCreated, now.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, outcome.Granted)
	require.Equal(t, "already granted today", outcome.Message)

	var count int64
	require.NoError(t, db.Model(&models.Log{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCoordinatorTagReviewGrant(t *testing.T) {
	db := newTestDB(t)
	coordinator := services.NewRewardCoordinator(db, newTestClock(), 0.85)

	user := seedUser(t, db, "minsu")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, kst)
	project := seedProject(t, db, user.ID, start, start.AddDate(0, 0, 9))
	seedMember(t, db, user.ID, project.ID, models.RoleAdmin)
	style := seedTagStyle(t, db, project.ID, "insight", "#FF8800")

	now := time.Date(2026, 3, 2, 15, 0, 0, 0, kst)
	memoA := seedMemoAt(t, db, user.ID, project.ID, now.Add(-2*time.Hour))
	memoB := seedMemoAt(t, db, user.ID, project.ID, now.Add(-time.Hour))

	seedTagging(t, db, style.ID, user.ID, memoA.ID, now.Add(-30*time.Minute))

	outcome, err := coordinator.RecordActivityAt(user.ID, project.ID, services.ActivityTaggingBatchComplete, now)
	require.NoError(t, err)
	require.False(t, outcome.Granted)
	require.Equal(t, "reward condition not met", outcome.Message)

	seedTagging(t, db, style.ID, user.ID, memoB.ID, now.Add(-10*time.Minute))

	outcome, err = coordinator.RecordActivityAt(user.ID, project.ID, services.ActivityTaggingBatchComplete, now)
	require.NoError(t, err)
	require.True(t, outcome.Granted)
	require.Equal(t, "log granted", outcome.Message)
}

func TestCoordinatorBothRewardsSameDay(t *testing.T) {
	db := newTestDB(t)
	coordinator := services.NewRewardCoordinator(db, newTestClock(), 0.85)

	user := seedUser(t, db, "dana")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, kst)
	project := seedProject(t, db, user.ID, start, start.AddDate(0, 0, 9))
	seedMember(t, db, user.ID, project.ID, models.RoleAdmin)
	style := seedTagStyle(t, db, project.ID, "recap", "#00AA55")

	now := time.Date(2026, 3, 2, 20, 0, 0, 0, kst)
	memo := seedMemoAt(t, db, user.ID, project.ID, now.Add(-time.Hour))

	outcome, err := coordinator.RecordActivityAt(user.ID, project.ID, services.ActivityMemoCreated, now)
	require.NoError(t, err)
	require.True(t, outcome.Granted)

	seedTagging(t, db, style.ID, user.ID, memo.ID, now.Add(-30*time.Minute))
	outcome, err = coordinator.RecordActivityAt(user.ID, project.ID, services.ActivityTaggingBatchComplete, now)
	require.NoError(t, err)
	require.True(t, outcome.Granted)
	require.Equal(t, 2, outcome.Progress.CurrentLogs)
}

func TestCoordinatorRejectsUnknownActivity(t *testing.T) {
	db := newTestDB(t)
	coordinator := services.NewRewardCoordinator(db, newTestClock(), 0.85)

	_, err := coordinator.RecordActivity(1, 1, "PROJECT_ARCHIVED")
	require.ErrorIs(t, err, services.ErrInvalidReason)
}

func TestCoordinatorUnknownUserOrProject(t *testing.T) {
	db := newTestDB(t)
	coordinator := services.NewRewardCoordinator(db, newTestClock(), 0.85)

	user := seedUser(t, db, "hyun")

	_, err := coordinator.RecordActivity(999, 1, services.ActivityMemoCreated)
	require.ErrorIs(t, err, services.ErrNotFound)

	_, err = coordinator.RecordActivity(user.ID, 999, services.ActivityMemoCreated)
	require.ErrorIs(t, err, services.ErrNotFound)
}
