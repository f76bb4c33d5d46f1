package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
)

func TestLedgerGrantIsIdempotentPerDay(t *testing.T) {
	db := newTestDB(t)
	clock := newTestClock()
	ledger := services.NewRewardLedger(db, clock)

	user := seedUser(t, db, "hana")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, kst)

	record, err := ledger.Grant(user.ID, project.ID, services.ReasonDailyComplete, now)
	require.NoError(t, err)
	require.NotNil(t, record)

	_, err = ledger.Grant(user.ID, project.ID, services.ReasonDailyComplete, now.Add(3*time.Hour))
	require.ErrorIs(t, err, services.ErrAlreadyGranted)

	var count int64
	require.NoError(t, db.Model(&models.Log{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLedgerGrantRejectsUnknownReason(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewRewardLedger(db, newTestClock())

	_, err := ledger.Grant(1, 1, "WEEKLY_BONUS", time.Now())
	require.ErrorIs(t, err, services.ErrInvalidReason)

	var count int64
	require.NoError(t, db.Model(&models.Log{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestLedgerDistinctReasonsSameDay(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewRewardLedger(db, newTestClock())

	user := seedUser(t, db, "minsu")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, kst)

	_, err := ledger.Grant(user.ID, project.ID, services.ReasonDailyComplete, now)
	require.NoError(t, err)
	_, err = ledger.Grant(user.ID, project.ID, services.ReasonTagReviewComplete, now)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Log{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestLedgerDayBoundary(t *testing.T) {
	db := newTestDB(t)
	clock := newTestClock()
	ledger := services.NewRewardLedger(db, clock)

	user := seedUser(t, db, "juyoung")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))

	lateNight := time.Date(2026, 3, 2, 23, 59, 59, 0, kst)
	_, err := ledger.Grant(user.ID, project.ID, services.ReasonDailyComplete, lateNight)
	require.NoError(t, err)

	has, err := ledger.HasRewardToday(user.ID, project.ID, services.ReasonDailyComplete, lateNight)
	require.NoError(t, err)
	require.True(t, has)

	// Two seconds later it is a new reference-zone day; yesterday's log must
	// not count and a fresh grant must succeed.
	nextDay := lateNight.Add(2 * time.Second)
	has, err = ledger.HasRewardToday(user.ID, project.ID, services.ReasonDailyComplete, nextDay)
	require.NoError(t, err)
	require.False(t, has)

	_, err = ledger.Grant(user.ID, project.ID, services.ReasonDailyComplete, nextDay)
	require.NoError(t, err)
}

func TestLedgerCountProjectLogs(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewRewardLedger(db, newTestClock())

	user := seedUser(t, db, "dana")
	other := seedUser(t, db, "hyun")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, kst)
	_, err := ledger.Grant(user.ID, project.ID, services.ReasonDailyComplete, now)
	require.NoError(t, err)
	_, err = ledger.Grant(other.ID, project.ID, services.ReasonTagReviewComplete, now)
	require.NoError(t, err)

	count, err := ledger.CountProjectLogs(project.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
