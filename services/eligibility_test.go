package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teamlog/logcabin/services"
)

func TestTagReviewIneligibleWithoutMemos(t *testing.T) {
	db := newTestDB(t)
	evaluator := services.NewEligibilityEvaluator(db, newTestClock())

	user := seedUser(t, db, "hana")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))

	// Zero memos today: the "all memos tagged" condition holds vacuously but
	// must not pay out.
	eligible, err := evaluator.EligibleForTagReview(user.ID, project.ID, time.Date(2026, 3, 2, 12, 0, 0, 0, kst))
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestTagReviewRequiresEveryMemoTagged(t *testing.T) {
	db := newTestDB(t)
	evaluator := services.NewEligibilityEvaluator(db, newTestClock())

	user := seedUser(t, db, "minsu")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))
	style := seedTagStyle(t, db, project.ID, "insight", "#FF8800")

	now := time.Date(2026, 3, 2, 14, 0, 0, 0, kst)
	memoA := seedMemoAt(t, db, user.ID, project.ID, now.Add(-4*time.Hour))
	memoB := seedMemoAt(t, db, user.ID, project.ID, now.Add(-3*time.Hour))
	memoC := seedMemoAt(t, db, user.ID, project.ID, now.Add(-2*time.Hour))

	seedTagging(t, db, style.ID, user.ID, memoA.ID, now.Add(-time.Hour))
	seedTagging(t, db, style.ID, user.ID, memoB.ID, now.Add(-50*time.Minute))

	eligible, err := evaluator.EligibleForTagReview(user.ID, project.ID, now)
	require.NoError(t, err)
	require.False(t, eligible, "one memo still untagged")

	// A second tagging on an already-covered memo changes nothing.
	seedTagging(t, db, style.ID, user.ID, memoA.ID, now.Add(-40*time.Minute))
	eligible, err = evaluator.EligibleForTagReview(user.ID, project.ID, now)
	require.NoError(t, err)
	require.False(t, eligible)

	seedTagging(t, db, style.ID, user.ID, memoC.ID, now.Add(-30*time.Minute))
	eligible, err = evaluator.EligibleForTagReview(user.ID, project.ID, now)
	require.NoError(t, err)
	require.True(t, eligible)
}

func TestTagReviewIgnoresOtherDaysAndUsers(t *testing.T) {
	db := newTestDB(t)
	evaluator := services.NewEligibilityEvaluator(db, newTestClock())

	user := seedUser(t, db, "dana")
	other := seedUser(t, db, "hyun")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))
	style := seedTagStyle(t, db, project.ID, "question", "#2244FF")

	now := time.Date(2026, 3, 3, 14, 0, 0, 0, kst)

	// Yesterday's untagged memo and another user's untagged memo are outside
	// today's review scope.
	seedMemoAt(t, db, user.ID, project.ID, now.Add(-24*time.Hour))
	seedMemoAt(t, db, other.ID, project.ID, now.Add(-time.Hour))

	today := seedMemoAt(t, db, user.ID, project.ID, now.Add(-2*time.Hour))
	seedTagging(t, db, style.ID, user.ID, today.ID, now.Add(-time.Hour))

	eligible, err := evaluator.EligibleForTagReview(user.ID, project.ID, now)
	require.NoError(t, err)
	require.True(t, eligible)
}

func TestDailyEligibility(t *testing.T) {
	db := newTestDB(t)
	evaluator := services.NewEligibilityEvaluator(db, newTestClock())

	user := seedUser(t, db, "juyoung")
	project := seedProject(t, db, user.ID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, kst),
		time.Date(2026, 3, 10, 0, 0, 0, 0, kst))

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, kst)

	eligible, err := evaluator.EligibleForDaily(user.ID, project.ID, now)
	require.NoError(t, err)
	require.False(t, eligible)

	seedMemoAt(t, db, user.ID, project.ID, now.Add(-time.Hour))
	eligible, err = evaluator.EligibleForDaily(user.ID, project.ID, now)
	require.NoError(t, err)
	require.True(t, eligible)

	// Next day the slate is clean again.
	eligible, err = evaluator.EligibleForDaily(user.ID, project.ID, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestEligibleRejectsUnknownReason(t *testing.T) {
	db := newTestDB(t)
	evaluator := services.NewEligibilityEvaluator(db, newTestClock())

	_, err := evaluator.Eligible("WEEKLY_BONUS", 1, 1, time.Now())
	require.ErrorIs(t, err, services.ErrInvalidReason)
}
