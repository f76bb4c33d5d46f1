package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
)

func TestRosterJoinEnforcesMemberCap(t *testing.T) {
	db := newTestDB(t)
	roster := services.NewTeamRoster(db, 6)

	owner := seedUser(t, db, "owner")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, kst)
	project := seedProject(t, db, owner.ID, start, start.AddDate(0, 0, 9))

	_, err := roster.Join(owner.ID, project.ID, models.RoleAdmin)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		member := seedUser(t, db, fmt.Sprintf("member%d", i))
		_, err := roster.Join(member.ID, project.ID, models.RoleMember)
		require.NoError(t, err)
	}

	latecomer := seedUser(t, db, "latecomer")
	_, err = roster.Join(latecomer.ID, project.ID, models.RoleMember)
	require.ErrorIs(t, err, services.ErrConstraintViolation)

	// The rejected join leaves no membership behind.
	count, err := roster.MemberCount(project.ID)
	require.NoError(t, err)
	require.Equal(t, 6, count)

	isMember, err := roster.IsMember(latecomer.ID, project.ID)
	require.NoError(t, err)
	require.False(t, isMember)
}

func TestRosterJoinRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	roster := services.NewTeamRoster(db, 6)

	owner := seedUser(t, db, "owner")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, kst)
	project := seedProject(t, db, owner.ID, start, start.AddDate(0, 0, 9))

	_, err := roster.Join(owner.ID, project.ID, models.RoleAdmin)
	require.NoError(t, err)

	_, err = roster.Join(owner.ID, project.ID, models.RoleMember)
	require.ErrorIs(t, err, services.ErrAlreadyMember)

	count, err := roster.MemberCount(project.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestValidateProjectDates(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, kst)

	require.NoError(t, services.ValidateProjectDates(start, start))
	require.NoError(t, services.ValidateProjectDates(start, start.AddDate(0, 0, 5)))
	require.ErrorIs(t, services.ValidateProjectDates(start, start.AddDate(0, 0, -1)),
		services.ErrConstraintViolation)
}
