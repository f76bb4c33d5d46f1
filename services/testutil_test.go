package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
)

// kst matches the production reference timezone without depending on the
// host's tz database.
var kst = time.FixedZone("KST", 9*60*60)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.TeamMember{},
		&models.ProjectHouse{},
		&models.Log{},
		&models.Memo{},
		&models.TagStyle{},
		&models.Tagging{},
	))
	return db
}

func newTestClock() *services.Clock {
	return services.NewClockIn(kst)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Nickname: username}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, start, end time.Time) *models.Project {
	t.Helper()
	project := models.Project{
		Name:       "test project",
		DateStart:  start,
		DateEnd:    end,
		OwnerID:    ownerID,
		InviteCode: fmt.Sprintf("inv-%d-%d", ownerID, time.Now().UnixNano()%100000),
	}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

func seedMember(t *testing.T, db *gorm.DB, userID, projectID uint, role string) {
	t.Helper()
	member := models.TeamMember{UserID: userID, ProjectID: projectID, Role: role, JoinedAt: time.Now()}
	require.NoError(t, db.Create(&member).Error)
}

func seedMemoAt(t *testing.T, db *gorm.DB, userID, projectID uint, createdAt time.Time) *models.Memo {
	t.Helper()
	memo := models.Memo{
		UserID:    userID,
		ProjectID: projectID,
		Date:      createdAt,
		Contents:  "entry",
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&memo).Error)
	return &memo
}

func seedTagging(t *testing.T, db *gorm.DB, styleID, userID, memoID uint, createdAt time.Time) {
	t.Helper()
	tagging := models.Tagging{
		TagStyleID:  styleID,
		UserID:      userID,
		MemoID:      memoID,
		TagContents: "note",
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&tagging).Error)
}

func seedTagStyle(t *testing.T, db *gorm.DB, projectID uint, detail, color string) *models.TagStyle {
	t.Helper()
	style := models.TagStyle{ProjectID: projectID, TagDetail: detail, TagColor: color}
	require.NoError(t, db.Create(&style).Error)
	return &style
}
