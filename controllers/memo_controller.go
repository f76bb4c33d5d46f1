package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
	"github.com/teamlog/logcabin/utils"
)

// MemoController manages daily journal entries. Every successful memo
// creation reports a MEMO_CREATED activity to the reward coordinator; the
// reward outcome rides along in the response but never affects the memo write
// itself.
type MemoController struct {
	db          *gorm.DB
	coordinator *services.RewardCoordinator
}

// NewMemoController creates a new controller instance.
func NewMemoController(db *gorm.DB, coordinator *services.RewardCoordinator) *MemoController {
	return &MemoController{db: db, coordinator: coordinator}
}

// CreateMemo persists a memo and triggers reward evaluation.
func (m *MemoController) CreateMemo(ctx *gin.Context) {
	var req struct {
		ProjectID uint   `json:"project" binding:"required"`
		Date      string `json:"date" binding:"required"`
		Contents  string `json:"contents" binding:"max=500"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var project models.Project
	if err := m.db.First(&project, req.ProjectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return
	}

	memo := models.Memo{
		UserID:    userID,
		ProjectID: project.ID,
		Date:      date,
		Contents:  utils.StripHTML(req.Contents),
	}
	if err := m.db.Create(&memo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create memo")
		return
	}

	reward := m.recordActivity(userID, project.ID, services.ActivityMemoCreated)
	utils.Created(ctx, gin.H{"results": memo, "reward": reward})
}

// ListMyMemos returns the authenticated user's memos, newest first.
func (m *MemoController) ListMyMemos(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var memos []models.Memo
	if err := m.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&memos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list memos")
		return
	}
	utils.Success(ctx, gin.H{"results": memos})
}

// GetMemo returns one memo; only its author may read it.
func (m *MemoController) GetMemo(ctx *gin.Context) {
	memo, ok := m.ownedMemo(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"results": memo})
}

// UpdateMemo edits a memo's date or contents. Edits do not re-trigger reward
// evaluation; only creation counts as activity.
func (m *MemoController) UpdateMemo(ctx *gin.Context) {
	memo, ok := m.ownedMemo(ctx)
	if !ok {
		return
	}

	var req struct {
		Date     string `json:"date"`
		Contents string `json:"contents" binding:"max=500"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
			return
		}
		memo.Date = date
	}
	if strings.TrimSpace(req.Contents) != "" {
		memo.Contents = utils.StripHTML(req.Contents)
	}

	if err := m.db.Save(memo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to update memo")
		return
	}
	utils.Success(ctx, gin.H{"results": memo})
}

// DeleteMemo removes a memo; author only.
func (m *MemoController) DeleteMemo(ctx *gin.Context) {
	memo, ok := m.ownedMemo(ctx)
	if !ok {
		return
	}
	if err := m.db.Delete(memo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to delete memo")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// recordActivity runs the reward coordinator and degrades to a granted:false
// outcome on failure. The triggering write is already committed and must
// never be rolled back on account of the reward path.
func (m *MemoController) recordActivity(userID, projectID uint, kind string) *services.RewardOutcome {
	outcome, err := m.coordinator.RecordActivity(userID, projectID, kind)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("reward evaluation failed: user=%d project=%d kind=%s err=%v",
				userID, projectID, kind, err)
		}
		return &services.RewardOutcome{Granted: false, Message: "reward evaluation unavailable"}
	}
	if outcome.Granted {
		utils.CacheDelete(houseCacheKey(projectID))
	}
	return outcome
}

func (m *MemoController) ownedMemo(ctx *gin.Context) (*models.Memo, bool) {
	memoID, ok := paramID(ctx, "memoId")
	if !ok {
		return nil, false
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return nil, false
	}

	var memo models.Memo
	if err := m.db.First(&memo, memoID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "memo not found")
		return nil, false
	}
	if memo.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "permission denied")
		return nil, false
	}
	return &memo, true
}
