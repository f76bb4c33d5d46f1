package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
	"github.com/teamlog/logcabin/utils"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TaggingController manages tag styles and taggings. Completing a tagging on
// a memo reports a TAGGING_BATCH_COMPLETE activity so the coordinator can
// check whether every memo of the day is now covered.
type TaggingController struct {
	db          *gorm.DB
	coordinator *services.RewardCoordinator
}

// NewTaggingController creates a new controller instance.
func NewTaggingController(db *gorm.DB, coordinator *services.RewardCoordinator) *TaggingController {
	return &TaggingController{db: db, coordinator: coordinator}
}

// CreateTagStyle adds a tag style to a project; project owner only.
func (t *TaggingController) CreateTagStyle(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var project models.Project
	if err := t.db.First(&project, projectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return
	}
	if project.OwnerID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "only the project owner can manage tag styles")
		return
	}

	var req struct {
		TagDetail string `json:"tag_detail" binding:"required,max=20"`
		TagColor  string `json:"tag_color" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	if !hexColorPattern.MatchString(req.TagColor) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "tag_color must be a hex color like #AABBCC")
		return
	}

	style := models.TagStyle{
		ProjectID: projectID,
		TagDetail: strings.TrimSpace(req.TagDetail),
		TagColor:  req.TagColor,
	}
	if err := t.db.Create(&style).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "tag style detail or color already used in this project")
		return
	}
	utils.Created(ctx, gin.H{"results": style})
}

// DeleteTagStyle removes a tag style; project owner only.
func (t *TaggingController) DeleteTagStyle(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	styleID, ok := paramID(ctx, "styleId")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var project models.Project
	if err := t.db.First(&project, projectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return
	}
	if project.OwnerID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "only the project owner can manage tag styles")
		return
	}

	result := t.db.Where("project_id = ?", projectID).Delete(&models.TagStyle{}, styleID)
	if result.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to delete tag style")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40405, "tag style not found")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateTagging annotates a memo and triggers reward evaluation.
func (t *TaggingController) CreateTagging(ctx *gin.Context) {
	memoID, ok := paramID(ctx, "memoId")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var memo models.Memo
	if err := t.db.First(&memo, memoID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "memo not found")
		return
	}
	if memo.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "permission denied")
		return
	}

	var req struct {
		TagStyleID  uint   `json:"tag_style" binding:"required"`
		TagContents string `json:"tag_contents" binding:"required,max=500"`
		OffsetStart uint   `json:"offset_start"`
		OffsetEnd   uint   `json:"offset_end"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid request payload")
		return
	}
	if req.OffsetStart > req.OffsetEnd {
		utils.Error(ctx, http.StatusBadRequest, 40053, "offset_start cannot exceed offset_end")
		return
	}

	var style models.TagStyle
	if err := t.db.First(&style, req.TagStyleID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "tag style not found")
		return
	}

	tagging := models.Tagging{
		TagStyleID:  style.ID,
		UserID:      userID,
		MemoID:      memo.ID,
		TagContents: utils.StripHTML(req.TagContents),
		OffsetStart: req.OffsetStart,
		OffsetEnd:   req.OffsetEnd,
	}
	if err := t.db.Create(&tagging).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create tagging")
		return
	}

	reward := t.recordActivity(userID, memo.ProjectID)
	utils.Created(ctx, gin.H{"results": tagging, "reward": reward})
}

// ListMemoTaggings returns a memo's taggings in creation order; memo author only.
func (t *TaggingController) ListMemoTaggings(ctx *gin.Context) {
	memoID, ok := paramID(ctx, "memoId")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var memo models.Memo
	if err := t.db.First(&memo, memoID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "memo not found")
		return
	}
	if memo.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "permission denied")
		return
	}

	var taggings []models.Tagging
	if err := t.db.Where("memo_id = ?", memoID).Order("created_at ASC").Find(&taggings).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list taggings")
		return
	}
	utils.Success(ctx, gin.H{"results": taggings})
}

// ListProjectTaggings returns the user's taggings in a project grouped by tag
// style, first-seen style order preserved.
func (t *TaggingController) ListProjectTaggings(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var project models.Project
	if err := t.db.First(&project, projectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return
	}

	var taggings []models.Tagging
	err := t.db.Preload("TagStyle").
		Joins("JOIN memos ON memos.id = taggings.memo_id").
		Where("taggings.user_id = ? AND memos.project_id = ?", userID, projectID).
		Order("taggings.created_at ASC").
		Find(&taggings).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list taggings")
		return
	}

	utils.Success(ctx, gin.H{
		"project_id":   project.ID,
		"project_name": project.Name,
		"categories":   services.GroupTaggingsByStyle(taggings),
	})
}

// UpdateTagging edits a tagging; author only. Edits do not re-trigger rewards.
func (t *TaggingController) UpdateTagging(ctx *gin.Context) {
	tagging, ok := t.ownedTagging(ctx)
	if !ok {
		return
	}

	var req struct {
		TagContents string `json:"tag_contents" binding:"max=500"`
		OffsetStart *uint  `json:"offset_start"`
		OffsetEnd   *uint  `json:"offset_end"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid request payload")
		return
	}

	start, end := tagging.OffsetStart, tagging.OffsetEnd
	if req.OffsetStart != nil {
		start = *req.OffsetStart
	}
	if req.OffsetEnd != nil {
		end = *req.OffsetEnd
	}
	if start > end {
		utils.Error(ctx, http.StatusBadRequest, 40053, "offset_start cannot exceed offset_end")
		return
	}
	tagging.OffsetStart, tagging.OffsetEnd = start, end
	if strings.TrimSpace(req.TagContents) != "" {
		tagging.TagContents = utils.StripHTML(req.TagContents)
	}

	if err := t.db.Save(tagging).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to update tagging")
		return
	}
	utils.Success(ctx, gin.H{"results": tagging})
}

// DeleteTagging removes a tagging; author only.
func (t *TaggingController) DeleteTagging(ctx *gin.Context) {
	tagging, ok := t.ownedTagging(ctx)
	if !ok {
		return
	}
	if err := t.db.Delete(tagging).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to delete tagging")
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (t *TaggingController) recordActivity(userID, projectID uint) *services.RewardOutcome {
	outcome, err := t.coordinator.RecordActivity(userID, projectID, services.ActivityTaggingBatchComplete)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("reward evaluation failed: user=%d project=%d kind=%s err=%v",
				userID, projectID, services.ActivityTaggingBatchComplete, err)
		}
		return &services.RewardOutcome{Granted: false, Message: "reward evaluation unavailable"}
	}
	if outcome.Granted {
		utils.CacheDelete(houseCacheKey(projectID))
	}
	return outcome
}

func (t *TaggingController) ownedTagging(ctx *gin.Context) (*models.Tagging, bool) {
	taggingID, ok := paramID(ctx, "taggingId")
	if !ok {
		return nil, false
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return nil, false
	}

	var tagging models.Tagging
	if err := t.db.First(&tagging, taggingID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40406, "tagging not found")
		return nil, false
	}
	if tagging.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "permission denied")
		return nil, false
	}
	return &tagging, true
}
