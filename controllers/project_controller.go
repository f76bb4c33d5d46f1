package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamlog/logcabin/config"
	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/services"
	"github.com/teamlog/logcabin/utils"
)

// ProjectController manages projects, team membership, and the log house views.
type ProjectController struct {
	db         *gorm.DB
	roster     *services.TeamRoster
	aggregator *services.ProgressAggregator
}

// NewProjectController creates a new controller instance.
func NewProjectController(db *gorm.DB, roster *services.TeamRoster, aggregator *services.ProgressAggregator) *ProjectController {
	return &ProjectController{db: db, roster: roster, aggregator: aggregator}
}

const dateLayout = "2006-01-02"

// CreateProject creates a project along with its Admin membership and a
// zeroed log house.
func (p *ProjectController) CreateProject(ctx *gin.Context) {
	var req struct {
		ProjectName string `json:"project_name" binding:"required,max=100"`
		DateStart   string `json:"date_start" binding:"required"`
		DateEnd     string `json:"date_end" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	start, err := time.Parse(dateLayout, req.DateStart)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "date_start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.DateEnd)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "date_end must be YYYY-MM-DD")
		return
	}
	if err := services.ValidateProjectDates(start, end); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "start date cannot be after end date")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cfg := config.Get()
	project := models.Project{
		Name:      strings.TrimSpace(req.ProjectName),
		DateStart: start,
		DateEnd:   end,
		OwnerID:   userID,
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		code, err := uniqueInviteCode(tx)
		if err != nil {
			return err
		}
		project.InviteCode = code

		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.TeamMember{
			UserID:    userID,
			ProjectID: project.ID,
			Role:      models.RoleAdmin,
			JoinedAt:  time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		house := models.ProjectHouse{
			ProjectID:       project.ID,
			DifficultyRatio: cfg.DifficultyRatio,
		}
		return tx.Create(&house).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to create project")
		return
	}

	utils.Created(ctx, gin.H{"results": project})
}

// ListProjects returns all projects newest first.
func (p *ProjectController) ListProjects(ctx *gin.Context) {
	var projects []models.Project
	if err := p.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list projects")
		return
	}
	utils.Success(ctx, gin.H{"results": projects})
}

// GetProject returns one project; only the owner may view the detail.
func (p *ProjectController) GetProject(ctx *gin.Context) {
	project, ok := p.ownedProject(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"results": project})
}

// UpdateProject modifies the name and date range; owner only.
func (p *ProjectController) UpdateProject(ctx *gin.Context) {
	project, ok := p.ownedProject(ctx)
	if !ok {
		return
	}

	var req struct {
		ProjectName string `json:"project_name"`
		DateStart   string `json:"date_start"`
		DateEnd     string `json:"date_end"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	if req.ProjectName != "" {
		project.Name = strings.TrimSpace(req.ProjectName)
	}
	start, end := project.DateStart, project.DateEnd
	if req.DateStart != "" {
		parsed, err := time.Parse(dateLayout, req.DateStart)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40011, "date_start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if req.DateEnd != "" {
		parsed, err := time.Parse(dateLayout, req.DateEnd)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40011, "date_end must be YYYY-MM-DD")
			return
		}
		end = parsed
	}
	if err := services.ValidateProjectDates(start, end); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "start date cannot be after end date")
		return
	}
	project.DateStart, project.DateEnd = start, end

	if err := p.db.Save(project).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to update project")
		return
	}
	utils.CacheDelete(houseCacheKey(project.ID))
	utils.Success(ctx, gin.H{"results": project})
}

// DeleteProject removes a project; owner only.
func (p *ProjectController) DeleteProject(ctx *gin.Context) {
	project, ok := p.ownedProject(ctx)
	if !ok {
		return
	}
	if err := p.db.Delete(project).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to delete project")
		return
	}
	utils.CacheDelete(houseCacheKey(project.ID))
	ctx.Status(http.StatusNoContent)
}

// JoinByInvite adds the authenticated user to a project as Member via invite code.
func (p *ProjectController) JoinByInvite(ctx *gin.Context) {
	var req struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invite_code is required")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var project models.Project
	if err := p.db.Where("invite_code = ?", strings.TrimSpace(req.InviteCode)).First(&project).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "invite code not found")
		return
	}

	member, err := p.roster.Join(userID, project.ID, models.RoleMember)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyMember):
			utils.Error(ctx, http.StatusBadRequest, 40014, "already a member of this project")
		case errors.Is(err, services.ErrConstraintViolation):
			utils.Error(ctx, http.StatusBadRequest, 40015, "project team is full")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to join project")
		}
		return
	}

	// A new member raises the house target; drop the stale snapshot.
	utils.CacheDelete(houseCacheKey(project.ID))

	utils.Created(ctx, gin.H{
		"message":     fmt.Sprintf("joined project %q", project.Name),
		"team_member": member,
	})
}

// ListTeamMembers returns a project's memberships.
func (p *ProjectController) ListTeamMembers(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var members []models.TeamMember
	if err := p.db.Where("project_id = ?", projectID).Order("joined_at ASC").Find(&members).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to list team members")
		return
	}
	utils.Success(ctx, gin.H{"results": members})
}

// GetHouse refreshes and returns the project's progress snapshot. The
// refreshed snapshot is cached until the next grant or membership change.
func (p *ProjectController) GetHouse(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	cacheKey := houseCacheKey(projectID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	snapshot, err := p.aggregator.Refresh(projectID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to refresh house")
		return
	}

	resp := utils.JSONResponse{Code: 0, Message: "success", Data: snapshot}
	utils.CacheSetJSON(cacheKey, resp, 0)
	utils.Success(ctx, snapshot)
}

// GetContribution returns per-member contribution records for a project.
func (p *ProjectController) GetContribution(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	contributions, err := p.aggregator.Contribution(projectID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to compute contributions")
		return
	}
	utils.Success(ctx, gin.H{"results": contributions})
}

func (p *ProjectController) ownedProject(ctx *gin.Context) (*models.Project, bool) {
	projectID, ok := paramID(ctx, "id")
	if !ok {
		return nil, false
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return nil, false
	}

	var project models.Project
	if err := p.db.First(&project, projectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "project not found")
		return nil, false
	}
	if project.OwnerID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "permission denied")
		return nil, false
	}
	return &project, true
}

func houseCacheKey(projectID uint) string {
	return "cache:project:" + strconv.Itoa(int(projectID)) + ":house"
}

// uniqueInviteCode draws uuid hex prefixes until one is free; collisions on
// ten hex chars are rare enough that the loop almost never repeats.
func uniqueInviteCode(tx *gorm.DB) (string, error) {
	for i := 0; i < 10; i++ {
		code := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
		var count int64
		if err := tx.Model(&models.Project{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique invite code")
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
