package handler

import (
	"net/http"
	"strconv"
	"time"

	"project-service/internal/model"
	"project-service/internal/tenancy"
	"project-service/pkg/database"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProjectRequest defines the structure for project creation/update requests
type ProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	TenantID    *uint  `json:"tenant_id,omitempty"`
}

// CreateProject creates a new project for the current tenant
func CreateProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("project", "create")

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	caller, ok := tenancy.CallerFromEcho(c)
	if !ok {
		log.Error("Failed to get caller context")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "authentication required",
		})
	}

	// Resolve the tenant id to stamp on the new row, then let the insert
	// guard decide whether the create may proceed.
	tenantID := tenancy.EnsureInsertTenantID(req.TenantID, caller.EffectiveTenantID)
	verdict := tenancy.ValidateInsert(gate.Mode, tenantID, caller.EffectiveTenantID, "project")
	if blocked, err := gate.HandleWriteValidation(c, verdict, "project", ""); blocked {
		return err
	}

	log.Info("Project creation request", zap.String("name", req.Name))

	status := req.Status
	if status == "" {
		status = "active"
	}

	project := model.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		TenantID:    tenantID,
		OwnerID:     caller.UserID,
		CreatedBy:   caller.UserID,
		UpdatedBy:   caller.UserID,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := database.GetDB().Create(&project)
	if result.Error != nil {
		log.Error("Failed to create project",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create project",
		})
	}

	log.Info("Project created successfully",
		zap.Uint("id", project.ID),
		zap.String("name", project.Name))
	return c.JSON(http.StatusCreated, project)
}

// GetProject retrieves a project by ID, subject to the ownership validator
func GetProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("project", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid project ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid project ID",
		})
	}

	caller, _ := tenancy.CallerFromEcho(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var project model.Project
	result := database.GetDB().Where("id = ?", id).First(&project)
	if result.Error != nil {
		log.Warn("Project not found", zap.Uint64("project_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Project not found",
		})
	}

	verdict := tenancy.ValidateOwnership(gate.Mode, project.TenantID, caller.EffectiveTenantID,
		"project", strconv.FormatUint(id, 10))
	if rejected, err := gate.HandleReadValidation(c, verdict, "project", strconv.FormatUint(id, 10)); rejected {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// ListProjects retrieves projects visible to the current tenant
func ListProjects(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("project", "list")

	caller, _ := tenancy.CallerFromEcho(c)

	// Parse query parameters for pagination
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}

	offset := (page - 1) * limit

	query := tenantScope(caller, database.GetDB())

	// Filter by status if specified
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var projects []model.Project
	result := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&projects)

	if result.Error != nil {
		log.Error("Failed to retrieve projects", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve projects",
		})
	}

	// Count total projects for pagination info
	var total int64
	query.Model(&model.Project{}).Count(&total)

	log.Info("Projects retrieved successfully",
		zap.Int("count", len(projects)),
		zap.Int64("total", total))

	return c.JSON(http.StatusOK, echo.Map{
		"projects": projects,
		"pagination": echo.Map{
			"current_page": page,
			"limit":        limit,
			"total":        total,
			"total_pages":  (int(total) + limit - 1) / limit,
		},
	})
}

// UpdateProject updates an existing project, subject to the update guard
func UpdateProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("project", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid project ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid project ID",
		})
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("project_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	caller, ok := tenancy.CallerFromEcho(c)
	if !ok {
		log.Error("Failed to get caller context")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "authentication required",
		})
	}

	// Find existing project and validate tenant ownership
	var project model.Project
	result := database.GetDB().Where("id = ?", id).First(&project)
	if result.Error != nil {
		log.Warn("Project not found for update", zap.Uint64("project_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Project not found",
		})
	}

	verdict := tenancy.ValidateUpdate(gate.Mode, project.TenantID, caller.EffectiveTenantID,
		"project", strconv.FormatUint(id, 10))
	if blocked, err := gate.HandleWriteValidation(c, verdict, "project", strconv.FormatUint(id, 10)); blocked {
		return err
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	// Update project fields
	project.Name = req.Name
	project.Description = req.Description
	if req.Status != "" {
		project.Status = req.Status
	}
	project.UpdatedBy = caller.UserID
	// TenantID remains unchanged - rows never change tenant ownership

	result = database.GetDB().Save(&project)
	if result.Error != nil {
		log.Error("Failed to update project", zap.Uint64("project_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update project",
		})
	}

	log.Info("Project updated successfully",
		zap.Uint64("project_id", id),
		zap.String("name", project.Name))
	return c.JSON(http.StatusOK, project)
}

// DeleteProject handles deleting a project (soft delete), subject to the delete guard
func DeleteProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("project", "delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid project ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid project ID",
		})
	}

	caller, _ := tenancy.CallerFromEcho(c)

	// Get project details before deleting and verify tenant ownership
	var project model.Project
	preResult := database.GetDB().Where("id = ?", id).First(&project)
	if preResult.Error != nil {
		log.Warn("Project not found for delete", zap.Uint64("project_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Project not found",
		})
	}

	verdict := tenancy.ValidateDelete(gate.Mode, project.TenantID, caller.EffectiveTenantID,
		"project", strconv.FormatUint(id, 10))
	if blocked, err := gate.HandleWriteValidation(c, verdict, "project", strconv.FormatUint(id, 10)); blocked {
		return err
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := database.GetDB().Delete(&project)
	if result.Error != nil {
		log.Error("Failed to delete project", zap.Uint64("project_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete project",
		})
	}

	log.Info("Project deleted successfully",
		zap.Uint64("project_id", id),
		zap.Int64("rows_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Project deleted successfully",
	})
}
