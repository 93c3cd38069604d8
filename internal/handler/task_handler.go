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

// TaskRequest defines the structure for task creation/update requests
type TaskRequest struct {
	ProjectID  uint       `json:"project_id" validate:"required"`
	Title      string     `json:"title" validate:"required"`
	Notes      string     `json:"notes"`
	Status     string     `json:"status"`
	Priority   int        `json:"priority"`
	AssigneeID *uint      `json:"assignee_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	TenantID   *uint      `json:"tenant_id,omitempty"`
}

// CreateTask creates a new task for the current tenant
func CreateTask(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("task", "create")

	var req TaskRequest
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

	tenantID := tenancy.EnsureInsertTenantID(req.TenantID, caller.EffectiveTenantID)
	verdict := tenancy.ValidateInsert(gate.Mode, tenantID, caller.EffectiveTenantID, "task")
	if blocked, err := gate.HandleWriteValidation(c, verdict, "task", ""); blocked {
		return err
	}

	// The parent project must itself be readable under the caller's tenant
	var project model.Project
	if result := database.GetDB().Where("id = ?", req.ProjectID).First(&project); result.Error != nil {
		log.Warn("Parent project not found", zap.Uint("project_id", req.ProjectID))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Project not found",
		})
	}
	projectVerdict := tenancy.ValidateOwnership(gate.Mode, project.TenantID, caller.EffectiveTenantID,
		"project", strconv.FormatUint(uint64(req.ProjectID), 10))
	if rejected, err := gate.HandleReadValidation(c, projectVerdict, "project",
		strconv.FormatUint(uint64(req.ProjectID), 10)); rejected {
		return err
	}

	status := req.Status
	if status == "" {
		status = "open"
	}

	task := model.Task{
		ProjectID:  req.ProjectID,
		Title:      req.Title,
		Notes:      req.Notes,
		Status:     status,
		Priority:   req.Priority,
		TenantID:   tenantID,
		AssigneeID: req.AssigneeID,
		DueDate:    req.DueDate,
		CreatedBy:  caller.UserID,
		UpdatedBy:  caller.UserID,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := database.GetDB().Create(&task)
	if result.Error != nil {
		log.Error("Failed to create task",
			zap.String("title", req.Title),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create task",
		})
	}

	log.Info("Task created successfully",
		zap.Uint("id", task.ID),
		zap.Uint("project_id", task.ProjectID),
		zap.String("title", task.Title))
	return c.JSON(http.StatusCreated, task)
}

// GetTask retrieves a task by ID, subject to the ownership validator
func GetTask(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("task", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid task ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid task ID",
		})
	}

	caller, _ := tenancy.CallerFromEcho(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var task model.Task
	result := database.GetDB().Where("id = ?", id).First(&task)
	if result.Error != nil {
		log.Warn("Task not found", zap.Uint64("task_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Task not found",
		})
	}

	verdict := tenancy.ValidateOwnership(gate.Mode, task.TenantID, caller.EffectiveTenantID,
		"task", strconv.FormatUint(id, 10))
	if rejected, err := gate.HandleReadValidation(c, verdict, "task", strconv.FormatUint(id, 10)); rejected {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// ListTasks retrieves tasks visible to the current tenant
func ListTasks(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("task", "list")

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

	// Filter by project if specified
	if projectID := c.QueryParam("project_id"); projectID != "" {
		if pid, err := strconv.ParseUint(projectID, 10, 32); err == nil {
			query = query.Where("project_id = ?", pid)
		} else {
			log.Warn("Invalid project_id parameter", zap.String("value", projectID))
		}
	}

	// Filter by status if specified
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tasks []model.Task
	result := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&tasks)

	if result.Error != nil {
		log.Error("Failed to retrieve tasks", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve tasks",
		})
	}

	// Count total tasks for pagination info
	var total int64
	query.Model(&model.Task{}).Count(&total)

	return c.JSON(http.StatusOK, echo.Map{
		"tasks": tasks,
		"pagination": echo.Map{
			"current_page": page,
			"limit":        limit,
			"total":        total,
			"total_pages":  (int(total) + limit - 1) / limit,
		},
	})
}

// UpdateTask updates an existing task, subject to the update guard
func UpdateTask(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("task", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid task ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid task ID",
		})
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("task_id", id), zap.Error(err))
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

	// Find existing task and validate tenant ownership
	var task model.Task
	result := database.GetDB().Where("id = ?", id).First(&task)
	if result.Error != nil {
		log.Warn("Task not found for update", zap.Uint64("task_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Task not found",
		})
	}

	verdict := tenancy.ValidateUpdate(gate.Mode, task.TenantID, caller.EffectiveTenantID,
		"task", strconv.FormatUint(id, 10))
	if blocked, err := gate.HandleWriteValidation(c, verdict, "task", strconv.FormatUint(id, 10)); blocked {
		return err
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	// Update task fields
	task.Title = req.Title
	task.Notes = req.Notes
	if req.Status != "" {
		task.Status = req.Status
	}
	task.Priority = req.Priority
	task.AssigneeID = req.AssigneeID
	task.DueDate = req.DueDate
	task.UpdatedBy = caller.UserID
	// TenantID remains unchanged - rows never change tenant ownership

	result = database.GetDB().Save(&task)
	if result.Error != nil {
		log.Error("Failed to update task", zap.Uint64("task_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update task",
		})
	}

	log.Info("Task updated successfully",
		zap.Uint64("task_id", id),
		zap.String("title", task.Title))
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles deleting a task (soft delete), subject to the delete guard
func DeleteTask(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("task", "delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid task ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid task ID",
		})
	}

	caller, _ := tenancy.CallerFromEcho(c)

	// Get task details before deleting and verify tenant ownership
	var task model.Task
	preResult := database.GetDB().Where("id = ?", id).First(&task)
	if preResult.Error != nil {
		log.Warn("Task not found for delete", zap.Uint64("task_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Task not found",
		})
	}

	verdict := tenancy.ValidateDelete(gate.Mode, task.TenantID, caller.EffectiveTenantID,
		"task", strconv.FormatUint(id, 10))
	if blocked, err := gate.HandleWriteValidation(c, verdict, "task", strconv.FormatUint(id, 10)); blocked {
		return err
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := database.GetDB().Delete(&task)
	if result.Error != nil {
		log.Error("Failed to delete task", zap.Uint64("task_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete task",
		})
	}

	log.Info("Task deleted successfully",
		zap.Uint64("task_id", id),
		zap.Int64("rows_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Task deleted successfully",
	})
}
