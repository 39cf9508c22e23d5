package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goodsgo/internal/logger"
	"goodsgo/internal/models"
	"goodsgo/internal/pdf"
	"goodsgo/internal/repositories"
	"goodsgo/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	sheets  *pdf.SheetGenerator
	log     *logger.Logger
	now     func() time.Time
}

func NewTaskHandler(service services.TaskService, sheets *pdf.SheetGenerator, log *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, sheets: sheets, log: log, now: time.Now}
}

type taskListResponse struct {
	models.AdminTaskListPageData
	FilterTags []models.FilterTag `json:"filterTags"`
	// Canonical is the normalized query string of the current view.
	Canonical string `json:"canonical"`
}

// @Summary      Task list
// @Description  Filtered and sorted tasks with picker options
// @Tags         Tasks
// @Produce      json
// @Param        day             query  string  false  "all|0|1|2"
// @Param        status          query  string  false  "all|0|1|2"
// @Param        itemId          query  string  false  "item id"
// @Param        leaderUserId    query  string  false  "leader id"
// @Param        fromLocationId  query  string  false  "from location id"
// @Param        toLocationId    query  string  false  "to location id"
// @Param        sortKey         query  string  false  "status|itemAndQuantity|scheduledStartTime"
// @Param        sortDirection   query  string  false  "asc|desc"
// @Success      200  {object}  taskListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/admin/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	query := models.ParseTaskListQuery(c.Request.URL.Query())

	data, err := h.service.GetAdminTaskListPageData(c.Request.Context(), user, query)
	if err != nil {
		if writeAuthError(c, err) {
			return
		}
		h.log.ErrorContext(c.Request.Context(), "[task][list] load failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, taskListResponse{
		AdminTaskListPageData: *data,
		FilterTags:            services.DescribeFilters(query.Filters, data.FilterOptions),
		Canonical:             query.Encode(),
	})
}

// @Summary      Task form
// @Description  Initial values of the create or edit dialog
// @Tags         Tasks
// @Produce      json
// @Param        mode    query  string  false  "create|edit"
// @Param        taskId  query  string  false  "task id for edit"
// @Success      200  {object}  models.TaskFormState
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/tasks/form [get]
func (h *TaskHandler) Form(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	mode := models.TaskFormMode(c.Query("mode"))
	state, err := h.service.GetTaskForm(c.Request.Context(), user, mode, c.Query("taskId"))
	if err != nil {
		if writeAuthError(c, err) {
			return
		}
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "[task][form] load failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load task"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// @Summary      Run sheet
// @Description  The filtered task list as an A4 landscape PDF
// @Tags         Tasks
// @Produce      application/pdf
// @Success      200
// @Router       /api/admin/tasks/export.pdf [get]
func (h *TaskHandler) ExportPDF(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	query := models.ParseTaskListQuery(c.Request.URL.Query())

	data, err := h.service.GetAdminTaskListPageData(c.Request.Context(), user, query)
	if err != nil {
		if writeAuthError(c, err) {
			return
		}
		h.log.ErrorContext(c.Request.Context(), "[task][export] load failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}

	var buf bytes.Buffer
	err = h.sheets.Write(&buf, pdf.RunSheet{
		Title:       "物品搬送タスク一覧",
		GeneratedAt: h.now(),
		Filters:     services.DescribeFilters(query.Filters, data.FilterOptions),
		Tasks:       data.Tasks,
	})
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "[task][export] render failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf"})
		return
	}
	h.log.InfoContext(c.Request.Context(), "[task][export] ok", "tasks", len(data.Tasks), "bytes", buf.Len())
	c.Header("Content-Disposition", `attachment; filename="tasks.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary      Task by id
// @Description  Returns the task even when it has been deleted, with its history
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "task id"
// @Success      200  {object}  models.TaskDetail
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	detail, err := h.service.GetTaskDetail(c.Request.Context(), user, id)
	if err != nil {
		if writeAuthError(c, err) {
			return
		}
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "[task][get] load failed", "task_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary      Create task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        task  body      models.TaskInput  true  "task fields"
// @Success      201   {object}  models.ActionResult
// @Failure      400   {object}  models.ActionResult
// @Failure      422   {object}  models.ActionResult
// @Failure      500   {object}  models.ActionResult
// @Router       /api/admin/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.DebugContext(c.Request.Context(), "[task][create][bind] failed", "err", err)
		writeBindError(c, err, input)
		return
	}
	result, err := h.service.Create(c.Request.Context(), user, input)
	if err != nil {
		if !writeAuthError(c, err) {
			c.JSON(http.StatusInternalServerError, models.Failed(err.Error()))
		}
		return
	}
	c.JSON(actionStatus(result, http.StatusCreated), result)
}

// @Summary      Update task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "task id"
// @Param        task  body      models.TaskInput  true  "task fields"
// @Success      200   {object}  models.ActionResult
// @Failure      400   {object}  models.ActionResult
// @Failure      422   {object}  models.ActionResult
// @Failure      500   {object}  models.ActionResult
// @Router       /api/admin/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.DebugContext(c.Request.Context(), "[task][update][bind] failed", "err", err)
		writeBindError(c, err, input)
		return
	}
	result, err := h.service.Update(c.Request.Context(), user, c.Param("id"), input)
	if err != nil {
		if !writeAuthError(c, err) {
			c.JSON(http.StatusInternalServerError, models.Failed(err.Error()))
		}
		return
	}
	c.JSON(actionStatus(result, http.StatusOK), result)
}

// @Summary      Delete task
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "task id"
// @Success      200  {object}  models.ActionResult
// @Failure      400  {object}  models.ActionResult
// @Router       /api/admin/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	result, err := h.service.Delete(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		if !writeAuthError(c, err) {
			c.JSON(http.StatusInternalServerError, models.Failed(err.Error()))
		}
		return
	}
	c.JSON(actionStatus(result, http.StatusOK), result)
}
