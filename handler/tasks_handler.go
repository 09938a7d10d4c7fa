package handler

import (
	"bytes"
	"log"
	"net/http"

	"notetasks/dto"
	"notetasks/model"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

type TasksHandler struct {
	tasksService *usecase.TasksService
}

func NewTasksHandler(tasksService *usecase.TasksService) *TasksHandler {
	return &TasksHandler{tasksService: tasksService}
}

func taskFilterFromQuery(c *gin.Context) model.TaskFilter {
	return model.TaskFilter{
		Status:   model.TaskStatus(c.Query("status")),
		Subject:  c.Query("subject"),
		Category: model.Category(c.Query("category")),
	}
}

func (h *TasksHandler) ListTasks(c *gin.Context) {
	tasks, err := h.tasksService.ListTasks(c.Request.Context(), taskFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, tasks)
}

func (h *TasksHandler) GetTask(c *gin.Context) {
	task, err := h.tasksService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, task)
}

func (h *TasksHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, dto.BindingErrorMessage(err))
		return
	}
	input, err := req.Input()
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasksService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, task)
}

func (h *TasksHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, dto.BindingErrorMessage(err))
		return
	}
	patch, err := req.Patch()
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasksService.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, "Task updated successfully", task)
}

func (h *TasksHandler) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if err := h.tasksService.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, "Task deleted successfully", gin.H{"id": taskID})
}

// ExportTasks serves the filtered tasks as JSON or as a CSV download
func (h *TasksHandler) ExportTasks(c *gin.Context) {
	format, tasks, err := h.tasksService.ExportTasks(c.Request.Context(), c.Param("format"), taskFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if format == usecase.ExportJSON {
		utils.Success(c, tasks)
		return
	}

	var buf bytes.Buffer
	if err := usecase.WriteTasksCSV(&buf, tasks); err != nil {
		log.Printf("Error writing CSV export: %v", err)
		utils.InternalError(c, "Server error")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=tasks.csv")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
