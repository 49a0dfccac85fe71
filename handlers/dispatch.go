package handlers

import (
	"errors"
	"net/http"
	"time"

	"barberremind/models"
	"barberremind/services/dispatch"
	"barberremind/services/tasks"
	"barberremind/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DispatchHandler exposes the reminder dispatch endpoints.
type DispatchHandler struct {
	Service dispatch.DispatchService
	Queue   *asynq.Client
}

func NewDispatchHandler(svc dispatch.DispatchService, queue *asynq.Client) *DispatchHandler {
	return &DispatchHandler{Service: svc, Queue: queue}
}

// DispatchRemindersHandler runs one reminder batch synchronously and
// returns its counts. Individual send failures are reported in the
// counts, never as an endpoint failure.
func (h *DispatchHandler) DispatchRemindersHandler(c *gin.Context) {
	var req models.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	result, err := h.Service.Dispatch(c.Request.Context(), req)
	switch {
	case errors.Is(err, dispatch.ErrMissingParameters):
		utils.JSONError(c, http.StatusBadRequest, "Missing parameters", "shopId and date are required")
		return
	case errors.Is(err, dispatch.ErrDispatchInProgress):
		utils.JSONError(c, http.StatusConflict, "Dispatch in progress", "another batch is running for this shop and date")
		return
	case err != nil:
		utils.GetLogger().Error("Dispatch failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Dispatch failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// ScheduleRemindersHandler enqueues a dispatch batch to run at fireAt
// (RFC 3339). With no fireAt the batch is queued to run immediately.
func (h *DispatchHandler) ScheduleRemindersHandler(c *gin.Context) {
	var input struct {
		ShopID   string `json:"shopId"`
		Date     string `json:"date"`
		Template string `json:"template"`
		FireAt   string `json:"fireAt"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if input.ShopID == "" || input.Date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing parameters", "shopId and date are required")
		return
	}

	fireAt := time.Now()
	if input.FireAt != "" {
		t, err := time.Parse(time.RFC3339, input.FireAt)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid fireAt", "fireAt must be RFC 3339")
			return
		}
		fireAt = t
	}

	task, opts, err := tasks.NewDispatchTask(models.DispatchPayload{
		ShopID:   input.ShopID,
		Date:     input.Date,
		Template: input.Template,
	}, fireAt)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build task", err.Error())
		return
	}

	info, err := h.Queue.EnqueueContext(c.Request.Context(), task, opts...)
	if err != nil {
		utils.GetLogger().Error("Failed to enqueue dispatch task", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to schedule dispatch", err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"taskId":    info.ID,
		"queue":     info.Queue,
		"processAt": fireAt.UTC().Format(time.RFC3339),
	})
}
