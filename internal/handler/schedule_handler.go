package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/millworks/planboard-api/internal/dto"
	"github.com/millworks/planboard-api/internal/service"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
	"github.com/millworks/planboard-api/pkg/response"
)

// ScheduleHandler exposes the planning board and every slot assignment
// mutation.
type ScheduleHandler struct {
	schedule   *service.ScheduleService
	suggestion *service.SuggestionService
	orders     *service.OrderService
	export     *service.ExportService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedule *service.ScheduleService, suggestion *service.SuggestionService, orders *service.OrderService, export *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, suggestion: suggestion, orders: orders, export: export}
}

// Board returns the schedule board window: assignments annotated for display
// plus the jobs rolled forward by this refresh. Accepts start (date) and
// days (7/14/30) query params; the window snaps to the Monday of start's
// week.
func (h *ScheduleHandler) Board(c *gin.Context) {
	anchor := time.Now().UTC()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start date %q", raw)))
			return
		}
		anchor = parsed
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days must be between 1 and 90"))
			return
		}
		days = parsed
	}

	board, err := h.schedule.Board(c.Request.Context(), anchor, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, nil)
}

// Assign binds an order to a slot.
func (h *ScheduleHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.schedule.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// BulkAssign schedules many orders into one (shift, date) batch.
func (h *ScheduleHandler) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.schedule.BulkAssign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Reslot moves an unlocked assignment to a new slot.
func (h *ScheduleHandler) Reslot(c *gin.Context) {
	var req dto.ReslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	assignment, err := h.schedule.Reslot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Lock freezes an assignment's slot and fulfillment snapshot.
func (h *ScheduleHandler) Lock(c *gin.Context) {
	var req dto.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	assignment, err := h.schedule.Lock(c.Request.Context(), c.Param("id"), req.ChangedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Suggest returns the least-loaded candidate slot for an order.
func (h *ScheduleHandler) Suggest(c *gin.Context) {
	detail, err := h.orders.Get(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.suggestion.Suggest(c.Request.Context(), &detail.Order.Order)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Viewer returns the locked production schedule.
func (h *ScheduleHandler) Viewer(c *gin.Context) {
	views, err := h.schedule.LockedSchedule(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// ExportCSV streams the locked schedule as CSV.
func (h *ScheduleHandler) ExportCSV(c *gin.Context) {
	payload, err := h.export.CSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="production-schedule.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportPDF streams the locked schedule as PDF.
func (h *ScheduleHandler) ExportPDF(c *gin.Context) {
	payload, err := h.export.PDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="production-schedule.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
