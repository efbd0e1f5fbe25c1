package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/millworks/planboard-api/internal/models"
	"github.com/millworks/planboard-api/internal/service"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
	"github.com/millworks/planboard-api/pkg/response"
)

// CapacityHandler exposes capacity rules and utilization snapshots.
type CapacityHandler struct {
	service *service.CapacityService
}

// NewCapacityHandler constructs handler.
func NewCapacityHandler(svc *service.CapacityService) *CapacityHandler {
	return &CapacityHandler{service: svc}
}

// Rules lists the active capacity rules.
func (h *CapacityHandler) Rules(c *gin.Context) {
	rules, err := h.service.Rules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Utilization returns the snapshot for one (plant, shift, date) slot.
func (h *CapacityHandler) Utilization(c *gin.Context) {
	plant, ok := models.ParsePlant(c.Query("plant"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown plant %q", c.Query("plant"))))
		return
	}
	shift, ok := models.ParseShift(c.Query("shift"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown shift %q", c.Query("shift"))))
		return
	}
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.UTC)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", c.Query("date"))))
		return
	}

	snap, err := h.service.Utilization(c.Request.Context(), plant, shift, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap, nil)
}

// Grid returns snapshots for every slot in a date window, for the board's
// utilization overlay.
func (h *CapacityHandler) Grid(c *gin.Context) {
	start := time.Now().UTC()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start date %q", raw)))
			return
		}
		start = parsed
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

	snapshots, err := h.service.BoardUtilization(c.Request.Context(), start, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshots, nil)
}
