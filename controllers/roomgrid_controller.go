package controllers

import (
	"net/http"
	"time"

	"breakfast-backend/middleware"
	"breakfast-backend/models"
	"breakfast-backend/services"
	"breakfast-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomGridController struct {
	grid    *services.RoomGridService
	consume *services.ConsumeService
	sync    *services.SyncService
}

func NewRoomGridController(grid *services.RoomGridService, consume *services.ConsumeService, sync *services.SyncService) *RoomGridController {
	return &RoomGridController{grid: grid, consume: consume, sync: sync}
}

func parseDateQuery(c *gin.Context, key string, def time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+key+" format. Use YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// GET /api/room-grid/:propertyId?date=YYYY-MM-DD
func (ctl *RoomGridController) GetRoomGrid(c *gin.Context) {
	propertyID := c.Param("propertyId")

	// A zero default lets the service resolve today in the property's zone.
	date, ok := parseDateQuery(c, "date", time.Time{})
	if !ok {
		return
	}

	statuses, warnings, err := ctl.grid.ProjectGrid(propertyID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccessWithWarnings(c, http.StatusOK, services.Summarize(statuses), warnings)
}

// POST /api/room-grid/consume
func (ctl *RoomGridController) MarkConsumed(c *gin.Context) {
	staffID, ok := middleware.StaffID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Staff authentication required")
		return
	}

	var req models.MarkConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload", err.Error())
		return
	}

	status, warnings, err := ctl.consume.MarkBreakfastConsumed(c.Request.Context(), req, staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccessWithWarnings(c, http.StatusOK, status, warnings)
}

// POST /api/room-grid/sync/:propertyId?force=true
func (ctl *RoomGridController) SyncFromPMS(c *gin.Context) {
	propertyID := c.Param("propertyId")
	force := c.Query("force") == "true"

	resp, err := ctl.sync.SyncFromPMS(c.Request.Context(), propertyID, force)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, resp)
}

// GET /api/room-grid/status/:propertyId
func (ctl *RoomGridController) GetSyncStatus(c *gin.Context) {
	status, err := ctl.sync.Status(c.Param("propertyId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, status)
}

// GET /api/room-grid/history?property_id=&start_date=&end_date=
func (ctl *RoomGridController) GetHistory(c *gin.Context) {
	propertyID := c.Query("property_id")
	if propertyID == "" {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "property_id is required")
		return
	}

	now := time.Now()
	start, ok := parseDateQuery(c, "start_date", now.AddDate(0, 0, -7))
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date", now)
	if !ok {
		return
	}
	if start.After(end) {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "start_date must not be after end_date")
		return
	}

	history, err := ctl.grid.History(propertyID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"property_id": propertyID,
		"start_date":  start.Format("2006-01-02"),
		"end_date":    end.Format("2006-01-02"),
		"history":     history,
	})
}

// GET /api/room-grid/report/:propertyId?date=
func (ctl *RoomGridController) GetDailyReport(c *gin.Context) {
	date, ok := parseDateQuery(c, "date", time.Time{})
	if !ok {
		return
	}

	report, err := ctl.grid.DailyReport(c.Request.Context(), c.Param("propertyId"), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

// GET /api/room-grid/analytics/:propertyId?period=today|week|month
func (ctl *RoomGridController) GetAnalytics(c *gin.Context) {
	analytics, err := ctl.grid.Analytics(c.Param("propertyId"), c.DefaultQuery("period", "week"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, analytics)
}
