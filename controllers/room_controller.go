package controllers

import (
	"net/http"
	"strings"

	"breakfast-backend/models"
	"breakfast-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoomController manages the static room inventory that feeds the
// reconciler. Guest data is PMS-owned and has no write surface here.
type RoomController struct {
	db *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{db: db}
}

// GET /api/rooms?property_id=
func (ctl *RoomController) GetRooms(c *gin.Context) {
	propertyID := c.Query("property_id")
	if propertyID == "" {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "property_id is required")
		return
	}

	var rooms []models.Room
	if err := ctl.db.Where("property_id = ?", propertyID).Order("room_number ASC").Find(&rooms).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rooms", err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// POST /api/rooms
func (ctl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload", err.Error())
		return
	}

	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" || room.PropertyID == "" {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "property_id and room_number are required")
		return
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !room.Status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room status")
		return
	}

	var property models.Property
	if err := ctl.db.Where("property_id = ?", room.PropertyID).First(&property).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
		return
	}

	if err := ctl.db.Create(&room).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			utils.JSONError(c, http.StatusConflict, "DUPLICATE_ROOM",
				"Room "+room.RoomNumber+" already exists in property "+room.PropertyID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create room", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, room)
}

// PATCH /api/rooms/:id
func (ctl *RoomController) UpdateRoom(c *gin.Context) {
	id := c.Param("id")

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload", err.Error())
		return
	}

	// Identity and bookkeeping fields are not editable.
	delete(updateData, "id")
	delete(updateData, "property_id")
	delete(updateData, "room_number")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")

	if rawStatus, ok := updateData["status"]; ok {
		status, _ := rawStatus.(string)
		if !models.RoomStatus(status).Valid() {
			utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room status")
			return
		}
	}

	res := ctl.db.Model(&models.Room{}).Where("id = ?", id).Updates(updateData)
	if res.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update room", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
		return
	}

	var room models.Room
	ctl.db.First(&room, id)
	utils.JSONSuccess(c, http.StatusOK, room)
}
