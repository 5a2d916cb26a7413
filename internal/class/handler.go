package class

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Omarzahran17/gym-flow-sub000/internal/api"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrClassNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
	case errors.Is(err, ErrScheduleNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Schedule not found"})
	case errors.Is(err, ErrTrainerNotFound):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Trainer not found"})
	case errors.Is(err, ErrClassHasSchedules):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Cannot delete a class that still has schedules"})
	case errors.Is(err, storage.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Image storage is not configured"})
	default:
		logger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

// @Summary      Create a class
// @Description  Admin-only: create a class template
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body class.ClassRequest true "Class payload"
// @Success      201 {object} class.Class
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/admin/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req ClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	class, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create class")
		return
	}

	c.JSON(http.StatusCreated, class)
}

// @Summary      Update a class
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Param        request body class.ClassRequest true "Class payload"
// @Success      200 {object} class.Class
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/classes/{classID} [put]
func (h *Handler) UpdateClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	var req ClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	class, err := h.service.UpdateClass(c.Request.Context(), classID, req)
	if err != nil {
		h.writeError(c, err, "Failed to update class")
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary      Delete a class
// @Description  Refused with 409 while the class still has schedules
// @Tags         admin,classes
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/classes/{classID} [delete]
func (h *Handler) DeleteClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	if err := h.service.DeleteClass(c.Request.Context(), classID); err != nil {
		h.writeError(c, err, "Failed to delete class")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Class deleted"})
}

// @Summary      List classes
// @Tags         classes
// @Produce      json
// @Success      200 {object} map[string][]class.Class
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.service.ListClasses(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to fetch classes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

// @Summary      Get a class with its weekly schedules
// @Tags         classes
// @Produce      json
// @Param        classID path int true "Class ID"
// @Success      200 {object} class.ClassWithSchedules
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/classes/{classID} [get]
func (h *Handler) GetClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	class, err := h.service.GetClass(c.Request.Context(), classID)
	if err != nil {
		h.writeError(c, err, "Failed to fetch class")
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary      Add a weekly schedule to a class
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Param        request body class.ScheduleRequest true "Schedule payload"
// @Success      201 {object} class.Schedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/classes/{classID}/schedules [post]
func (h *Handler) AddSchedule(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	var req ScheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	schedule, err := h.service.AddSchedule(c.Request.Context(), classID, req)
	if err != nil {
		h.writeError(c, err, "Failed to create schedule")
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// @Summary      Delete a schedule
// @Description  Bookings for the schedule are removed with it
// @Tags         admin,classes
// @Security     BearerAuth
// @Param        scheduleID path int true "Schedule ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/schedules/{scheduleID} [delete]
func (h *Handler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := strconv.Atoi(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	if err := h.service.DeleteSchedule(c.Request.Context(), scheduleID); err != nil {
		h.writeError(c, err, "Failed to delete schedule")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Schedule deleted"})
}

// @Summary      Request a cover image upload URL
// @Description  Returns a presigned PUT URL; the client uploads the image directly to object storage
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Param        request body class.ImageUploadRequest true "Image content type"
// @Success      200 {object} class.ImageUploadResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /api/admin/classes/{classID}/image [post]
func (h *Handler) RequestImageUpload(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	var req ImageUploadRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.RequestImageUpload(c.Request.Context(), classID, req.ContentType)
	if err != nil {
		h.writeError(c, err, "Failed to create upload URL")
		return
	}

	c.JSON(http.StatusOK, resp)
}
