package attendance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Omarzahran17/gym-flow-sub000/internal/api"
	"github.com/Omarzahran17/gym-flow-sub000/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "member not found"})
	case errors.Is(err, ErrMemberInactive):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ErrMemberInactive.Error()})
	case errors.Is(err, ErrSubscriptionRequired):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ErrSubscriptionRequired.Error()})
	case errors.Is(err, ErrDailyLimitReached):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrDailyLimitReached.Error()})
	default:
		logger.Errorf("check-in failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to check in"})
	}
}

// @Summary      Check in at the gym
// @Description  Requires an active subscription with check-ins left today
// @Tags         member,attendance
// @Security     BearerAuth
// @Produce      json
// @Success      201 {object} attendance.CheckInResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/member/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Check a member in by QR code
// @Tags         trainer,attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body attendance.QRCheckInRequest true "Scanned code"
// @Success      201 {object} attendance.CheckInResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/trainer/check-in [post]
func (h *Handler) CheckInByQR(c *gin.Context) {
	staffID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req QRCheckInRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.CheckInByQR(c.Request.Context(), staffID, req.QRCode)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Recent check-ins
// @Tags         member,attendance
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Max rows (default 30, max 100)"
// @Success      200 {object} map[string][]attendance.Attendance
// @Router       /api/member/attendance [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit > 100 {
		limit = 100
	}

	records, err := h.service.ListForMember(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Errorf("list attendance for member %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": records})
}
