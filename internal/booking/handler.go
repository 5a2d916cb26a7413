package booking

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"github.com/Omarzahran17/gym-flow-sub000/internal/api"
	"github.com/Omarzahran17/gym-flow-sub000/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"
	"github.com/Omarzahran17/gym-flow-sub000/internal/class"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, ErrPastDate),
		errors.Is(err, ErrWrongDay),
		errors.Is(err, ErrInvalidGroupBy),
		errors.Is(err, ErrInvalidRange):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrSubscriptionRequired):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ErrSubscriptionRequired.Error()})
	case errors.Is(err, ErrSubscriptionEnds):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ErrSubscriptionEnds.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ErrForbidden.Error()})
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: ErrBookingNotFound.Error()})
	case errors.Is(err, class.ErrScheduleNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "schedule not found"})
	case errors.Is(err, ErrWeeklyLimitReached):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrWeeklyLimitReached.Error()})
	case errors.Is(err, ErrClassFull):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrClassFull.Error()})
	case errors.Is(err, ErrAlreadyBooked):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrAlreadyBooked.Error()})
	default:
		logger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

func requester(c *gin.Context) (Requester, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		return Requester{}, false
	}
	role, _ := auth.GetUserRole(c)
	return Requester{UserID: userID, Role: role}, true
}

// @Summary      Weekly class schedule
// @Description  Every schedule in the week with occupancy. With a member token, isBooked reflects the caller's bookings.
// @Tags         classes
// @Produce      json
// @Param        weekStart query string false "Any date in the wanted week (YYYY-MM-DD), defaults to this week"
// @Success      200 {object} booking.WeekSchedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/classes/schedule [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	viewerID, _ := auth.GetUserID(c)

	schedule, err := h.service.WeekSchedule(c.Request.Context(), viewerID, c.Query("weekStart"))
	if err != nil {
		writeError(c, err, "failed to load schedule")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// @Summary      My class bookings
// @Description  Confirmed bookings from the start of the current week
// @Tags         member,bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} map[string][]booking.BookingWithSchedule
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/member/class-bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	bookings, err := h.service.ListMemberBookings(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// @Summary      Book a class
// @Tags         member,bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body booking.CreateBookingRequest true "Schedule and date"
// @Success      201 {object} map[string]booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse "subscription required"
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse "class full, weekly limit reached or already booked"
// @Router       /api/member/class-bookings [post]
func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err, "failed to book class")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// @Summary      Cancel my booking
// @Tags         member,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id query int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/member/class-bookings [delete]
func (h *Handler) CancelMine(c *gin.Context) {
	h.cancel(c, c.Query("id"))
}

// @Summary      Cancel a booking as staff
// @Description  Admins cancel any booking, trainers only bookings of their own classes
// @Tags         trainer,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/trainer/class-bookings/{bookingID} [delete]
func (h *Handler) CancelAsStaff(c *gin.Context) {
	h.cancel(c, c.Param("bookingID"))
}

func (h *Handler) cancel(c *gin.Context, rawID string) {
	by, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	bookingID, err := strconv.Atoi(rawID)
	if err != nil || bookingID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid booking ID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), bookingID, by); err != nil {
		writeError(c, err, "failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "booking cancelled"})
}

// @Summary      Bookings for a class occurrence
// @Tags         trainer,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        scheduleID path int true "Schedule ID"
// @Param        date query string true "Occurrence date (YYYY-MM-DD)"
// @Success      200 {object} map[string][]booking.BookingWithMember
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/trainer/schedules/{scheduleID}/bookings [get]
func (h *Handler) ListOccurrence(c *gin.Context) {
	by, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	scheduleID, err := strconv.Atoi(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid schedule ID"})
		return
	}

	bookings, err := h.service.ListOccurrenceBookings(c.Request.Context(), scheduleID, c.Query("date"), by)
	if err != nil {
		writeError(c, err, "failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// @Summary      Booking report
// @Tags         admin,reports
// @Security     BearerAuth
// @Produce      json,text/csv
// @Param        from query string false "First date (YYYY-MM-DD), defaults to 30 days before to"
// @Param        to query string false "Last date (YYYY-MM-DD), defaults to today"
// @Param        group_by query string false "day or class" Enums(day, class)
// @Param        format query string false "json or csv" Enums(json, csv)
// @Success      200 {object} booking.Report
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/admin/reports/bookings [get]
func (h *Handler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), c.Query("from"), c.Query("to"), c.Query("group_by"))
	if err != nil {
		writeError(c, err, "failed to build report")
		return
	}

	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, report)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=bookings_"+report.From+"_"+report.To+".csv")
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{report.GroupBy, "label", "bookings"})
	for _, r := range report.Rows {
		_ = w.Write([]string{r.Key, r.Label, strconv.Itoa(r.Count)})
	}
	_ = w.Write([]string{"total", "", strconv.Itoa(report.Total)})
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Errorf("write booking report csv: %v", err)
	}
}
