package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Omarzahran17/gym-flow-sub000/internal/api"
	"github.com/Omarzahran17/gym-flow-sub000/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/wallet"

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
	case errors.Is(err, ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "plan not found"})
	case errors.Is(err, ErrPlanInactive):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "plan is not available"})
	case errors.Is(err, ErrMemberNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "member not found"})
	case errors.Is(err, ErrNoActiveSubscription):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no active subscription"})
	case errors.Is(err, ErrSubscriptionConflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrSubscriptionConflict.Error()})
	case errors.Is(err, wallet.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "insufficient wallet balance"})
	case db.IsUniqueViolation(err):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "plan name already exists"})
	default:
		logger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

// @Summary      Subscription usage and limits
// @Description  Plan entitlements with this week's class bookings and today's check-ins
// @Tags         member,subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} subscription.Status
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/member/subscription-status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	status, err := h.service.Status(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to load subscription status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// @Summary      List subscription plans
// @Tags         subscriptions
// @Produce      json
// @Success      200 {object} map[string][]subscription.Plan
// @Router       /api/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load plans")
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// @Summary      Create a subscription plan
// @Description  A limit of 999 or more means unlimited
// @Tags         admin,subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body subscription.CreatePlanRequest true "Plan payload"
// @Success      201 {object} subscription.Plan
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "failed to create plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// @Summary      Buy a subscription plan
// @Description  Charges the member wallet and replaces any active subscription
// @Tags         member,subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body subscription.PurchaseRequest true "Plan to buy"
// @Success      201 {object} subscription.PurchaseResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/member/subscriptions [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req PurchaseRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Purchase(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		writeError(c, err, "failed to create subscription")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Cancel the active subscription
// @Tags         member,subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/member/subscriptions [delete]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID); err != nil {
		writeError(c, err, "failed to cancel subscription")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "subscription cancelled"})
}

// @Summary      Assign a plan to a member
// @Description  Admin-only, no wallet charge
// @Tags         admin,subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        memberID path int true "Member user ID"
// @Param        request body subscription.PurchaseRequest true "Plan to assign"
// @Success      201 {object} subscription.MemberSubscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/members/{memberID}/subscription [post]
func (h *Handler) Assign(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid member ID"})
		return
	}

	var req PurchaseRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Assign(c.Request.Context(), memberID, req.PlanID)
	if err != nil {
		writeError(c, err, "failed to assign subscription")
		return
	}

	c.JSON(http.StatusCreated, sub)
}
