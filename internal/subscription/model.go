package subscription

import (
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"

	"github.com/lib/pq"
)

// UnlimitedSentinel in a plan limit means the limit never blocks.
const UnlimitedSentinel = 999

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"

	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

func IsUnlimited(limit int) bool {
	return limit >= UnlimitedSentinel
}

type Plan struct {
	ID                int            `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	Description       string         `db:"description" json:"description"`
	PriceCents        int64          `db:"price_cents" json:"priceCents"`
	Interval          string         `db:"billing_interval" json:"interval"`
	Tier              string         `db:"tier" json:"tier"`
	MaxClassesPerWeek int            `db:"max_classes_per_week" json:"maxClassesPerWeek"`
	MaxCheckInsPerDay int            `db:"max_check_ins_per_day" json:"maxCheckInsPerDay"`
	Features          pq.StringArray `db:"features" json:"features"`
	IsActive          bool           `db:"is_active" json:"isActive"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}

// PeriodEnd returns when a subscription to p started at start runs out.
func (p Plan) PeriodEnd(start time.Time) time.Time {
	if p.Interval == IntervalYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

type MemberSubscription struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"memberId"`
	PlanID    int       `db:"plan_id" json:"planId"`
	Status    string    `db:"status" json:"status"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ActiveSubscription is a member's current subscription with its plan.
type ActiveSubscription struct {
	MemberSubscription
	Plan Plan `db:"plan"`
}

type Usage struct {
	ClassesThisWeek int `json:"classesThisWeek"`
	CheckInsToday   int `json:"checkInsToday"`
}

type Limits struct {
	ClassesRemaining int  `json:"classesRemaining"`
	CanCheckIn       bool `json:"canCheckIn"`
}

type Status struct {
	HasSubscription bool                `json:"hasSubscription"`
	IsActive        bool                `json:"isActive"`
	Plan            *Plan               `json:"plan"`
	Subscription    *MemberSubscription `json:"subscription,omitempty"`
	Usage           Usage               `json:"usage"`
	Limits          Limits              `json:"limits"`
}

// Covers reports whether the active subscription still runs on day, a
// gym-local date. A status without subscription details falls back to IsActive.
func (s *Status) Covers(day time.Time, loc *time.Location) bool {
	if !s.IsActive {
		return false
	}
	if s.Subscription == nil {
		return true
	}
	return !calendar.Date(s.Subscription.EndDate, loc).Before(day)
}

// CanBookClass reports whether the weekly class quota allows one more booking.
func (s *Status) CanBookClass() bool {
	return s.IsActive && s.Limits.ClassesRemaining > 0
}

type CreatePlanRequest struct {
	Name              string   `json:"name" binding:"required,min=2,max=100"`
	Description       string   `json:"description"`
	PriceCents        int64    `json:"priceCents" binding:"gte=0"`
	Interval          string   `json:"interval" binding:"required,oneof=monthly yearly"`
	Tier              string   `json:"tier" binding:"max=20"`
	MaxClassesPerWeek int      `json:"maxClassesPerWeek" binding:"gte=0"`
	MaxCheckInsPerDay int      `json:"maxCheckInsPerDay" binding:"gte=0"`
	Features          []string `json:"features"`
}

type PurchaseRequest struct {
	PlanID int `json:"planId" binding:"required,min=1"`
}

type PurchaseResponse struct {
	Subscription *MemberSubscription `json:"subscription"`
	Plan         *Plan               `json:"plan"`
	PaidWith     string              `json:"paidWith"`
	AmountCents  int64               `json:"amountCents"`
}
