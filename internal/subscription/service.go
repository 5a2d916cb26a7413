package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub000/internal/wallet"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrPlanInactive   = errors.New("plan is not available")
)

// Gate derives a member's entitlements from their plan and from the bookings
// and check-ins already on record.
type Gate interface {
	// Status reports usage for the current week and today.
	Status(ctx context.Context, memberID int) (*Status, error)
	// LockedStatus locks the member's active subscription row and reports
	// usage for the week containing day and for day itself. Call it inside a
	// transaction, before taking any other lock.
	LockedStatus(ctx context.Context, memberID int, day time.Time) (*Status, error)
}

// Charger debits a user's wallet.
type Charger interface {
	Charge(ctx context.Context, userID int, amountCents int64, txType string) (*wallet.Transaction, error)
}

type Service interface {
	Gate

	ListPlans(ctx context.Context) ([]Plan, error)
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	Purchase(ctx context.Context, memberID, planID int) (*PurchaseResponse, error)
	Assign(ctx context.Context, memberID, planID int) (*MemberSubscription, error)
	Cancel(ctx context.Context, memberID int) error
	ExpireLapsed(ctx context.Context) (int64, error)
}

type service struct {
	repo    Repository
	tx      db.Transactor
	charger Charger
	loc     *time.Location
	now     func() time.Time
}

func NewService(repo Repository, tx db.Transactor, charger Charger, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:    repo,
		tx:      tx,
		charger: charger,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *service) Status(ctx context.Context, memberID int) (*Status, error) {
	now := s.now()
	return s.status(ctx, memberID, now, calendar.Date(now, s.loc), false)
}

func (s *service) LockedStatus(ctx context.Context, memberID int, day time.Time) (*Status, error) {
	return s.status(ctx, memberID, s.now(), day, true)
}

func (s *service) status(ctx context.Context, memberID int, now, day time.Time, lock bool) (*Status, error) {
	active, err := s.repo.GetActive(ctx, memberID, now, lock)
	if err != nil && !errors.Is(err, ErrNoActiveSubscription) {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	from, to := calendar.Week(day)
	classes, err := s.repo.CountClassesBetween(ctx, memberID, calendar.Format(from), calendar.Format(to))
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly classes: %w", err)
	}

	checkIns, err := s.repo.CountCheckInsOn(ctx, memberID, calendar.Format(day))
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	return buildStatus(active, classes, checkIns), nil
}

func buildStatus(active *ActiveSubscription, classesThisWeek, checkInsToday int) *Status {
	st := &Status{
		Usage: Usage{
			ClassesThisWeek: classesThisWeek,
			CheckInsToday:   checkInsToday,
		},
	}
	if active == nil {
		return st
	}

	plan := active.Plan
	sub := active.MemberSubscription
	st.HasSubscription = true
	st.IsActive = true
	st.Plan = &plan
	st.Subscription = &sub

	if IsUnlimited(plan.MaxClassesPerWeek) {
		st.Limits.ClassesRemaining = UnlimitedSentinel
	} else {
		st.Limits.ClassesRemaining = max(plan.MaxClassesPerWeek-classesThisWeek, 0)
	}
	st.Limits.CanCheckIn = IsUnlimited(plan.MaxCheckInsPerDay) || checkInsToday < plan.MaxCheckInsPerDay

	return st
}

func (s *service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.ListPlans(ctx, true)
}

func (s *service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	tier := req.Tier
	if tier == "" {
		tier = "basic"
	}
	return s.repo.CreatePlan(ctx, Plan{
		Name:              req.Name,
		Description:       req.Description,
		PriceCents:        req.PriceCents,
		Interval:          req.Interval,
		Tier:              tier,
		MaxClassesPerWeek: req.MaxClassesPerWeek,
		MaxCheckInsPerDay: req.MaxCheckInsPerDay,
		Features:          req.Features,
	})
}

// replace cancels whatever is active for the member and starts plan now.
func (s *service) replace(ctx context.Context, memberID int, plan *Plan) (*MemberSubscription, error) {
	now := s.now()

	if _, err := s.repo.GetActive(ctx, memberID, now, true); err != nil && !errors.Is(err, ErrNoActiveSubscription) {
		return nil, err
	}
	if _, err := s.repo.CancelActive(ctx, memberID); err != nil {
		return nil, fmt.Errorf("failed to cancel previous subscription: %w", err)
	}

	return s.repo.Create(ctx, memberID, plan.ID, now, plan.PeriodEnd(now))
}

func (s *service) loadPurchasablePlan(ctx context.Context, memberID, planID int) (*Plan, error) {
	isMember, err := s.repo.LockMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrMemberNotFound
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}
	return plan, nil
}

func (s *service) Purchase(ctx context.Context, memberID, planID int) (*PurchaseResponse, error) {
	var resp *PurchaseResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		plan, err := s.loadPurchasablePlan(ctx, memberID, planID)
		if err != nil {
			return err
		}

		sub, err := s.replace(ctx, memberID, plan)
		if err != nil {
			return err
		}

		if _, err := s.charger.Charge(ctx, memberID, plan.PriceCents, wallet.TxSubscriptionPayment); err != nil {
			return err
		}

		resp = &PurchaseResponse{
			Subscription: sub,
			Plan:         plan,
			PaidWith:     "wallet",
			AmountCents:  plan.PriceCents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscription(resp.Plan.Name, "purchase")
	logger.Info("subscription purchased", "member_id", memberID, "plan", resp.Plan.Name)
	return resp, nil
}

func (s *service) Assign(ctx context.Context, memberID, planID int) (*MemberSubscription, error) {
	var (
		sub  *MemberSubscription
		plan *Plan
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.loadPurchasablePlan(ctx, memberID, planID)
		if err != nil {
			return err
		}
		sub, err = s.replace(ctx, memberID, plan)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscription(plan.Name, "admin")
	logger.Info("subscription assigned", "member_id", memberID, "plan", plan.Name)
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, memberID int) error {
	n, err := s.repo.CancelActive(ctx, memberID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoActiveSubscription
	}

	metrics.RecordSubscriptionCancellation()
	return nil
}

func (s *service) ExpireLapsed(ctx context.Context) (int64, error) {
	return s.repo.ExpireLapsed(ctx, s.now())
}
