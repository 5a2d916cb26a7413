package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrSubscriptionConflict = errors.New("subscription is being changed, try again")
)

const planColumns = `id, name, description, price_cents, billing_interval, tier, max_classes_per_week, max_check_ins_per_day, features, is_active, created_at`

const subscriptionColumns = `id, member_id, plan_id, status, start_date, end_date, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPlans(ctx context.Context, activeOnly bool) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY price_cents ASC, id ASC`

	plans := []Plan{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &plans, query); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) GetPlan(ctx context.Context, id int) (*Plan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE id = $1`

	var p Plan
	err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreatePlan(ctx context.Context, p Plan) (*Plan, error) {
	query := `
		INSERT INTO subscription_plans
			(name, description, price_cents, billing_interval, tier, max_classes_per_week, max_check_ins_per_day, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + planColumns

	features := p.Features
	if features == nil {
		features = pq.StringArray{}
	}

	var out Plan
	err := db.Conn(ctx, r.db).GetContext(ctx, &out, query,
		p.Name, p.Description, p.PriceCents, p.Interval, p.Tier, p.MaxClassesPerWeek, p.MaxCheckInsPerDay, features)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return &out, nil
}

// LockMember serialises subscription changes per member. A member with no
// active subscription has no subscription row to lock, so the profile row
// stands in for it.
func (r *repository) LockMember(ctx context.Context, userID int) (bool, error) {
	var id int
	err := db.Conn(ctx, r.db).GetContext(ctx, &id,
		`SELECT user_id FROM member_profiles WHERE user_id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock member: %w", err)
	}
	return true, nil
}

func (r *repository) GetActive(ctx context.Context, memberID int, now time.Time, forUpdate bool) (*ActiveSubscription, error) {
	query := `
		SELECT ms.id, ms.member_id, ms.plan_id, ms.status, ms.start_date, ms.end_date, ms.created_at, ms.updated_at,
		       p.id AS "plan.id", p.name AS "plan.name", p.description AS "plan.description",
		       p.price_cents AS "plan.price_cents", p.billing_interval AS "plan.billing_interval", p.tier AS "plan.tier",
		       p.max_classes_per_week AS "plan.max_classes_per_week",
		       p.max_check_ins_per_day AS "plan.max_check_ins_per_day",
		       p.features AS "plan.features", p.is_active AS "plan.is_active", p.created_at AS "plan.created_at"
		FROM member_subscriptions ms
		JOIN subscription_plans p ON p.id = ms.plan_id
		WHERE ms.member_id = $1
		  AND ms.status = 'active'
		  AND ms.start_date <= $2
		  AND ms.end_date >= $2
		ORDER BY ms.end_date DESC
		LIMIT 1
	`
	if forUpdate {
		query += ` FOR UPDATE OF ms`
	}

	var sub ActiveSubscription
	err := db.Conn(ctx, r.db).GetContext(ctx, &sub, query, memberID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Create(ctx context.Context, memberID, planID int, start, end time.Time) (*MemberSubscription, error) {
	query := `
		INSERT INTO member_subscriptions (member_id, plan_id, status, start_date, end_date)
		VALUES ($1, $2, 'active', $3, $4)
		RETURNING ` + subscriptionColumns

	var sub MemberSubscription
	if err := db.Conn(ctx, r.db).GetContext(ctx, &sub, query, memberID, planID, start, end); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSubscriptionConflict
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return &sub, nil
}

func (r *repository) CancelActive(ctx context.Context, memberID int) (int64, error) {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE member_subscriptions
		SET status = 'cancelled', updated_at = NOW()
		WHERE member_id = $1 AND status = 'active'
	`, memberID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE member_subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) CountClassesBetween(ctx context.Context, memberID int, from, to string) (int, error) {
	var n int
	err := db.Conn(ctx, r.db).GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM class_bookings
		WHERE member_id = $1
		  AND status = 'confirmed'
		  AND booking_date BETWEEN $2 AND $3
	`, memberID, from, to)
	return n, err
}

func (r *repository) CountCheckInsOn(ctx context.Context, memberID int, day string) (int, error) {
	var n int
	err := db.Conn(ctx, r.db).GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM attendance
		WHERE member_id = $1 AND check_in_date = $2
	`, memberID, day)
	return n, err
}
