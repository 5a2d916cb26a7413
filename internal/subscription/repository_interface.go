package subscription

import (
	"context"
	"time"
)

type Repository interface {
	ListPlans(ctx context.Context, activeOnly bool) ([]Plan, error)
	GetPlan(ctx context.Context, id int) (*Plan, error)
	CreatePlan(ctx context.Context, p Plan) (*Plan, error)

	// LockMember locks the member profile row for the rest of the
	// transaction. It reports false when userID is not a member.
	LockMember(ctx context.Context, userID int) (bool, error)

	// GetActive returns the subscription whose period covers now. With
	// forUpdate the row stays locked until the surrounding transaction ends,
	// serialising every quota-consuming write of the member.
	GetActive(ctx context.Context, memberID int, now time.Time, forUpdate bool) (*ActiveSubscription, error)
	Create(ctx context.Context, memberID, planID int, start, end time.Time) (*MemberSubscription, error)
	CancelActive(ctx context.Context, memberID int) (int64, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)

	// CountClassesBetween counts confirmed bookings dated from..to inclusive.
	CountClassesBetween(ctx context.Context, memberID int, from, to string) (int, error)
	CountCheckInsOn(ctx context.Context, memberID int, day string) (int, error)
}
