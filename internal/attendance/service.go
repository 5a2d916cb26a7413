package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub000/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"
)

var (
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrDailyLimitReached    = errors.New("daily check-in limit reached")
	ErrMemberInactive       = errors.New("member account is not active")
)

// Members resolves member profiles by user ID or QR code.
type Members interface {
	GetMemberProfile(ctx context.Context, userID int) (*user.MemberProfile, error)
	GetMemberByQRCode(ctx context.Context, qrCode string) (*user.MemberProfile, error)
}

type Service interface {
	CheckIn(ctx context.Context, memberID int) (*CheckInResponse, error)
	CheckInByQR(ctx context.Context, staffID int, qrCode string) (*CheckInResponse, error)
	ListForMember(ctx context.Context, memberID, limit int) ([]Attendance, error)
}

type service struct {
	repo    Repository
	tx      db.Transactor
	gate    subscription.Gate
	members Members
	loc     *time.Location
	now     func() time.Time
}

func NewService(repo Repository, tx db.Transactor, gate subscription.Gate, members Members, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:    repo,
		tx:      tx,
		gate:    gate,
		members: members,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *service) CheckIn(ctx context.Context, memberID int) (*CheckInResponse, error) {
	profile, err := s.members.GetMemberProfile(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.checkIn(ctx, profile, nil, MethodSelf)
}

func (s *service) CheckInByQR(ctx context.Context, staffID int, qrCode string) (*CheckInResponse, error) {
	profile, err := s.members.GetMemberByQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	return s.checkIn(ctx, profile, &staffID, MethodQR)
}

// checkIn holds the member's subscription row lock across the daily quota
// check and the insert, so parallel scans cannot both pass the check.
func (s *service) checkIn(ctx context.Context, profile *user.MemberProfile, staffID *int, method string) (*CheckInResponse, error) {
	if profile.Status != user.MemberStatusActive {
		metrics.RecordCheckInRejection("inactive_member")
		return nil, ErrMemberInactive
	}

	today := calendar.Date(s.now(), s.loc)

	var resp *CheckInResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := s.gate.LockedStatus(ctx, profile.UserID, today)
		if err != nil {
			return err
		}
		if !st.IsActive {
			metrics.RecordCheckInRejection("subscription_required")
			return ErrSubscriptionRequired
		}
		if !st.Limits.CanCheckIn {
			metrics.RecordCheckInRejection("daily_limit")
			return ErrDailyLimitReached
		}

		rec, err := s.repo.Insert(ctx, Attendance{
			MemberID:    profile.UserID,
			CheckInDate: calendar.Format(today),
			CheckedInBy: staffID,
			Method:      method,
		})
		if err != nil {
			return err
		}

		resp = &CheckInResponse{Attendance: rec, CheckInsToday: st.Usage.CheckInsToday + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckIn(method)
	logger.Info("member checked in", "member_id", profile.UserID, "method", method)
	return resp, nil
}

func (s *service) ListForMember(ctx context.Context, memberID, limit int) ([]Attendance, error) {
	return s.repo.ListForMember(ctx, memberID, limit)
}
