package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"
	"github.com/Omarzahran17/gym-flow-sub000/internal/class"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/email"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub000/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"
)

var (
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrSubscriptionEnds     = errors.New("subscription ends before this class")
	ErrWeeklyLimitReached   = errors.New("weekly limit reached")
	ErrClassFull            = errors.New("class full")
	ErrPastDate             = errors.New("cannot book a class in the past")
	ErrWrongDay             = errors.New("class does not run on that date")
	ErrForbidden            = errors.New("not allowed to manage this booking")
)

// Schedules reads class schedules joined with their class and trainer.
type Schedules interface {
	ListScheduleDetails(ctx context.Context) ([]class.ScheduleDetails, error)
	GetScheduleDetails(ctx context.Context, scheduleID int, forUpdate bool) (*class.ScheduleDetails, error)
}

type Users interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name string, d email.ClassDetails) error
	SendBookingCancellation(ctx context.Context, to, name string, d email.ClassDetails) error
}

type Service interface {
	Book(ctx context.Context, memberID int, req CreateBookingRequest) (*Booking, error)
	Cancel(ctx context.Context, bookingID int, by Requester) error
	ListMemberBookings(ctx context.Context, memberID int) ([]BookingWithSchedule, error)
	ListOccurrenceBookings(ctx context.Context, scheduleID int, date string, by Requester) ([]BookingWithMember, error)
	WeekSchedule(ctx context.Context, viewerID int, weekStart string) (*WeekSchedule, error)
	Report(ctx context.Context, from, to, groupBy string) (*Report, error)
}

type service struct {
	repo      Repository
	schedules Schedules
	gate      subscription.Gate
	tx        db.Transactor
	users     Users
	notifier  Notifier
	loc       *time.Location
	now       func() time.Time
}

// NewService wires the booking flow. users and notifier may be nil, which
// disables booking emails.
func NewService(
	repo Repository,
	schedules Schedules,
	gate subscription.Gate,
	tx db.Transactor,
	users Users,
	notifier Notifier,
	loc *time.Location,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:      repo,
		schedules: schedules,
		gate:      gate,
		tx:        tx,
		users:     users,
		notifier:  notifier,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *service) today() time.Time {
	return calendar.Date(s.now(), s.loc)
}

// Book reserves one seat of a dated occurrence for the member. Locks are taken
// in a fixed order: the member's subscription row first, then the schedule row.
// The first serialises a member's own bookings against the weekly quota, the
// second serialises all bookings of the slot against its capacity.
func (s *service) Book(ctx context.Context, memberID int, req CreateBookingRequest) (*Booking, error) {
	date, err := calendar.Parse(req.BookingDate)
	if err != nil {
		return nil, err
	}
	if date.Before(s.today()) {
		return nil, ErrPastDate
	}
	bookingDate := calendar.Format(date)

	var (
		booking *Booking
		details *class.ScheduleDetails
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		status, err := s.gate.LockedStatus(ctx, memberID, date)
		if err != nil {
			return err
		}

		details, err = s.schedules.GetScheduleDetails(ctx, req.ScheduleID, true)
		if err != nil {
			return err
		}
		if int(date.Weekday()) != details.DayOfWeek {
			return ErrWrongDay
		}

		if !status.IsActive {
			return ErrSubscriptionRequired
		}
		if !status.Covers(date, s.loc) {
			return ErrSubscriptionEnds
		}

		booked, err := s.repo.MemberHasBooking(ctx, memberID, req.ScheduleID, bookingDate)
		if err != nil {
			return err
		}
		if booked {
			return ErrAlreadyBooked
		}

		if !status.CanBookClass() {
			return ErrWeeklyLimitReached
		}

		taken, err := s.repo.CountConfirmed(ctx, req.ScheduleID, bookingDate)
		if err != nil {
			return err
		}
		if taken >= details.Capacity() {
			return ErrClassFull
		}

		booking, err = s.repo.Create(ctx, memberID, req.ScheduleID, bookingDate)
		return err
	})
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	metrics.RecordClassBooking()
	logger.Info("class booked",
		"member_id", memberID,
		"schedule_id", req.ScheduleID,
		"booking_date", bookingDate,
	)
	s.notify(ctx, memberID, *details, bookingDate, true)

	return booking, nil
}

func recordRejection(err error) {
	switch {
	case errors.Is(err, ErrSubscriptionRequired):
		metrics.RecordBookingRejection("subscription_required")
	case errors.Is(err, ErrSubscriptionEnds):
		metrics.RecordBookingRejection("subscription_ends")
	case errors.Is(err, ErrWeeklyLimitReached):
		metrics.RecordBookingRejection("weekly_limit")
	case errors.Is(err, ErrClassFull):
		metrics.RecordBookingRejection("class_full")
	case errors.Is(err, ErrAlreadyBooked):
		metrics.RecordBookingRejection("already_booked")
	}
}

// Cancel deletes the booking when by owns it, is an admin, or trains the class.
func (s *service) Cancel(ctx context.Context, bookingID int, by Requester) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	details, err := s.schedules.GetScheduleDetails(ctx, b.ScheduleID, false)
	if err != nil {
		return err
	}

	actor, ok := cancelActor(b, details, by)
	if !ok {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, b.ID); err != nil {
		return err
	}

	metrics.RecordBookingCancellation(actor)
	logger.Info("booking cancelled",
		"booking_id", b.ID,
		"member_id", b.MemberID,
		"by", by.UserID,
	)
	s.notify(ctx, b.MemberID, *details, b.BookingDate, false)

	return nil
}

func cancelActor(b *Booking, details *class.ScheduleDetails, by Requester) (string, bool) {
	switch {
	case b.MemberID == by.UserID:
		return auth.RoleMember, true
	case by.Role == auth.RoleAdmin:
		return auth.RoleAdmin, true
	case by.Role == auth.RoleTrainer && trains(details, by.UserID):
		return auth.RoleTrainer, true
	}
	return "", false
}

func trains(details *class.ScheduleDetails, userID int) bool {
	return details.TrainerID != nil && *details.TrainerID == userID
}

// notify queues a booking email. Failures are logged and never returned.
func (s *service) notify(ctx context.Context, memberID int, d class.ScheduleDetails, date string, confirmed bool) {
	if s.notifier == nil || s.users == nil {
		return
	}

	u, err := s.users.GetByID(ctx, memberID)
	if err != nil {
		logger.Warn("booking email skipped", "member_id", memberID, "error", err.Error())
		return
	}

	details := email.ClassDetails{
		ClassName: d.ClassName,
		Date:      date,
		StartTime: d.StartTime,
		Room:      d.Room,
	}
	if confirmed {
		err = s.notifier.SendBookingConfirmation(ctx, u.Email, u.Name, details)
	} else {
		err = s.notifier.SendBookingCancellation(ctx, u.Email, u.Name, details)
	}
	if err != nil {
		logger.Warn("booking email not queued", "member_id", memberID, "error", err.Error())
	}
}

// ListMemberBookings returns the member's bookings from the start of the
// current week onwards.
func (s *service) ListMemberBookings(ctx context.Context, memberID int) ([]BookingWithSchedule, error) {
	from := calendar.WeekStart(s.today())
	return s.repo.ListByMember(ctx, memberID, calendar.Format(from))
}

func (s *service) ListOccurrenceBookings(ctx context.Context, scheduleID int, date string, by Requester) ([]BookingWithMember, error) {
	d, err := calendar.Parse(date)
	if err != nil {
		return nil, err
	}

	details, err := s.schedules.GetScheduleDetails(ctx, scheduleID, false)
	if err != nil {
		return nil, err
	}
	if by.Role != auth.RoleAdmin && !trains(details, by.UserID) {
		return nil, ErrForbidden
	}

	return s.repo.ListByOccurrence(ctx, scheduleID, calendar.Format(d))
}
