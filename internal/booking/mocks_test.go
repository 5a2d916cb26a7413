package booking

import (
	"context"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/class"
	"github.com/Omarzahran17/gym-flow-sub000/internal/email"
	"github.com/Omarzahran17/gym-flow-sub000/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, memberID, scheduleID int, bookingDate string) (*Booking, error) {
	args := m.Called(ctx, memberID, scheduleID, bookingDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CountConfirmed(ctx context.Context, scheduleID int, bookingDate string) (int, error) {
	args := m.Called(ctx, scheduleID, bookingDate)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountConfirmedBetween(ctx context.Context, from, to string) ([]OccurrenceCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OccurrenceCount), args.Error(1)
}

func (m *MockRepository) MemberHasBooking(ctx context.Context, memberID, scheduleID int, bookingDate string) (bool, error) {
	args := m.Called(ctx, memberID, scheduleID, bookingDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MemberBookingsBetween(ctx context.Context, memberID int, from, to string) ([]Booking, error) {
	args := m.Called(ctx, memberID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) ListByMember(ctx context.Context, memberID int, from string) ([]BookingWithSchedule, error) {
	args := m.Called(ctx, memberID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithSchedule), args.Error(1)
}

func (m *MockRepository) ListByOccurrence(ctx context.Context, scheduleID int, bookingDate string) ([]BookingWithMember, error) {
	args := m.Called(ctx, scheduleID, bookingDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithMember), args.Error(1)
}

func (m *MockRepository) CountByDay(ctx context.Context, from, to string) ([]ReportRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReportRow), args.Error(1)
}

func (m *MockRepository) CountByClass(ctx context.Context, from, to string) ([]ReportRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReportRow), args.Error(1)
}

type MockSchedules struct {
	mock.Mock
}

func (m *MockSchedules) ListScheduleDetails(ctx context.Context) ([]class.ScheduleDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]class.ScheduleDetails), args.Error(1)
}

func (m *MockSchedules) GetScheduleDetails(ctx context.Context, scheduleID int, forUpdate bool) (*class.ScheduleDetails, error) {
	args := m.Called(ctx, scheduleID, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.ScheduleDetails), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) Status(ctx context.Context, memberID int) (*subscription.Status, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Status), args.Error(1)
}

func (m *MockGate) LockedStatus(ctx context.Context, memberID int, day time.Time) (*subscription.Status, error) {
	args := m.Called(ctx, memberID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Status), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, userID int) (*user.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, to, name string, d email.ClassDetails) error {
	return m.Called(ctx, to, name, d).Error(0)
}

func (m *MockNotifier) SendBookingCancellation(ctx context.Context, to, name string, d email.ClassDetails) error {
	return m.Called(ctx, to, name, d).Error(0)
}

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
