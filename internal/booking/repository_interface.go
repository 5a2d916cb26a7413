package booking

import "context"

type Repository interface {
	Create(ctx context.Context, memberID, scheduleID int, bookingDate string) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	Delete(ctx context.Context, id int) error

	// CountConfirmed is the occupancy of one dated occurrence.
	CountConfirmed(ctx context.Context, scheduleID int, bookingDate string) (int, error)
	CountConfirmedBetween(ctx context.Context, from, to string) ([]OccurrenceCount, error)
	MemberHasBooking(ctx context.Context, memberID, scheduleID int, bookingDate string) (bool, error)
	MemberBookingsBetween(ctx context.Context, memberID int, from, to string) ([]Booking, error)

	ListByMember(ctx context.Context, memberID int, from string) ([]BookingWithSchedule, error)
	ListByOccurrence(ctx context.Context, scheduleID int, bookingDate string) ([]BookingWithMember, error)

	CountByDay(ctx context.Context, from, to string) ([]ReportRow, error)
	CountByClass(ctx context.Context, from, to string) ([]ReportRow, error)
}
