package booking

import (
	"context"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"
	"github.com/Omarzahran17/gym-flow-sub000/internal/class"
)

type occurrenceKey struct {
	scheduleID int
	date       string
}

// WeekSchedule lists every schedule occurring in the Sunday-start week that
// contains weekStart (the current week when empty), with live occupancy.
// viewerID 0 is an anonymous viewer for whom nothing is booked.
func (s *service) WeekSchedule(ctx context.Context, viewerID int, weekStart string) (*WeekSchedule, error) {
	day := s.today()
	if weekStart != "" {
		d, err := calendar.Parse(weekStart)
		if err != nil {
			return nil, err
		}
		day = d
	}
	start, end := calendar.Week(day)
	from, to := calendar.Format(start), calendar.Format(end)

	details, err := s.schedules.ListScheduleDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	counts, err := s.repo.CountConfirmedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	taken := make(map[occurrenceKey]int, len(counts))
	for _, c := range counts {
		taken[occurrenceKey{c.ScheduleID, c.BookingDate}] = c.Count
	}

	mine := map[occurrenceKey]int{}
	if viewerID > 0 {
		bookings, err := s.repo.MemberBookingsBetween(ctx, viewerID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to load viewer bookings: %w", err)
		}
		for _, b := range bookings {
			mine[occurrenceKey{b.ScheduleID, b.BookingDate}] = b.ID
		}
	}

	out := &WeekSchedule{
		WeekStart: from,
		WeekEnd:   to,
		Schedule:  make([]Occurrence, 0, len(details)),
	}
	for _, d := range details {
		date := calendar.Format(calendar.Occurrence(start, d.DayOfWeek))
		key := occurrenceKey{d.ScheduleID, date}
		out.Schedule = append(out.Schedule, buildOccurrence(d, date, taken[key], mine[key]))
	}
	return out, nil
}

func buildOccurrence(d class.ScheduleDetails, date string, count, bookingID int) Occurrence {
	capacity := d.Capacity()

	o := Occurrence{
		ID:        d.ScheduleID,
		DayOfWeek: d.DayOfWeek,
		StartTime: d.StartTime,
		Room:      d.Room,
		Date:      date,
		Class: OccurrenceClass{
			ID:              d.ClassID,
			Name:            d.ClassName,
			Description:     d.Description,
			MaxCapacity:     capacity,
			DurationMinutes: d.DurationMinutes,
			Color:           d.Color,
		},
		BookingsCount:  count,
		AvailableSpots: max(capacity-count, 0),
		IsFull:         count >= capacity,
	}
	if d.TrainerID != nil {
		o.Trainer = &OccurrenceTrainer{ID: *d.TrainerID}
		if d.TrainerName != nil {
			o.Trainer.Name = *d.TrainerName
		}
	}
	if bookingID > 0 {
		id := bookingID
		o.IsBooked = true
		o.BookingID = &id
	}
	return o
}
