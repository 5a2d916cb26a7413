package email

import (
	"context"
	"fmt"
)

// ClassDetails describes one booked class occurrence for a notification.
type ClassDetails struct {
	ClassName string
	Date      string
	StartTime string
	Room      string
}

func (d ClassDetails) describe() string {
	line := fmt.Sprintf("%s on %s at %s", d.ClassName, d.Date, d.StartTime)
	if d.Room != "" {
		line += ", room " + d.Room
	}
	return line
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name string, d ClassDetails) error {
	subject := "Booking Confirmed - " + d.ClassName
	body := fmt.Sprintf(`Hi %s,

Your spot is booked:

%s

Need to skip it? Cancel from your bookings page to free the spot for someone else.

- GymFlow`, name, d.describe())

	return s.Send(ctx, TypeBookingConfirmation, to, name, subject, body)
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name string, d ClassDetails) error {
	subject := "Booking Cancelled - " + d.ClassName
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

%s

- GymFlow`, name, d.describe())

	return s.Send(ctx, TypeBookingCancellation, to, name, subject, body)
}
