package booking

import "time"

const StatusConfirmed = "confirmed"

type Booking struct {
	ID          int       `db:"id" json:"id"`
	ScheduleID  int       `db:"schedule_id" json:"scheduleId"`
	MemberID    int       `db:"member_id" json:"memberId"`
	BookingDate string    `db:"booking_date" json:"bookingDate"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ScheduleSummary is the slot a booking belongs to, as shown in booking lists.
type ScheduleSummary struct {
	ID              int     `db:"id" json:"id"`
	DayOfWeek       int     `db:"day_of_week" json:"dayOfWeek"`
	StartTime       string  `db:"start_time" json:"startTime"`
	Room            string  `db:"room" json:"room"`
	ClassID         int     `db:"class_id" json:"classId"`
	ClassName       string  `db:"class_name" json:"className"`
	Color           string  `db:"color" json:"color"`
	DurationMinutes int     `db:"duration_minutes" json:"duration"`
	TrainerName     *string `db:"trainer_name" json:"trainerName"`
}

type BookingWithSchedule struct {
	Booking
	Schedule ScheduleSummary `db:"schedule" json:"schedule"`
}

type BookingWithMember struct {
	Booking
	MemberName  string `db:"member_name" json:"memberName"`
	MemberEmail string `db:"member_email" json:"memberEmail"`
}

// Requester is the authenticated caller of a booking operation.
type Requester struct {
	UserID int
	Role   string
}

// OccurrenceCount is the number of confirmed bookings for one dated occurrence.
type OccurrenceCount struct {
	ScheduleID  int    `db:"schedule_id"`
	BookingDate string `db:"booking_date"`
	Count       int    `db:"count"`
}

type CreateBookingRequest struct {
	ScheduleID  int    `json:"scheduleId" binding:"required,min=1"`
	BookingDate string `json:"bookingDate" binding:"required,datetime=2006-01-02"`
}

type OccurrenceClass struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	MaxCapacity     int    `json:"maxCapacity"`
	DurationMinutes int    `json:"duration"`
	Color           string `json:"color"`
}

type OccurrenceTrainer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Occurrence is one schedule on its concrete date within the requested week.
type Occurrence struct {
	ID             int                `json:"id"`
	DayOfWeek      int                `json:"dayOfWeek"`
	StartTime      string             `json:"startTime"`
	Room           string             `json:"room"`
	Date           string             `json:"date"`
	Class          OccurrenceClass    `json:"class"`
	Trainer        *OccurrenceTrainer `json:"trainer"`
	BookingsCount  int                `json:"bookingsCount"`
	AvailableSpots int                `json:"availableSpots"`
	IsFull         bool               `json:"isFull"`
	IsBooked       bool               `json:"isBooked"`
	BookingID      *int               `json:"bookingId,omitempty"`
}

type WeekSchedule struct {
	WeekStart string       `json:"weekStart"`
	WeekEnd   string       `json:"weekEnd"`
	Schedule  []Occurrence `json:"schedule"`
}

const (
	GroupByDay   = "day"
	GroupByClass = "class"
)

type ReportRow struct {
	Key   string `db:"key" json:"key"`
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

type Report struct {
	From    string      `json:"from"`
	To      string      `json:"to"`
	GroupBy string      `json:"groupBy"`
	Rows    []ReportRow `json:"rows"`
	Total   int         `json:"total"`
}
