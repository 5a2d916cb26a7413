package class

import "time"

const (
	DefaultCapacity = 20
	DefaultDuration = 60
	DefaultColor    = "#3b82f6"
)

type Class struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	TrainerID       *int      `db:"trainer_id" json:"trainerId"`
	MaxCapacity     int       `db:"max_capacity" json:"maxCapacity"`
	DurationMinutes int       `db:"duration_minutes" json:"duration"`
	Color           string    `db:"color" json:"color"`
	ImageKey        *string   `db:"image_key" json:"-"`
	ImageURL        string    `db:"-" json:"imageUrl,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Capacity returns the seat limit of one occurrence of the class.
func Capacity(maxCapacity int) int {
	if maxCapacity <= 0 {
		return DefaultCapacity
	}
	return maxCapacity
}

// Schedule is a weekly recurring slot. DayOfWeek is 0 for Sunday.
type Schedule struct {
	ID        int       `db:"id" json:"id"`
	ClassID   int       `db:"class_id" json:"classId"`
	DayOfWeek int       `db:"day_of_week" json:"dayOfWeek"`
	StartTime string    `db:"start_time" json:"startTime"`
	Room      string    `db:"room" json:"room"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ClassWithSchedules struct {
	Class
	Schedules []Schedule `json:"schedules"`
}

// ScheduleDetails is a schedule joined with its class and trainer.
type ScheduleDetails struct {
	ScheduleID      int     `db:"schedule_id"`
	DayOfWeek       int     `db:"day_of_week"`
	StartTime       string  `db:"start_time"`
	Room            string  `db:"room"`
	ClassID         int     `db:"class_id"`
	ClassName       string  `db:"class_name"`
	Description     string  `db:"description"`
	MaxCapacity     int     `db:"max_capacity"`
	DurationMinutes int     `db:"duration_minutes"`
	Color           string  `db:"color"`
	TrainerID       *int    `db:"trainer_id"`
	TrainerName     *string `db:"trainer_name"`
}

func (d ScheduleDetails) Capacity() int {
	return Capacity(d.MaxCapacity)
}

type ClassRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	Description     string `json:"description"`
	TrainerID       *int   `json:"trainerId" binding:"omitempty,min=1"`
	MaxCapacity     int    `json:"maxCapacity" binding:"omitempty,min=1,max=500"`
	DurationMinutes int    `json:"duration" binding:"omitempty,min=5,max=600"`
	Color           string `json:"color" binding:"omitempty,hexcolor"`
}

type ScheduleRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	Room      string `json:"room" binding:"max=100"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=image/jpeg image/png image/webp"`
}

type ImageUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	ExpiresIn int    `json:"expiresIn"`
}
