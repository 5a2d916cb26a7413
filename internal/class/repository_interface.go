package class

import "context"

type Repository interface {
	CreateClass(ctx context.Context, c Class) (*Class, error)
	UpdateClass(ctx context.Context, c Class) (*Class, error)
	DeleteClass(ctx context.Context, id int) error
	GetClass(ctx context.Context, id int) (*Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
	SetImageKey(ctx context.Context, id int, key string) error
	HasSchedules(ctx context.Context, classID int) (bool, error)
	TrainerExists(ctx context.Context, trainerID int) (bool, error)

	CreateSchedule(ctx context.Context, s Schedule) (*Schedule, error)
	DeleteSchedule(ctx context.Context, id int) error
	ListSchedules(ctx context.Context, classID int) ([]Schedule, error)

	ListScheduleDetails(ctx context.Context) ([]ScheduleDetails, error)
	// GetScheduleDetails with forUpdate locks the schedule row until the
	// surrounding transaction ends.
	GetScheduleDetails(ctx context.Context, scheduleID int, forUpdate bool) (*ScheduleDetails, error)
}
