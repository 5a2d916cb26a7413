package attendance

import "context"

type Repository interface {
	Insert(ctx context.Context, a Attendance) (*Attendance, error)
	ListForMember(ctx context.Context, memberID, limit int) ([]Attendance, error)
}
