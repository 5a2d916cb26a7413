package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	CreateMemberProfile(ctx context.Context, userID int, qrCode string) (*MemberProfile, error)
	GetMemberProfile(ctx context.Context, userID int) (*MemberProfile, error)
	FindMemberByQRCode(ctx context.Context, qrCode string) (*MemberProfile, error)

	CreateTrainerProfile(ctx context.Context, p TrainerProfile) (*TrainerProfile, error)
	GetTrainerProfile(ctx context.Context, userID int) (*TrainerProfile, error)
	ListTrainers(ctx context.Context) ([]Trainer, error)
}
