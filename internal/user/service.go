package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub000/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/google/uuid"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	GetProfile(ctx context.Context, userID int) (*Profile, error)
	GetMemberByQRCode(ctx context.Context, qrCode string) (*MemberProfile, error)
	GetMemberProfile(ctx context.Context, userID int) (*MemberProfile, error)
	CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*Trainer, error)
	ListTrainers(ctx context.Context) ([]Trainer, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*User, error)
}

type service struct {
	repo      Repository
	tx        db.Transactor
	jwtSecret string
}

func NewService(repo Repository, tx db.Transactor, jwtSecret string) Service {
	return &service{
		repo:      repo,
		tx:        tx,
		jwtSecret: jwtSecret,
	}
}

func (s *service) createUser(ctx context.Context, name, email, password, role string) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, name, email, passwordHash, role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Register creates a member account together with its check-in QR code.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	var user *User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.createUser(ctx, req.Name, req.Email, req.Password, auth.RoleMember)
		if err != nil {
			return err
		}

		if _, err := s.repo.CreateMemberProfile(ctx, user.ID, uuid.NewString()); err != nil {
			return fmt.Errorf("failed to create member profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	// Role may have changed since the refresh token was issued.
	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}
	switch user.Role {
	case auth.RoleMember:
		member, err := s.repo.GetMemberProfile(ctx, userID)
		if err != nil && !errors.Is(err, ErrMemberNotFound) {
			return nil, err
		}
		profile.Member = member
	case auth.RoleTrainer:
		trainer, err := s.repo.GetTrainerProfile(ctx, userID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		profile.Trainer = trainer
	}
	return profile, nil
}

func (s *service) GetMemberByQRCode(ctx context.Context, qrCode string) (*MemberProfile, error) {
	return s.repo.FindMemberByQRCode(ctx, qrCode)
}

func (s *service) GetMemberProfile(ctx context.Context, userID int) (*MemberProfile, error) {
	return s.repo.GetMemberProfile(ctx, userID)
}

func (s *service) CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*Trainer, error) {
	var trainer *Trainer
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.createUser(ctx, req.Name, req.Email, req.Password, auth.RoleTrainer)
		if err != nil {
			return err
		}

		maxClients := req.MaxClients
		if maxClients == 0 {
			maxClients = 20
		}
		profile, err := s.repo.CreateTrainerProfile(ctx, TrainerProfile{
			UserID:          user.ID,
			Specialization:  req.Specialization,
			MaxClients:      maxClients,
			HourlyRateCents: req.HourlyRateCents,
		})
		if err != nil {
			return fmt.Errorf("failed to create trainer profile: %w", err)
		}

		trainer = &Trainer{User: *user, TrainerProfile: *profile}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trainer, nil
}

func (s *service) ListTrainers(ctx context.Context) ([]Trainer, error) {
	return s.repo.ListTrainers(ctx)
}

func (s *service) CreateAdmin(ctx context.Context, name, email, password string) (*User, error) {
	return s.createUser(ctx, name, email, password, auth.RoleAdmin)
}
