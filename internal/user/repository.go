package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrMemberNotFound = errors.New("member not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, role, created_at
	`

	var user User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &user, query, name, email, passwordHash, role); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var user User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &user, query, email); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

const memberProfileColumns = `user_id, status, qr_code, to_char(join_date, 'YYYY-MM-DD') AS join_date`

func (r *repository) CreateMemberProfile(ctx context.Context, userID int, qrCode string) (*MemberProfile, error) {
	query := `
		INSERT INTO member_profiles (user_id, qr_code)
		VALUES ($1, $2)
		RETURNING ` + memberProfileColumns

	var p MemberProfile
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, userID, qrCode); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetMemberProfile(ctx context.Context, userID int) (*MemberProfile, error) {
	query := `SELECT ` + memberProfileColumns + ` FROM member_profiles WHERE user_id = $1`

	var p MemberProfile
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, userID); err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return &p, nil
}

func (r *repository) FindMemberByQRCode(ctx context.Context, qrCode string) (*MemberProfile, error) {
	query := `SELECT ` + memberProfileColumns + ` FROM member_profiles WHERE qr_code = $1`

	var p MemberProfile
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, qrCode); err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return &p, nil
}

func (r *repository) CreateTrainerProfile(ctx context.Context, p TrainerProfile) (*TrainerProfile, error) {
	query := `
		INSERT INTO trainer_profiles (user_id, specialization, max_clients, hourly_rate_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, specialization, max_clients, hourly_rate_cents
	`

	var out TrainerProfile
	err := db.Conn(ctx, r.db).GetContext(ctx, &out, query, p.UserID, p.Specialization, p.MaxClients, p.HourlyRateCents)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetTrainerProfile(ctx context.Context, userID int) (*TrainerProfile, error) {
	query := `
		SELECT user_id, specialization, max_clients, hourly_rate_cents
		FROM trainer_profiles
		WHERE user_id = $1
	`

	var p TrainerProfile
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &p, nil
}

func (r *repository) ListTrainers(ctx context.Context) ([]Trainer, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at,
		       tp.user_id, tp.specialization, tp.max_clients, tp.hourly_rate_cents
		FROM users u
		JOIN trainer_profiles tp ON tp.user_id = u.id
		WHERE u.role = 'trainer'
		ORDER BY u.name
	`

	trainers := []Trainer{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &trainers, query); err != nil {
		return nil, err
	}
	return trainers, nil
}
