package user

import "time"

const (
	MemberStatusActive    = "active"
	MemberStatusInactive  = "inactive"
	MemberStatusSuspended = "suspended"
)

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// MemberProfile holds gym-membership attributes of a member user.
type MemberProfile struct {
	UserID   int    `db:"user_id" json:"userId"`
	Status   string `db:"status" json:"status"`
	QRCode   string `db:"qr_code" json:"qrCode"`
	JoinDate string `db:"join_date" json:"joinDate"`
}

type TrainerProfile struct {
	UserID          int    `db:"user_id" json:"userId"`
	Specialization  string `db:"specialization" json:"specialization"`
	MaxClients      int    `db:"max_clients" json:"maxClients"`
	HourlyRateCents int64  `db:"hourly_rate_cents" json:"hourlyRateCents"`
}

type Trainer struct {
	User
	TrainerProfile
}

type Profile struct {
	User    *User           `json:"user"`
	Member  *MemberProfile  `json:"member,omitempty"`
	Trainer *TrainerProfile `json:"trainer,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

type CreateTrainerRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	Specialization  string `json:"specialization" binding:"max=255"`
	MaxClients      int    `json:"maxClients" binding:"gte=0"`
	HourlyRateCents int64  `json:"hourlyRateCents" binding:"gte=0"`
}
