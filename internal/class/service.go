package class

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrClassHasSchedules = errors.New("class still has schedules")
	ErrTrainerNotFound   = errors.New("trainer not found")
)

const imageURLExpiry = time.Hour

type Service interface {
	CreateClass(ctx context.Context, req ClassRequest) (*Class, error)
	UpdateClass(ctx context.Context, id int, req ClassRequest) (*Class, error)
	DeleteClass(ctx context.Context, id int) error
	GetClass(ctx context.Context, id int) (*ClassWithSchedules, error)
	ListClasses(ctx context.Context) ([]Class, error)

	AddSchedule(ctx context.Context, classID int, req ScheduleRequest) (*Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID int) error

	RequestImageUpload(ctx context.Context, classID int, contentType string) (*ImageUploadResponse, error)
}

type service struct {
	repo    Repository
	storage storage.FileStorage
}

// NewService wires the class catalogue. files may be nil when no object
// store is configured; image uploads are then refused.
func NewService(repo Repository, files storage.FileStorage) Service {
	return &service{repo: repo, storage: files}
}

func applyDefaults(c *Class) {
	if c.MaxCapacity <= 0 {
		c.MaxCapacity = DefaultCapacity
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = DefaultDuration
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
}

func (s *service) fromRequest(ctx context.Context, req ClassRequest) (Class, error) {
	if req.TrainerID != nil {
		ok, err := s.repo.TrainerExists(ctx, *req.TrainerID)
		if err != nil {
			return Class{}, err
		}
		if !ok {
			return Class{}, ErrTrainerNotFound
		}
	}

	c := Class{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		TrainerID:       req.TrainerID,
		MaxCapacity:     req.MaxCapacity,
		DurationMinutes: req.DurationMinutes,
		Color:           req.Color,
	}
	applyDefaults(&c)
	return c, nil
}

func (s *service) CreateClass(ctx context.Context, req ClassRequest) (*Class, error) {
	c, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateClass(ctx, c)
}

func (s *service) UpdateClass(ctx context.Context, id int, req ClassRequest) (*Class, error) {
	c, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	c.ID = id

	updated, err := s.repo.UpdateClass(ctx, c)
	if err != nil {
		return nil, err
	}
	s.attachImageURL(ctx, updated)
	return updated, nil
}

func (s *service) DeleteClass(ctx context.Context, id int) error {
	c, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return err
	}

	has, err := s.repo.HasSchedules(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrClassHasSchedules
	}

	if err := s.repo.DeleteClass(ctx, id); err != nil {
		// A schedule added after the check still trips the RESTRICT constraint.
		if db.IsForeignKeyViolation(err) {
			return ErrClassHasSchedules
		}
		return err
	}

	if c.ImageKey != nil && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, *c.ImageKey); err != nil {
			logger.WithError(err).Warn("failed to delete class image")
		}
	}
	return nil
}

func (s *service) GetClass(ctx context.Context, id int) (*ClassWithSchedules, error) {
	c, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.ListSchedules(ctx, id)
	if err != nil {
		return nil, err
	}

	s.attachImageURL(ctx, c)
	return &ClassWithSchedules{Class: *c, Schedules: schedules}, nil
}

func (s *service) ListClasses(ctx context.Context) ([]Class, error) {
	classes, err := s.repo.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		s.attachImageURL(ctx, &classes[i])
	}
	return classes, nil
}

func (s *service) AddSchedule(ctx context.Context, classID int, req ScheduleRequest) (*Schedule, error) {
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	return s.repo.CreateSchedule(ctx, Schedule{
		ClassID:   classID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		Room:      strings.TrimSpace(req.Room),
	})
}

func (s *service) DeleteSchedule(ctx context.Context, scheduleID int) error {
	return s.repo.DeleteSchedule(ctx, scheduleID)
}

func (s *service) RequestImageUpload(ctx context.Context, classID int, contentType string) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, storage.ErrNotConfigured
	}
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	key := path.Join("classes", fmt.Sprint(classID), uuid.NewString()+imageExtension(contentType))
	url, err := s.storage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageKey(ctx, classID, key); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL: url,
		ObjectKey: key,
		ExpiresIn: int(storage.DefaultPresignedURLExpiry.Seconds()),
	}, nil
}

// attachImageURL fills ImageURL; a presign failure leaves the class without one.
func (s *service) attachImageURL(ctx context.Context, c *Class) {
	if s.storage == nil || c.ImageKey == nil {
		return
	}
	url, err := s.storage.GeneratePresignedDownloadURL(ctx, *c.ImageKey, imageURLExpiry)
	if err != nil {
		logger.Warn("failed to presign class image", "class_id", c.ID, "error", err.Error())
		return
	}
	c.ImageURL = url
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
