package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

var _ ProgressUseCase = (*progressUC)(nil)

type ProgressUseCase interface {
	// RecordView marks one lecture viewing and returns the updated course
	// progress. The caller must be enrolled in the course.
	RecordView(ctx context.Context, userID, courseID, lectureID string, watchTime float64, completed bool) (*model.CourseProgress, error)
	Get(ctx context.Context, userID, courseID string) (*model.CourseProgress, error)
}

type progressUC struct {
	progress repository.ProgressRepository
	users    repository.UserRepository
}

func NewProgressUseCase(progress repository.ProgressRepository, users repository.UserRepository) *progressUC {
	return &progressUC{progress: progress, users: users}
}

func (u *progressUC) RecordView(ctx context.Context, userID, courseID, lectureID string, watchTime float64, completed bool) (*model.CourseProgress, error) {
	if userID == "" || courseID == "" || lectureID == "" || watchTime < 0 {
		return nil, domain.ErrValidation
	}

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsEnrolled(courseID) {
		return nil, domain.ErrCourseNotFound
	}

	cp, err := u.progress.FindByUserAndCourse(ctx, repository.NoTX, userID, courseID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		cp, err = model.NewCourseProgress(uuid.NewString(), userID, courseID)
		if err != nil {
			return nil, err
		}
	}

	cp.Touch(lectureID, watchTime, completed, time.Now().UTC())
	if err := u.progress.Save(ctx, repository.NoTX, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (u *progressUC) Get(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	if userID == "" || courseID == "" {
		return nil, domain.ErrValidation
	}
	cp, err := u.progress.FindByUserAndCourse(ctx, repository.NoTX, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cp, nil
}
