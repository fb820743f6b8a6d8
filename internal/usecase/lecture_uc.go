package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/adapter"
	"lms-platform/internal/domain/ports/repository"
)

var _ LectureUseCase = (*lectureUC)(nil)

type LectureUseCase interface {
	// AddLecture uploads the video body to media storage and attaches the
	// resulting lecture to the course.
	AddLecture(ctx context.Context, in AddLectureInput) (*model.Lecture, error)
	RemoveLecture(ctx context.Context, courseID, lectureID string) error
	ListByCourse(ctx context.Context, courseID string) ([]*model.Lecture, error)
	FindByID(ctx context.Context, id string) (*model.Lecture, error)
	// StreamURL returns a short-lived signed URL for the lecture video.
	// Non-preview lectures require the caller to be enrolled in the course.
	StreamURL(ctx context.Context, userID, lectureID string) (string, error)
}

type AddLectureInput struct {
	CourseID    string
	Title       string
	Description string
	Order       int
	IsPreview   bool
	Duration    float64
	Video       io.Reader
	VideoSize   int64
	ContentType string
}

type lectureUC struct {
	lectures repository.LectureRepository
	courses  repository.CourseRepository
	users    repository.UserRepository
	media    adapter.MediaStorage
	log      *zerolog.Logger
}

func NewLectureUseCase(lectures repository.LectureRepository, courses repository.CourseRepository, users repository.UserRepository, media adapter.MediaStorage, log *zerolog.Logger) *lectureUC {
	return &lectureUC{lectures: lectures, courses: courses, users: users, media: media, log: log}
}

func (u *lectureUC) AddLecture(ctx context.Context, in AddLectureInput) (*model.Lecture, error) {
	if in.CourseID == "" || in.Title == "" || in.Video == nil {
		return nil, domain.ErrValidation
	}
	if _, err := u.courses.FindByID(ctx, repository.NoTX, in.CourseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	lecture, err := model.NewLecture(uuid.NewString(), in.CourseID, in.Title, in.Order)
	if err != nil {
		return nil, err
	}
	lecture.Description = in.Description
	lecture.IsPreview = in.IsPreview
	lecture.Duration = in.Duration

	key := fmt.Sprintf("lectures/%s/%s", in.CourseID, lecture.ID)
	url, err := u.media.Upload(ctx, key, in.Video, in.VideoSize, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload lecture video: %w", err)
	}
	lecture.VideoURL = url
	lecture.PublicID = key

	if err := u.lectures.Save(ctx, repository.NoTX, lecture); err != nil {
		// The object is already in storage; best effort cleanup.
		if delErr := u.media.Delete(ctx, key); delErr != nil {
			u.log.Warn().Err(delErr).Str("key", key).Msg("orphaned media object after failed lecture save")
		}
		return nil, err
	}
	if err := u.courses.AddLecture(ctx, repository.NoTX, in.CourseID, lecture.ID); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (u *lectureUC) RemoveLecture(ctx context.Context, courseID, lectureID string) error {
	if courseID == "" || lectureID == "" {
		return domain.ErrValidation
	}
	lecture, err := u.lectures.FindByID(ctx, repository.NoTX, lectureID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrLectureNotFound
		}
		return err
	}
	if lecture.CourseID != courseID {
		return domain.ErrLectureNotFound
	}

	if lecture.PublicID != "" {
		if err := u.media.Delete(ctx, lecture.PublicID); err != nil {
			u.log.Warn().Err(err).Str("key", lecture.PublicID).Msg("failed to delete lecture media object")
		}
	}
	if err := u.lectures.Delete(ctx, repository.NoTX, lectureID); err != nil {
		return err
	}
	return u.courses.RemoveLecture(ctx, repository.NoTX, courseID, lectureID)
}

func (u *lectureUC) ListByCourse(ctx context.Context, courseID string) ([]*model.Lecture, error) {
	if courseID == "" {
		return nil, domain.ErrValidation
	}
	return u.lectures.ListByCourse(ctx, repository.NoTX, courseID)
}

func (u *lectureUC) FindByID(ctx context.Context, id string) (*model.Lecture, error) {
	if id == "" {
		return nil, domain.ErrValidation
	}
	lecture, err := u.lectures.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLectureNotFound
		}
		return nil, err
	}
	return lecture, nil
}

const streamURLTTL = 15 * time.Minute

func (u *lectureUC) StreamURL(ctx context.Context, userID, lectureID string) (string, error) {
	if userID == "" || lectureID == "" {
		return "", domain.ErrValidation
	}
	lecture, err := u.FindByID(ctx, lectureID)
	if err != nil {
		return "", err
	}
	if !lecture.IsPreview {
		user, err := u.users.FindByID(ctx, repository.NoTX, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", domain.ErrUserNotFound
			}
			return "", err
		}
		// Enrollment gates paid content; previews are open to any account.
		if !user.IsEnrolled(lecture.CourseID) {
			return "", domain.ErrLectureNotFound
		}
	}
	if lecture.PublicID == "" {
		return "", domain.ErrLectureNotFound
	}
	return u.media.PresignGet(ctx, lecture.PublicID, streamURLTTL)
}
