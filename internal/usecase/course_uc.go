package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

var _ CourseUseCase = (*courseUC)(nil)

type CourseUseCase interface {
	Create(ctx context.Context, in CreateCourseInput) (*model.Course, error)
	FindByID(ctx context.Context, id string) (*model.Course, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*model.Course, error)
	Update(ctx context.Context, c *model.Course) error
}

type CreateCourseInput struct {
	Title        string
	Subtitle     string
	Description  string
	Category     string
	Level        string
	Thumbnail    string
	Price        int64 // major currency units
	InstructorID string
}

const defaultPageSize = 20

type courseUC struct {
	courses repository.CourseRepository
}

func NewCourseUseCase(courses repository.CourseRepository) *courseUC {
	return &courseUC{courses: courses}
}

func (u *courseUC) Create(ctx context.Context, in CreateCourseInput) (*model.Course, error) {
	course, err := model.NewCourse(uuid.NewString(), in.Title, in.Description, in.Category, in.InstructorID, in.Price)
	if err != nil {
		return nil, err
	}
	course.Subtitle = in.Subtitle
	course.Thumbnail = in.Thumbnail
	if in.Level != "" {
		switch level := model.CourseLevel(in.Level); level {
		case model.CourseLevelBeginner, model.CourseLevelIntermediate, model.CourseLevelAdvanced:
			course.Level = level
		default:
			return nil, domain.ErrValidation
		}
	}
	if err := u.courses.Save(ctx, repository.NoTX, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (u *courseUC) FindByID(ctx context.Context, id string) (*model.Course, error) {
	if id == "" {
		return nil, domain.ErrValidation
	}
	course, err := u.courses.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (u *courseUC) ListPublished(ctx context.Context, page, pageSize int) ([]*model.Course, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	return u.courses.ListPublished(ctx, repository.NoTX, (page-1)*pageSize, pageSize)
}

func (u *courseUC) Update(ctx context.Context, c *model.Course) error {
	if c == nil || c.ID == "" {
		return domain.ErrValidation
	}
	if _, err := u.courses.FindByID(ctx, repository.NoTX, c.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCourseNotFound
		}
		return err
	}
	return u.courses.Save(ctx, repository.NoTX, c)
}
