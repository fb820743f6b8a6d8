package repository

import (
	"context"

	"lms-platform/internal/domain/model"
)

type CourseRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Course) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	ListPublished(ctx context.Context, tx Tx, offset, limit int) ([]*model.Course, error)
	// AddEnrolledStudent appends the user to the course roster idempotently.
	AddEnrolledStudent(ctx context.Context, tx Tx, courseID, userID string) error
	AddLecture(ctx context.Context, tx Tx, courseID, lectureID string) error
	RemoveLecture(ctx context.Context, tx Tx, courseID, lectureID string) error
}
