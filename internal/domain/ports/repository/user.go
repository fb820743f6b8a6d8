package repository

import (
	"context"

	"lms-platform/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	// AddEnrolledCourse appends the course to the user's enrollments idempotently.
	AddEnrolledCourse(ctx context.Context, tx Tx, userID, courseID string) error
	TouchLastActive(ctx context.Context, tx Tx, userID string) error
}
