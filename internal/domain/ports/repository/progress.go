package repository

import (
	"context"

	"lms-platform/internal/domain/model"
)

type ProgressRepository interface {
	Save(ctx context.Context, tx Tx, cp *model.CourseProgress) error
	FindByUserAndCourse(ctx context.Context, tx Tx, userID, courseID string) (*model.CourseProgress, error)
}
