package repository

import (
	"context"

	"lms-platform/internal/domain/model"
)

type LectureRepository interface {
	Save(ctx context.Context, tx Tx, l *model.Lecture) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Lecture, error)
	ListByCourse(ctx context.Context, tx Tx, courseID string) ([]*model.Lecture, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
