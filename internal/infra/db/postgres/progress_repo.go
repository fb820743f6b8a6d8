package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

var _ repository.ProgressRepository = (*progressRepo)(nil)

// progressRepo keeps the per-lecture entries as one jsonb document per
// user+course pair, mirroring how progress is always read and written whole.
type progressRepo struct{ pool *pgxpool.Pool }

func NewProgressRepo(pool *pgxpool.Pool) *progressRepo {
	return &progressRepo{pool: pool}
}

func (r *progressRepo) Save(ctx context.Context, tx repository.Tx, cp *model.CourseProgress) error {
	lectures, err := json.Marshal(cp.Lectures)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO course_progress (
  id, user_id, course_id, is_completed, completion_percentage, lectures, last_accessed, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (user_id, course_id) DO UPDATE SET
  is_completed=$4, completion_percentage=$5, lectures=$6, last_accessed=$7, updated_at=$9;`

	_, err = execSQL(ctx, r.pool, tx, q,
		cp.ID, cp.UserID, cp.CourseID, cp.IsCompleted, cp.CompletionPercentage,
		lectures, cp.LastAccessed, cp.CreatedAt, cp.UpdatedAt)
	return err
}

func (r *progressRepo) FindByUserAndCourse(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.CourseProgress, error) {
	const q = `SELECT id, user_id, course_id, is_completed, completion_percentage, lectures, last_accessed, created_at, updated_at FROM course_progress WHERE user_id=$1 AND course_id=$2 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, courseID)
	if err != nil {
		return nil, err
	}

	cp := &model.CourseProgress{}
	var lectures []byte
	err = row.Scan(&cp.ID, &cp.UserID, &cp.CourseID, &cp.IsCompleted, &cp.CompletionPercentage,
		&lectures, &cp.LastAccessed, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(lectures) > 0 {
		if err := json.Unmarshal(lectures, &cp.Lectures); err != nil {
			return nil, err
		}
	}
	return cp, nil
}
