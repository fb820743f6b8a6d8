package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

var _ repository.LectureRepository = (*lectureRepo)(nil)

type lectureRepo struct{ pool *pgxpool.Pool }

func NewLectureRepo(pool *pgxpool.Pool) *lectureRepo {
	return &lectureRepo{pool: pool}
}

const lectureColumns = `id, course_id, title, description, video_url, public_id, duration, is_preview, position, created_at, updated_at`

func (r *lectureRepo) Save(ctx context.Context, tx repository.Tx, l *model.Lecture) error {
	const q = `
INSERT INTO lectures (
  id, course_id, title, description, video_url, public_id, duration, is_preview, position, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  title=$3, description=$4, video_url=$5, public_id=$6, duration=$7, is_preview=$8, position=$9, updated_at=$11;`

	_, err := execSQL(ctx, r.pool, tx, q,
		l.ID, l.CourseID, l.Title, l.Description, l.VideoURL, l.PublicID,
		l.Duration, l.IsPreview, l.Order, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *lectureRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lecture, error) {
	const q = `SELECT ` + lectureColumns + ` FROM lectures WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanLecture(row)
}

func (r *lectureRepo) ListByCourse(ctx context.Context, tx repository.Tx, courseID string) ([]*model.Lecture, error) {
	const q = `SELECT ` + lectureColumns + ` FROM lectures WHERE course_id=$1 ORDER BY position ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Lecture
	for rows.Next() {
		l, err := scanLecture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *lectureRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM lectures WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLecture(row pgx.Row) (*model.Lecture, error) {
	l := &model.Lecture{}
	err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.VideoURL, &l.PublicID,
		&l.Duration, &l.IsPreview, &l.Order, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}
