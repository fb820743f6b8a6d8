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

var _ repository.CourseRepository = (*courseRepo)(nil)

type courseRepo struct{ pool *pgxpool.Pool }

func NewCourseRepo(pool *pgxpool.Pool) *courseRepo {
	return &courseRepo{pool: pool}
}

const courseColumns = `id, title, subtitle, description, category, level, price, thumbnail, instructor_id, lecture_ids, enrolled_student_ids, is_published, created_at, updated_at`

func (r *courseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	const q = `
INSERT INTO courses (
  id, title, subtitle, description, category, level, price, thumbnail, instructor_id, lecture_ids, enrolled_student_ids, is_published, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  title=$2, subtitle=$3, description=$4, category=$5, level=$6, price=$7, thumbnail=$8, instructor_id=$9, lecture_ids=$10, enrolled_student_ids=$11, is_published=$12, updated_at=$14;`

	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.Title, c.Subtitle, c.Description, c.Category, string(c.Level), c.Price,
		c.Thumbnail, c.InstructorID, c.LectureIDs, c.EnrolledStudentID, c.IsPublished,
		c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *courseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	const q = `SELECT ` + courseColumns + ` FROM courses WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) ListPublished(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Course, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + courseColumns + ` FROM courses WHERE is_published ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *courseRepo) AddEnrolledStudent(ctx context.Context, tx repository.Tx, courseID, userID string) error {
	const q = `
UPDATE courses
   SET enrolled_student_ids = array_append(enrolled_student_ids, $2),
       updated_at = NOW()
 WHERE id = $1
   AND NOT ($2 = ANY(enrolled_student_ids));`
	_, err := execSQL(ctx, r.pool, tx, q, courseID, userID)
	return err
}

func (r *courseRepo) AddLecture(ctx context.Context, tx repository.Tx, courseID, lectureID string) error {
	const q = `
UPDATE courses
   SET lecture_ids = array_append(lecture_ids, $2),
       updated_at = NOW()
 WHERE id = $1
   AND NOT ($2 = ANY(lecture_ids));`
	_, err := execSQL(ctx, r.pool, tx, q, courseID, lectureID)
	return err
}

func (r *courseRepo) RemoveLecture(ctx context.Context, tx repository.Tx, courseID, lectureID string) error {
	const q = `
UPDATE courses
   SET lecture_ids = array_remove(lecture_ids, $2),
       updated_at = NOW()
 WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, courseID, lectureID)
	return err
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	var level string
	err := row.Scan(&c.ID, &c.Title, &c.Subtitle, &c.Description, &c.Category, &level, &c.Price,
		&c.Thumbnail, &c.InstructorID, &c.LectureIDs, &c.EnrolledStudentID, &c.IsPublished,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.Level = model.CourseLevel(level)
	return c, nil
}
