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

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, avatar, bio, enrolled_course_ids, last_active_at, created_at, updated_at`

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, name, email, password_hash, role, avatar, bio, enrolled_course_ids, last_active_at, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  name=$2, email=$3, password_hash=$4, role=$5, avatar=$6, bio=$7, enrolled_course_ids=$8, last_active_at=$9, updated_at=$11;`

	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Avatar, u.Bio,
		u.EnrolledCourseIDs, u.LastActiveAt, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) AddEnrolledCourse(ctx context.Context, tx repository.Tx, userID, courseID string) error {
	// array_append only when absent keeps the call idempotent.
	const q = `
UPDATE users
   SET enrolled_course_ids = array_append(enrolled_course_ids, $2),
       updated_at = NOW()
 WHERE id = $1
   AND NOT ($2 = ANY(enrolled_course_ids));`
	_, err := execSQL(ctx, r.pool, tx, q, userID, courseID)
	return err
}

func (r *userRepo) TouchLastActive(ctx context.Context, tx repository.Tx, userID string) error {
	const q = `UPDATE users SET last_active_at = NOW() WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, userID)
	return err
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Avatar, &u.Bio,
		&u.EnrolledCourseIDs, &u.LastActiveAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role = model.UserRole(role)
	return u, nil
}
