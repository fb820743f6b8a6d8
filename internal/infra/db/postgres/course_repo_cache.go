package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
	"lms-platform/internal/infra/metrics"
	red "lms-platform/internal/infra/redis"
)

var _ repository.CourseRepository = (*courseRepoCacheDecorator)(nil)

// courseRepoCacheDecorator caches catalog reads in Redis. Purchase initiation
// hits FindByID on every order, and the catalog changes rarely.
type courseRepoCacheDecorator struct {
	inner repository.CourseRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCourseRepoCacheDecorator(inner repository.CourseRepository, cache red.RedisClient) repository.CourseRepository {
	return &courseRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   15 * time.Minute,
	}
}

func (d *courseRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	// Transactional reads bypass the cache; they want the row, possibly locked.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}

	key := fmt.Sprintf("course:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var course model.Course
		if json.Unmarshal([]byte(val), &course) == nil {
			metrics.IncCacheRequest("course", "hit")
			return &course, nil
		}
	}

	metrics.IncCacheRequest("course", "miss")
	course, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(course); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return course, nil
}

func (d *courseRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("course:%s", c.ID))
	return d.inner.Save(ctx, tx, c)
}

func (d *courseRepoCacheDecorator) ListPublished(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Course, error) {
	return d.inner.ListPublished(ctx, tx, offset, limit)
}

func (d *courseRepoCacheDecorator) AddEnrolledStudent(ctx context.Context, tx repository.Tx, courseID, userID string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("course:%s", courseID))
	return d.inner.AddEnrolledStudent(ctx, tx, courseID, userID)
}

func (d *courseRepoCacheDecorator) AddLecture(ctx context.Context, tx repository.Tx, courseID, lectureID string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("course:%s", courseID))
	return d.inner.AddLecture(ctx, tx, courseID, lectureID)
}

func (d *courseRepoCacheDecorator) RemoveLecture(ctx context.Context, tx repository.Tx, courseID, lectureID string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("course:%s", courseID))
	return d.inner.RemoveLecture(ctx, tx, courseID, lectureID)
}
