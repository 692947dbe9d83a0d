package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/metrics"
	red "flerr-server/internal/infra/redis"
)

var _ repository.CourseRepository = (*courseRepoCacheDecorator)(nil)

// courseRepoCacheDecorator adds a Redis read-through cache for the hot
// course-by-slug path. Writes invalidate the affected keys.
type courseRepoCacheDecorator struct {
	inner repository.CourseRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCourseRepoCacheDecorator(inner repository.CourseRepository, cache red.RedisClient, ttl time.Duration) repository.CourseRepository {
	return &courseRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func courseSlugKey(slug string) string { return fmt.Sprintf("course:slug:%s", slug) }

func (d *courseRepoCacheDecorator) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Course, error) {
	key := courseSlugKey(slug)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var c model.Course
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.IncCacheRequest("course", "hit")
			return &c, nil
		}
	}

	metrics.IncCacheRequest("course", "miss")
	c, err := d.inner.FindBySlug(ctx, tx, slug)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(c); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return c, nil
}

func (d *courseRepoCacheDecorator) Create(ctx context.Context, tx repository.Tx, c *model.Course) error {
	return d.inner.Create(ctx, tx, c)
}

func (d *courseRepoCacheDecorator) Update(ctx context.Context, tx repository.Tx, c *model.Course) error {
	_ = d.cache.Del(ctx, courseSlugKey(c.Slug))
	return d.inner.Update(ctx, tx, c)
}

func (d *courseRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if c, err := d.inner.FindByID(ctx, tx, id); err == nil {
		_ = d.cache.Del(ctx, courseSlugKey(c.Slug))
	}
	return d.inner.Delete(ctx, tx, id)
}

func (d *courseRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	return d.inner.FindByID(ctx, tx, id)
}

func (d *courseRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error) {
	return d.inner.List(ctx, tx, f, offset, limit)
}

func (d *courseRepoCacheDecorator) CountPublished(ctx context.Context, tx repository.Tx) (int, error) {
	return d.inner.CountPublished(ctx, tx)
}

func (d *courseRepoCacheDecorator) TopByStudents(ctx context.Context, tx repository.Tx, limit int) ([]*model.Course, error) {
	return d.inner.TopByStudents(ctx, tx, limit)
}
