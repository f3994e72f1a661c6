package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/infra/metrics"
	red "jobportal-subscription/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator is a read-through cache over the plan catalog. The
// catalog is small and effectively static between admin edits, so a plain
// TTL plus invalidate-on-write keeps it honest.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.Client
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.Client, ttl time.Duration) repository.PlanRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	key := fmt.Sprintf("plan:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("plan", "hit")
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			return &plan, nil
		}
		metrics.IncCacheRequest("plan", "miss")
	} else if err != redis.Nil {
		// cache fault: count it, then read through to the source of truth
		metrics.IncCacheRequest("plan", "fault")
	} else {
		metrics.IncCacheRequest("plan", "miss")
	}

	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		b, _ := json.Marshal(plan)
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	const key = "plans:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("plan_list", "hit")
		var plans []*model.Plan
		if json.Unmarshal([]byte(val), &plans) == nil {
			return plans, nil
		}
		metrics.IncCacheRequest("plan_list", "miss")
	} else if err != redis.Nil {
		metrics.IncCacheRequest("plan_list", "fault")
	} else {
		metrics.IncCacheRequest("plan_list", "miss")
	}

	plans, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	b, _ := json.Marshal(plans)
	_ = d.cache.Set(ctx, key, b, d.ttl)
	return plans, nil
}

// Write operations invalidate both the per-plan entry and the full list.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", plan.ID), "plans:all")
	return d.inner.Save(ctx, tx, plan)
}

func (d *planRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", id), "plans:all")
	return d.inner.Delete(ctx, tx, id)
}
