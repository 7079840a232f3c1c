package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

const (
	businessSettingsKey = "settings:business"

	fieldMinAdvanceDays    = "min_advance_days"
	fieldMaxAdvanceDays    = "max_advance_days"
	fieldDefaultCapacity   = "default_capacity"
	fieldCancelBeforeHours = "cancel_before_hours"
	fieldTaxPercentage     = "tax_percentage"
	fieldBillDueDays       = "bill_due_days"
	fieldMaxPauseDays      = "max_pause_days"
	fieldLookaheadDays     = "lookahead_days"
)

// RedisSettingsCache keeps the resolved business settings in one Redis hash
// so every process sees an admin change after Invalidate.
type RedisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisSettingsCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisSettingsCache {
	return &RedisSettingsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisSettingsCache) GetBusinessSettings(ctx context.Context) (*setting.BusinessSettings, error) {
	result, err := c.client.HGetAll(ctx, businessSettingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get business settings from cache: %w", err)
	}

	if len(result) == 0 {
		return nil, nil // Cache miss
	}

	var s setting.BusinessSettings
	ints := map[string]*int{
		fieldMinAdvanceDays:    &s.MinAdvanceDays,
		fieldMaxAdvanceDays:    &s.MaxAdvanceDays,
		fieldDefaultCapacity:   &s.DefaultCapacity,
		fieldCancelBeforeHours: &s.CancelBeforeHours,
		fieldBillDueDays:       &s.BillDueDays,
		fieldMaxPauseDays:      &s.MaxPauseDays,
		fieldLookaheadDays:     &s.LookaheadDays,
	}
	for field, dst := range ints {
		v, err := strconv.Atoi(result[field])
		if err != nil {
			// A partial hash is treated as a miss.
			c.logger.Warnw("discarding malformed settings cache entry", "field", field, "error", err)
			return nil, nil
		}
		*dst = v
	}

	tax, err := decimal.NewFromString(result[fieldTaxPercentage])
	if err != nil {
		c.logger.Warnw("discarding malformed settings cache entry", "field", fieldTaxPercentage, "error", err)
		return nil, nil
	}
	s.TaxPercentage = tax

	return &s, nil
}

func (c *RedisSettingsCache) SetBusinessSettings(ctx context.Context, s setting.BusinessSettings) error {
	fields := map[string]interface{}{
		fieldMinAdvanceDays:    s.MinAdvanceDays,
		fieldMaxAdvanceDays:    s.MaxAdvanceDays,
		fieldDefaultCapacity:   s.DefaultCapacity,
		fieldCancelBeforeHours: s.CancelBeforeHours,
		fieldTaxPercentage:     s.TaxPercentage.String(),
		fieldBillDueDays:       s.BillDueDays,
		fieldMaxPauseDays:      s.MaxPauseDays,
		fieldLookaheadDays:     s.LookaheadDays,
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, businessSettingsKey)
	pipe.HSet(ctx, businessSettingsKey, fields)
	if c.ttl > 0 {
		pipe.Expire(ctx, businessSettingsKey, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set business settings in cache: %w", err)
	}

	c.logger.Debugw("business settings cached", "ttl", c.ttl)
	return nil
}

func (c *RedisSettingsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, businessSettingsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate business settings cache: %w", err)
	}

	c.logger.Debugw("business settings cache invalidated")
	return nil
}
