package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"breakfast-backend/models"

	"github.com/redis/go-redis/v9"
)

const reportTTL = 5 * time.Minute

// ReportCache keeps daily report aggregates in Redis for the dashboard poll
// loop. A nil client degrades to a pass-through (every Get is a miss), so the
// server runs fine without Redis configured.
type ReportCache struct {
	client *redis.Client
}

func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

func reportKey(propertyID string, date time.Time) string {
	return fmt.Sprintf("report:%s:%s", propertyID, date.Format("2006-01-02"))
}

func (c *ReportCache) Get(ctx context.Context, propertyID string, date time.Time) (*models.DailyBreakfastReport, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	val, err := c.client.Get(ctx, reportKey(propertyID, date)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report models.DailyBreakfastReport
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *ReportCache) Set(ctx context.Context, propertyID string, date time.Time, report *models.DailyBreakfastReport) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reportKey(propertyID, date), data, reportTTL).Err()
}

// Invalidate drops the cached report after a consumption mark or sync.
func (c *ReportCache) Invalidate(ctx context.Context, propertyID string, date time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, reportKey(propertyID, date)).Err()
}
