package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/models"
)

const settingsKey = "scheduling:settings"

// SettingsSource is the store the cache reads through to.
type SettingsSource interface {
	Load(ctx context.Context) (models.SchedulingSettings, error)
	Save(ctx context.Context, s models.SchedulingSettings) error
}

// SettingsCache keeps a JSON snapshot of the settings in redis for ttl.
// Saves go to the source first and then drop the cached copy.
type SettingsCache struct {
	source SettingsSource
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewSettingsCache(source SettingsSource, client *redis.Client, ttl time.Duration, logger *logging.Logger) *SettingsCache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SettingsCache{source: source, client: client, ttl: ttl, logger: logger}
}

func (c *SettingsCache) Load(ctx context.Context) (models.SchedulingSettings, error) {
	raw, err := c.client.Get(ctx, settingsKey).Bytes()
	if err == nil {
		var s models.SchedulingSettings
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			s.ID = models.SettingsID
			return s, nil
		}
		c.logger.Warn("discarding unreadable cached settings")
	} else if !errors.Is(err, redis.Nil) {
		// Cache outages fall back to the source.
		c.logger.Warn("settings cache read failed", "error", err)
	}

	s, err := c.source.Load(ctx)
	if err != nil {
		return models.SchedulingSettings{}, err
	}

	if data, jerr := json.Marshal(s); jerr == nil {
		if serr := c.client.Set(ctx, settingsKey, data, c.ttl).Err(); serr != nil {
			c.logger.Warn("settings cache write failed", "error", serr)
		}
	}
	return s, nil
}

func (c *SettingsCache) Save(ctx context.Context, s models.SchedulingSettings) error {
	if err := c.source.Save(ctx, s); err != nil {
		return err
	}
	if err := c.client.Del(ctx, settingsKey).Err(); err != nil {
		c.logger.Warn("settings cache invalidation failed", "error", err)
	}
	return nil
}
