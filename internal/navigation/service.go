package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/model"
)

// Service serves filtered menus, caching each (region, role) result in Redis.
// The cache is an optimisation only; any Redis failure falls back to the filter.
type Service struct {
	filter *Filter
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewService creates a new Service.
func NewService(filter *Filter, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		filter: filter,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.With().Str("component", "navigation").Logger(),
	}
}

// Menu returns the menu of region visible to role.
func (s *Service) Menu(ctx context.Context, region Region, role model.Role) ([]model.MenuEntry, error) {
	if _, err := ParseRegion(string(region)); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return []model.MenuEntry{}, nil
	}

	key := config.CacheKey.NavigationKey(string(region), string(role))

	cached, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var menu []model.MenuEntry
		if jsonErr := json.Unmarshal(cached, &menu); jsonErr == nil {
			return menu, nil
		}
		s.log.Warn().Str("key", key).Msg("Discarding undecodable navigation cache entry")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("key", key).Msg("Navigation cache read failed")
	}

	menu, err := s.filter.ForRegion(region, role)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(menu); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Navigation cache write failed")
		}
	}
	return menu, nil
}
