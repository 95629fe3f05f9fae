package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the key holding the persisted session profile blob.
func (r *CacheKeyStruct) SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:profile", sessionID)
}

// SessionEventsChannel returns the Redis PubSub channel for a session's lifecycle events.
func (r *CacheKeyStruct) SessionEventsChannel(sessionID string) string {
	return fmt.Sprintf("session:%s:events", sessionID)
}

// NavigationKey returns the cache key for a filtered menu of one chrome region.
func (r *CacheKeyStruct) NavigationKey(region, role string) string {
	return fmt.Sprintf("nav:%s:role:%s", region, role)
}

// LoginAuditQueue returns the Redis list feeding the login audit worker.
func (r *CacheKeyStruct) LoginAuditQueue() string {
	return "queue:login_audit"
}

var CacheKey = NewCacheKeyStruct()
