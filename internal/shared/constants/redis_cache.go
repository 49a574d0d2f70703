package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the application.
// Pattern: eventhub:{module}:{operation}:{identifier}:{params?}

const CACHE_PREFIX = "eventhub"

// Event cache keys
const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :page:X:limit:Y:location:Z:date:D
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

// Event cache TTLs. Listings turn over faster than details because the
// available-seats figure moves with every booking.
const (
	TTL_EVENT_LIST   = 15 * time.Minute
	TTL_EVENT_DETAIL = 2 * time.Minute
)

// Invalidation patterns (used with DeletePattern)
const (
	PATTERN_INVALIDATE_EVENTS_ALL = CACHE_PREFIX + ":events:*"
)

// BuildEventListKey constructs the cache key for a filtered event listing.
func BuildEventListKey(page, limit int, location, date string) string {
	key := fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, page, limit)
	if location != "" {
		key += ":location:" + location
	}
	if date != "" {
		key += ":date:" + date
	}
	return key
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}
