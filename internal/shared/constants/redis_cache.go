package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: umrah:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_MEDIUM = 1 * time.Minute  // 1 minute - for departure listings
	TTL_REALTIME_SHORT  = 30 * time.Second // 30 seconds - for live seat counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "umrah"
)

// ================== DEPARTURES MODULE ==================

// Departure Cache Keys
const (
	CACHE_KEY_DEPARTURE_AVAILABILITY = CACHE_PREFIX + ":departures:availability:uuid:" // + departure-id
	CACHE_KEY_DEPARTURES_LIST        = CACHE_PREFIX + ":departures:list"                // + :page:X:limit:Y:status:Z:from:A:to:B
)

// Departure Cache TTLs
const (
	TTL_DEPARTURE_AVAILABILITY = TTL_REALTIME_SHORT  // 30 seconds
	TTL_DEPARTURES_LIST        = TTL_REALTIME_MEDIUM // 1 minute
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_DEPARTURES_LIST = CACHE_KEY_DEPARTURES_LIST + ":*"
)

// ================== HELPER FUNCTIONS ==================

func BuildDepartureAvailabilityKey(departureID string) string {
	return CACHE_KEY_DEPARTURE_AVAILABILITY + departureID
}

// BuildDepartureListKey -> "umrah:departures:list:page:1:limit:20:status:open:from::to:"
func BuildDepartureListKey(page, limit int, status, from, to string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:status:%s:from:%s:to:%s", CACHE_KEY_DEPARTURES_LIST, page, limit, status, from, to)
}
