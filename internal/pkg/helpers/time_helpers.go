package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returning defaultDuration when it is malformed.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// NowUTC returns the current time in UTC truncated to milliseconds, the
// coarsest precision among the supported stores (BSON dates).
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
