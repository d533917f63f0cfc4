package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// HTML datetime-local inputs submit this layout
const DateTimeLocalLayout = "2006-01-02T15:04"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDateTimeLocal parses a datetime-local form value, falling back to RFC3339.
// Values without a zone are interpreted in loc.
func ParseDateTimeLocal(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateTimeLocalLayout, value, loc)
	if err == nil {
		return t.UTC(), nil
	}
	t, rfcErr := time.Parse(time.RFC3339, value)
	if rfcErr != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
