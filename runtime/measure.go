package runtime

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the interval covered by one measured dispatch round.
type TimeSpan = timespan.TimeSpan

func spanSince(start time.Time) TimeSpan {
	return timespan.BetweenTimes(start, time.Now())
}
