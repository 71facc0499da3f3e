package lottery

import (
	"fmt"
	"time"

	"github.com/shaw8386/server/internal/config"
	"github.com/shaw8386/server/internal/domain"
)

// FloorDelay is the minimum one-shot delay. A ticket whose draw is
// already in the past is still checked through the timer path instead
// of inline, which keeps the request path non-blocking and gives the
// vendor a moment to finish publishing.
const FloorDelay = time.Second

const buyDateLayout = "2006-01-02"

var ErrUnknownRegion = fmt.Errorf("unknown region")

// DrawSchedule is the result of the draw-time computation: the instant
// the first check should run and how far away it is.
type DrawSchedule struct {
	ScheduledTime time.Time
	Delay         time.Duration
}

// EffectiveDelay floors non-positive delays to FloorDelay.
func (s DrawSchedule) EffectiveDelay() time.Duration {
	if s.Delay <= 0 {
		return FloorDelay
	}
	return s.Delay
}

// Due reports whether the draw instant has already passed.
func (s DrawSchedule) Due() bool {
	return s.Delay <= 0
}

// Schedule computes when results for a ticket become checkable. It is
// date-anchored: the buy date's own publish time is used, even for a
// buy date in the future. Pure and deterministic for fixed config.
func Schedule(conf *config.DrawConfig, region domain.Region, buyDate string, now time.Time) (DrawSchedule, error) {
	publish, ok := conf.PublishTimeFor(string(region))
	if !ok {
		return DrawSchedule{}, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	loc := conf.Location()
	day, err := time.ParseInLocation(buyDateLayout, buyDate, loc)
	if err != nil {
		return DrawSchedule{}, fmt.Errorf("time.ParseInLocation(%q) -> %w", buyDate, err)
	}

	scheduled := time.Date(day.Year(), day.Month(), day.Day(), publish.Hour, publish.Minute, 0, 0, loc)

	return DrawSchedule{
		ScheduledTime: scheduled,
		Delay:         scheduled.Sub(now),
	}, nil
}
