// Package attention implements the attention timer: an independent
// cooperative task that fires fixed time-of-day reminders on selected
// weekdays, unaffected by pause reasons.
package attention

import (
	"time"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
)

// scanWindowDays bounds the forward day-by-day scan for the next
// occurrence. Any days_of_week mask that selects at least one weekday
// guarantees a hit within one full week.
const scanWindowDays = 7

// Select computes the earliest next occurrence across every enabled
// attention in cfg, given the current local time. Returns ok=false if no
// attention is enabled or none has a usable (days_of_week, times) pairing.
func Select(cfg config.Config, nowLocal time.Time) (model.SchedulerEvent, time.Time, bool) {
	var (
		best      time.Time
		bestEvent model.SchedulerEvent
		found     bool
	)
	for _, a := range cfg.Attentions {
		if !a.Enabled {
			continue
		}
		candidate, ok := nextFire(a, nowLocal)
		if !ok {
			continue
		}
		if !found || candidate.Before(best) {
			best = candidate
			bestEvent = model.AttentionEvent(a.ID)
			found = true
		}
	}
	return bestEvent, best, found
}

// nextFire finds the next local datetime matching a's days_of_week and
// times, starting from today. Today only counts times strictly after
// nowLocal's time-of-day; later days count every configured time (a's
// Times is sorted ascending by SortedTimes, so the first match per day is
// the earliest). Invalid local times from a spring-forward gap are
// skipped with a log; ambiguous fall-back times resolve to Go's
// time.Date default, which picks the pre-transition offset — the earlier
// of the two interpretations.
func nextFire(a config.Attention, nowLocal time.Time) (time.Time, bool) {
	loc := nowLocal.Location()
	nowTime := config.FromLocal(nowLocal)

	for dayOffset := 0; dayOffset <= scanWindowDays; dayOffset++ {
		day := nowLocal.AddDate(0, 0, dayOffset)
		if !a.DaysOfWeek.Contains(day.Weekday()) {
			continue
		}
		for _, t := range a.Times {
			if dayOffset == 0 && !t.After(nowTime) {
				continue
			}
			candidate := time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, t.Second, 0, loc)
			if candidate.Hour() != t.Hour || candidate.Minute() != t.Minute || candidate.Second() != t.Second {
				log.Warn(log.CatAttention, "skipping invalid local time in spring-forward gap",
					"attention_id", a.ID, "time", t.String(), "date", day.Format("2006-01-02"))
				continue
			}
			return candidate, true
		}
	}
	return time.Time{}, false
}
