// Package selection implements the pure event-source selection algorithm
// given the current configuration, clock, and break
// counters, it computes the next BreakInfo without any side effects.
package selection

import (
	"time"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/model"
)

// Select computes the next break event for the active schedule at nowUTC,
// or returns ok=false if no schedule is active.
//
// miniBreakCounter is the number of mini breaks completed since the last
// long break; lastBreakTime is the instant of the last completed break,
// or the zero time if none has occurred yet this run.
func Select(cfg config.Config, nowUTC time.Time, miniBreakCounter uint8, lastBreakTime time.Time) (model.BreakInfo, bool) {
	nowLocal := nowUTC.Local()
	nowTime := config.FromLocal(nowLocal)
	nowWeekday := nowLocal.Weekday()

	active, ok := activeSchedule(cfg, nowWeekday, nowTime)
	if !ok {
		return model.BreakInfo{}, false
	}

	isLongDue := active.LongBreaks.Base.Enabled && miniBreakCounter >= active.LongBreaks.AfterMiniBreaks

	var (
		kind model.EventKind
		base config.BaseBreakSettings
	)
	if isLongDue {
		kind, base = model.EventLongBreak, active.LongBreaks.Base
	} else {
		kind, base = model.EventMiniBreak, active.MiniBreaks.Base
	}

	if !base.Enabled {
		return model.BreakInfo{}, false
	}

	anchor := nowUTC
	if !lastBreakTime.IsZero() {
		anchor = lastBreakTime
	}
	breakTime := anchor.Add(time.Duration(active.MiniBreaks.IntervalS) * time.Second)

	var event model.SchedulerEvent
	switch kind {
	case model.EventLongBreak:
		event = model.LongBreakEvent(base.ID)
	default:
		event = model.MiniBreakEvent(base.ID)
	}

	info := model.BreakInfo{
		BreakTime:     breakTime,
		Event:         event,
		PostponeCount: 0,
	}

	if active.NotificationBeforeS > 0 {
		notifyAt := breakTime.Add(-time.Duration(active.NotificationBeforeS) * time.Second)
		if notifyAt.After(nowUTC) {
			info.NotificationTime = &notifyAt
		}
		// notifyAt <= nowUTC: dropped, fires inline at entry instead of being scheduled.
	}

	return info, true
}

// activeSchedule returns the first enabled schedule whose days_of_week and
// time_range contain (weekday, t). Cross-midnight
// ranges (Start > End) never match, by construction of TimeRange.Contains.
func activeSchedule(cfg config.Config, weekday time.Weekday, t config.TimeOfDay) (config.Schedule, bool) {
	for _, s := range cfg.Schedules {
		if !s.Enabled {
			continue
		}
		if !s.DaysOfWeek.Contains(weekday) {
			continue
		}
		if !s.TimeRange.Contains(t) {
			continue
		}
		return s, true
	}
	return config.Schedule{}, false
}
