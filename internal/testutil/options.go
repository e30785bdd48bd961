// Package testutil provides functional-options fixture builders for
// config.Config and its nested types, used across the scheduling core's
// test suites in place of hand-rolled literals.
package testutil

import (
	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/model"
)

// scheduleData holds all data for a Schedule to be built.
type scheduleData struct {
	name                string
	enabled             bool
	timeRange           config.TimeRange
	daysOfWeek          config.DaySet
	notificationBeforeS int32
	miniIntervalS       int32
	miniBase            config.BaseBreakSettings
	longAfterMini       uint8
	longBase            config.BaseBreakSettings
	suggestionsEnabled  bool
}

// defaultBaseBreakSettings returns an always-enabled BaseBreakSettings
// with a freshly allocated ID and generous postpone headroom.
func defaultBaseBreakSettings() config.BaseBreakSettings {
	return config.BaseBreakSettings{
		ID:               model.NextBreakId(),
		Enabled:          true,
		DurationS:        30,
		PostponedS:       300,
		StrictMode:       false,
		MaxPostponeCount: 3,
	}
}

// defaultSchedule returns a Schedule enabled every day, all day, with
// both mini and long breaks enabled — the common case most scheduler
// tests build on top of.
func defaultSchedule(name string) scheduleData {
	return scheduleData{
		name:                name,
		enabled:             true,
		timeRange:           config.TimeRange{Start: config.TimeOfDay{}, End: config.TimeOfDay{Hour: 23, Minute: 59, Second: 59}},
		daysOfWeek:          config.AllDays,
		notificationBeforeS: 0,
		miniIntervalS:       60,
		miniBase:            defaultBaseBreakSettings(),
		longAfterMini:       4,
		longBase:            defaultBaseBreakSettings(),
		suggestionsEnabled:  true,
	}
}

// ScheduleOption configures a Schedule during NewSchedule.
type ScheduleOption func(*scheduleData)

// NewSchedule builds a Schedule with sensible always-on defaults,
// customized by opts.
func NewSchedule(name string, opts ...ScheduleOption) config.Schedule {
	d := defaultSchedule(name)
	for _, opt := range opts {
		opt(&d)
	}
	return config.Schedule{
		Name:                d.name,
		Enabled:             d.enabled,
		TimeRange:           d.timeRange,
		DaysOfWeek:          d.daysOfWeek,
		NotificationBeforeS: d.notificationBeforeS,
		MiniBreaks:          config.MiniBreakSettings{IntervalS: d.miniIntervalS, Base: d.miniBase},
		LongBreaks:          config.LongBreakSettings{AfterMiniBreaks: d.longAfterMini, Base: d.longBase},
		SuggestionsEnabled:  d.suggestionsEnabled,
	}
}

// Disabled marks the schedule disabled.
func Disabled() ScheduleOption {
	return func(d *scheduleData) { d.enabled = false }
}

// Days restricts the schedule to the given weekdays.
func Days(days ...config.Weekday) ScheduleOption {
	return func(d *scheduleData) { d.daysOfWeek = config.NewDaySet(days...) }
}

// ActiveWindow restricts the schedule's time-of-day window.
func ActiveWindow(start, end config.TimeOfDay) ScheduleOption {
	return func(d *scheduleData) { d.timeRange = config.TimeRange{Start: start, End: end} }
}

// NotificationBeforeS sets the pre-break notification lead time.
func NotificationBeforeS(s int32) ScheduleOption {
	return func(d *scheduleData) { d.notificationBeforeS = s }
}

// MiniIntervalS sets the mini-break interval.
func MiniIntervalS(s int32) ScheduleOption {
	return func(d *scheduleData) { d.miniIntervalS = s }
}

// MiniPostponeLimit sets the mini break's max postpone count and
// postponed_s delay.
func MiniPostponeLimit(postponedS int32, max uint8) ScheduleOption {
	return func(d *scheduleData) {
		d.miniBase.PostponedS = postponedS
		d.miniBase.MaxPostponeCount = max
	}
}

// MiniDisabled disables the mini-break base settings.
func MiniDisabled() ScheduleOption {
	return func(d *scheduleData) { d.miniBase.Enabled = false }
}

// LongAfterMiniBreaks sets the mini-break count that triggers a long break.
func LongAfterMiniBreaks(n uint8) ScheduleOption {
	return func(d *scheduleData) { d.longAfterMini = n }
}

// LongDisabled disables the long-break base settings.
func LongDisabled() ScheduleOption {
	return func(d *scheduleData) { d.longBase.Enabled = false }
}

// LongPostponeLimit sets the long break's max postpone count and
// postponed_s delay.
func LongPostponeLimit(postponedS int32, max uint8) ScheduleOption {
	return func(d *scheduleData) {
		d.longBase.PostponedS = postponedS
		d.longBase.MaxPostponeCount = max
	}
}

// attentionData holds all data for an Attention to be built.
type attentionData struct {
	enabled    bool
	daysOfWeek config.DaySet
	times      []config.TimeOfDay
	durationS  int32
	title      string
	message    string
}

func defaultAttention() attentionData {
	return attentionData{
		enabled:    true,
		daysOfWeek: config.AllDays,
		durationS:  30,
		title:      "Attention",
		message:    "Time for a reminder",
	}
}

// AttentionOption configures an Attention during NewAttention.
type AttentionOption func(*attentionData)

// NewAttention builds an Attention enabled every day at the given
// times-of-day, customized by opts.
func NewAttention(times []config.TimeOfDay, opts ...AttentionOption) config.Attention {
	d := defaultAttention()
	d.times = times
	for _, opt := range opts {
		opt(&d)
	}
	a := config.Attention{
		ID:         model.NextAttentionId(),
		Enabled:    d.enabled,
		DaysOfWeek: d.daysOfWeek,
		Times:      d.times,
		DurationS:  d.durationS,
		Title:      d.title,
		Message:    d.message,
	}
	a.SortedTimes()
	return a
}

// AttentionDisabled marks the attention disabled.
func AttentionDisabled() AttentionOption {
	return func(d *attentionData) { d.enabled = false }
}

// AttentionDays restricts the attention to the given weekdays.
func AttentionDays(days ...config.Weekday) AttentionOption {
	return func(d *attentionData) { d.daysOfWeek = config.NewDaySet(days...) }
}
