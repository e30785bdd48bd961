// Package config holds the scheduler's configuration types (schedules,
// attentions, app exclusions) and a read-mostly, thread-safe view over
// them.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/tracing"
)

// Weekday identifies a day of the week in a schedule's days_of_week mask.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func fromTimeWeekday(wd time.Weekday) Weekday { return Weekday(wd) }

// DaySet is a bitmask over the seven weekdays.
type DaySet uint8

// NewDaySet builds a DaySet from individual weekdays.
func NewDaySet(days ...Weekday) DaySet {
	var d DaySet
	for _, w := range days {
		d |= 1 << uint(w)
	}
	return d
}

// AllDays is a DaySet containing every weekday.
var AllDays = NewDaySet(Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday)

// Contains reports whether wd is set.
func (d DaySet) Contains(wd time.Weekday) bool {
	return d&(1<<uint(fromTimeWeekday(wd))) != 0
}

// TimeOfDay is a local wall-clock time with second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	n, err := fmt.Sscanf(s, "%d:%d:%d", &t.Hour, &t.Minute, &t.Second)
	if err != nil {
		n, err = fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute)
	}
	if n < 2 || err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

// String renders as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) seconds() int { return t.Hour*3600 + t.Minute*60 + t.Second }

// Compare returns -1, 0, 1 as t is before, equal to, or after o.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	a, b := t.seconds(), o.seconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly before o.
func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }

// After reports whether t is strictly after o.
func (t TimeOfDay) After(o TimeOfDay) bool { return t.Compare(o) > 0 }

// FromLocal extracts the TimeOfDay of a local time.Time.
func FromLocal(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// TimeRange is an inclusive local time-of-day window. Cross-midnight
// ranges (Start > End) are unsupported, matching the source behavior.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether t falls within the range, inclusive.
func (r TimeRange) Contains(t TimeOfDay) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ThemeConfig is opaque presentation data passed through to the UI
// collaborator: a preset name plus optional per-token color overrides.
type ThemeConfig struct {
	Preset         string            `mapstructure:"preset"`
	ColorOverrides map[string]string `mapstructure:"color_overrides"`
}

// AudioSettings is opaque presentation data for the audio collaborator.
type AudioSettings struct {
	Enabled bool    `mapstructure:"enabled"`
	SoundID string  `mapstructure:"sound_id"`
	Volume  float64 `mapstructure:"volume"`
}

// BaseBreakSettings carries the fields common to mini and long breaks.
// Only Enabled, DurationS, PostponedS, StrictMode, and MaxPostponeCount
// are read by the scheduling core; the rest is opaque payload forwarded
// to the UI/audio collaborators unexamined.
type BaseBreakSettings struct {
	ID               model.BreakId `mapstructure:"-"`
	Enabled          bool          `mapstructure:"enabled"`
	DurationS        int32         `mapstructure:"duration_s"`
	PostponedS       int32         `mapstructure:"postponed_s"`
	StrictMode       bool          `mapstructure:"strict_mode"`
	MaxPostponeCount uint8         `mapstructure:"max_postpone_count"`
	Audio            AudioSettings `mapstructure:"audio"`
	Theme            ThemeConfig   `mapstructure:"theme"`
	SuggestionsOn    bool          `mapstructure:"suggestions_on"`
}

// MiniBreakSettings configures the short, frequent break.
type MiniBreakSettings struct {
	IntervalS int32             `mapstructure:"interval_s"`
	Base      BaseBreakSettings `mapstructure:"base"`
}

// LongBreakSettings configures the extended break shown every N mini breaks.
type LongBreakSettings struct {
	AfterMiniBreaks uint8             `mapstructure:"after_mini_breaks"`
	Base            BaseBreakSettings `mapstructure:"base"`
}

// Schedule is a weekday- and time-of-day-bounded break policy.
type Schedule struct {
	Name                string            `mapstructure:"name"`
	Enabled             bool              `mapstructure:"enabled"`
	TimeRange           TimeRange         `mapstructure:"time_range"`
	DaysOfWeek          DaySet            `mapstructure:"days_of_week"`
	NotificationBeforeS int32             `mapstructure:"notification_before_s"`
	MiniBreaks          MiniBreakSettings `mapstructure:"mini_breaks"`
	LongBreaks          LongBreakSettings `mapstructure:"long_breaks"`
	SuggestionsEnabled  bool              `mapstructure:"suggestions_enabled"`
}

// Attention is a time-of-day reminder independent of break cadence.
type Attention struct {
	ID         model.AttentionId `mapstructure:"-"`
	Enabled    bool              `mapstructure:"enabled"`
	DaysOfWeek DaySet            `mapstructure:"days_of_week"`
	Times      []TimeOfDay       `mapstructure:"times"`
	DurationS  int32             `mapstructure:"duration_s"`
	Title      string            `mapstructure:"title"`
	Message    string            `mapstructure:"message"`
	Theme      ThemeConfig       `mapstructure:"theme"`
}

// SortedTimes sorts a’s Times ascending in place and removes duplicates.
// Config loading calls this once so the attention timer's scan
// can assume sorted, deduplicated input.
func (a *Attention) SortedTimes() {
	sort.Slice(a.Times, func(i, j int) bool { return a.Times[i].Before(a.Times[j]) })
	out := a.Times[:0]
	for i, t := range a.Times {
		if i == 0 || t.Compare(a.Times[i-1]) != 0 {
			out = append(out, t)
		}
	}
	a.Times = out
}

// ExclusionRule is the polarity of an AppExclusion entry.
type ExclusionRule int

const (
	RulePause ExclusionRule = iota
	RuleResume
)

// AppExclusion pauses or resumes the scheduler based on whether any of a
// set of named processes is currently running.
type AppExclusion struct {
	Rule      ExclusionRule `mapstructure:"rule"`
	Active    bool          `mapstructure:"active"`
	Processes []string      `mapstructure:"processes"`
}

// Config is the full, atomically-replaceable scheduler configuration.
type Config struct {
	Schedules        []Schedule     `mapstructure:"schedules"`
	Attentions       []Attention    `mapstructure:"attentions"`
	AppExclusions    []AppExclusion `mapstructure:"app_exclusions"`
	IdleThresholdS   int32          `mapstructure:"idle_threshold_s"`
	PostponeShortcut string         `mapstructure:"postpone_shortcut"`
	WindowWidth      int            `mapstructure:"window_width"`
	WindowHeight     int            `mapstructure:"window_height"`
	AllScreens       bool           `mapstructure:"all_screens"`
	Language         string         `mapstructure:"language"`
	DndMonitoring    bool           `mapstructure:"dnd_monitoring"`
	Tracing          tracing.Config `mapstructure:"tracing"`
}
