package testutil

import "github.com/pilgrimlyieu/focust/internal/config"

// WithAlwaysOnSchedule adds a schedule named "always-on" that is enabled
// every day, all day, with both mini and long breaks configured — the
// common baseline most scheduler tests build on top of.
func (b *ConfigBuilder) WithAlwaysOnSchedule(opts ...ScheduleOption) *ConfigBuilder {
	return b.WithSchedule(NewSchedule("always-on", opts...))
}

// WithDailyAttention adds an attention reminder firing every day at the
// given times-of-day.
func (b *ConfigBuilder) WithDailyAttention(times []config.TimeOfDay, opts ...AttentionOption) *ConfigBuilder {
	return b.WithAttention(NewAttention(times, opts...))
}
