package config

import "github.com/pilgrimlyieu/focust/internal/tracing"

// Defaults returns a Config with sensible default values: a single
// always-on work-hours schedule and no attention reminders configured.
func Defaults() Config {
	return Config{
		Schedules: []Schedule{
			{
				Name:                "Work hours",
				Enabled:             true,
				TimeRange:           TimeRange{Start: TimeOfDay{Hour: 0}, End: TimeOfDay{Hour: 23, Minute: 59, Second: 59}},
				DaysOfWeek:          AllDays,
				NotificationBeforeS: 10,
				MiniBreaks: MiniBreakSettings{
					IntervalS: 1200, // 20 minutes
					Base: BaseBreakSettings{
						Enabled:          true,
						DurationS:        20,
						PostponedS:       300,
						StrictMode:       false,
						MaxPostponeCount: 3,
						Theme:            ThemeConfig{Preset: "default"},
					},
				},
				LongBreaks: LongBreakSettings{
					AfterMiniBreaks: 4,
					Base: BaseBreakSettings{
						Enabled:          true,
						DurationS:        300,
						PostponedS:       300,
						StrictMode:       false,
						MaxPostponeCount: 1,
						Theme:            ThemeConfig{Preset: "default"},
					},
				},
			},
		},
		Attentions:       nil,
		AppExclusions:    nil,
		IdleThresholdS:   300,
		PostponeShortcut: "P",
		WindowWidth:      800,
		WindowHeight:     600,
		AllScreens:       true,
		Language:         "en",
		DndMonitoring:    true,
		Tracing:          tracing.DefaultConfig(),
	}
}
