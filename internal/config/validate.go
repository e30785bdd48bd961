package config

import "fmt"

// Validate checks a full Config for internal consistency. Returns nil if
// the configuration is valid.
func Validate(cfg Config) error {
	for i, s := range cfg.Schedules {
		if err := ValidateSchedule(s); err != nil {
			return fmt.Errorf("schedules[%d] %q: %w", i, s.Name, err)
		}
	}
	for i, a := range cfg.Attentions {
		if err := ValidateAttention(a); err != nil {
			return fmt.Errorf("attentions[%d]: %w", i, err)
		}
	}
	for i, e := range cfg.AppExclusions {
		if err := ValidateAppExclusion(e); err != nil {
			return fmt.Errorf("app_exclusions[%d]: %w", i, err)
		}
	}
	if cfg.IdleThresholdS < 0 {
		return fmt.Errorf("idle_threshold_s must be >= 0, got %d", cfg.IdleThresholdS)
	}
	return nil
}

// ValidateSchedule checks a single Schedule's fields for consistency.
func ValidateSchedule(s Schedule) error {
	if s.TimeRange.Start.After(s.TimeRange.End) {
		return fmt.Errorf("time_range start %s is after end %s (cross-midnight ranges are unsupported)",
			s.TimeRange.Start, s.TimeRange.End)
	}
	if s.NotificationBeforeS < 0 {
		return fmt.Errorf("notification_before_s must be >= 0, got %d", s.NotificationBeforeS)
	}
	if err := validateBaseBreak(s.MiniBreaks.Base); err != nil {
		return fmt.Errorf("mini_breaks.base: %w", err)
	}
	if s.MiniBreaks.IntervalS <= 0 {
		return fmt.Errorf("mini_breaks.interval_s must be > 0, got %d", s.MiniBreaks.IntervalS)
	}
	if err := validateBaseBreak(s.LongBreaks.Base); err != nil {
		return fmt.Errorf("long_breaks.base: %w", err)
	}
	return nil
}

func validateBaseBreak(b BaseBreakSettings) error {
	if b.DurationS < 0 {
		return fmt.Errorf("duration_s must be >= 0, got %d", b.DurationS)
	}
	if b.PostponedS < 0 {
		return fmt.Errorf("postponed_s must be >= 0, got %d", b.PostponedS)
	}
	return nil
}

// ValidateAttention checks a single Attention's fields for consistency.
func ValidateAttention(a Attention) error {
	if a.DurationS < 0 {
		return fmt.Errorf("duration_s must be >= 0, got %d", a.DurationS)
	}
	for i, t := range a.Times {
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("times[%d] %s has an invalid hour", i, t)
		}
	}
	return nil
}

// ValidateAppExclusion checks a single AppExclusion entry.
func ValidateAppExclusion(e AppExclusion) error {
	if e.Rule != RulePause && e.Rule != RuleResume {
		return fmt.Errorf("rule must be Pause or Resume, got %d", e.Rule)
	}
	if e.Active && len(e.Processes) == 0 {
		return fmt.Errorf("active exclusion must list at least one process")
	}
	return nil
}
