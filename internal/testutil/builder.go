package testutil

import "github.com/pilgrimlyieu/focust/internal/config"

// ConfigBuilder accumulates schedules, attentions, and app exclusions and
// assembles them into a config.Config.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a builder seeded with the scheduler-wide
// defaults every test can override piecemeal.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: config.Config{
		IdleThresholdS: 300,
	}}
}

// WithSchedule adds a schedule.
func (b *ConfigBuilder) WithSchedule(s config.Schedule) *ConfigBuilder {
	b.cfg.Schedules = append(b.cfg.Schedules, s)
	return b
}

// WithAttention adds an attention reminder.
func (b *ConfigBuilder) WithAttention(a config.Attention) *ConfigBuilder {
	b.cfg.Attentions = append(b.cfg.Attentions, a)
	return b
}

// WithAppExclusion adds an app-whitelist rule.
func (b *ConfigBuilder) WithAppExclusion(e config.AppExclusion) *ConfigBuilder {
	b.cfg.AppExclusions = append(b.cfg.AppExclusions, e)
	return b
}

// WithIdleThresholdS overrides the idle-pause threshold.
func (b *ConfigBuilder) WithIdleThresholdS(s int32) *ConfigBuilder {
	b.cfg.IdleThresholdS = s
	return b
}

// WithDndMonitoring toggles the DND monitor's enable flag.
func (b *ConfigBuilder) WithDndMonitoring(enabled bool) *ConfigBuilder {
	b.cfg.DndMonitoring = enabled
	return b
}

// Build returns the assembled Config.
func (b *ConfigBuilder) Build() config.Config {
	return b.cfg
}
