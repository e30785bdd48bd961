package attention_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/scheduler/attention"
)

func mondayTuesdayAttention() config.Attention {
	return config.Attention{
		ID:         1,
		Enabled:    true,
		DaysOfWeek: config.NewDaySet(config.Monday, config.Tuesday),
		Times:      []config.TimeOfDay{{Hour: 23, Minute: 50}},
		DurationS:  60,
		Title:      "Stand up",
	}
}

// TestDayBoundaryScan exercises concrete scenario 6: from Mon 23:55, the
// next fire is Tue 23:50 (same week); from Wed 00:00, the next fire wraps
// to the following Mon 23:50.
func TestDayBoundaryScan(t *testing.T) {
	cfg := config.Config{Attentions: []config.Attention{mondayTuesdayAttention()}}

	monday2355 := time.Date(2024, 1, 1, 23, 55, 0, 0, time.UTC) // a Monday
	require.Equal(t, time.Monday, monday2355.Weekday())

	_, fireAt, ok := attention.Select(cfg, monday2355)
	require.True(t, ok)
	want := time.Date(2024, 1, 2, 23, 50, 0, 0, time.UTC)
	assert.True(t, fireAt.Equal(want), "expected Tue 23:50, got %s", fireAt)

	wed0000 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, wed0000.Weekday())

	_, fireAt2, ok := attention.Select(cfg, wed0000)
	require.True(t, ok)
	wantNextMonday := time.Date(2024, 1, 8, 23, 50, 0, 0, time.UTC)
	assert.True(t, fireAt2.Equal(wantNextMonday), "expected next Mon 23:50, got %s", fireAt2)
}

// TestSameDayBeforeTime picks today's own time-of-day when it hasn't
// passed yet.
func TestSameDayBeforeTime(t *testing.T) {
	cfg := config.Config{Attentions: []config.Attention{mondayTuesdayAttention()}}
	monday0800 := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	_, fireAt, ok := attention.Select(cfg, monday0800)
	require.True(t, ok)
	want := time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC)
	assert.True(t, fireAt.Equal(want))
}

// TestEarliestAcrossMultipleAttentions picks the earliest candidate when
// more than one attention is enabled.
func TestEarliestAcrossMultipleAttentions(t *testing.T) {
	early := config.Attention{
		ID:         1,
		Enabled:    true,
		DaysOfWeek: config.AllDays,
		Times:      []config.TimeOfDay{{Hour: 10, Minute: 0}},
	}
	late := config.Attention{
		ID:         2,
		Enabled:    true,
		DaysOfWeek: config.AllDays,
		Times:      []config.TimeOfDay{{Hour: 15, Minute: 0}},
	}
	disabled := config.Attention{
		ID:         3,
		Enabled:    false,
		DaysOfWeek: config.AllDays,
		Times:      []config.TimeOfDay{{Hour: 9, Minute: 0}},
	}
	cfg := config.Config{Attentions: []config.Attention{late, early, disabled}}

	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	event, fireAt, ok := attention.Select(cfg, now)
	require.True(t, ok)
	assert.Equal(t, early.ID, event.AttentionID)
	assert.True(t, fireAt.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
}

// TestNoEnabledAttentions reports not-ok when nothing is enabled.
func TestNoEnabledAttentions(t *testing.T) {
	cfg := config.Config{Attentions: []config.Attention{{ID: 1, Enabled: false, DaysOfWeek: config.AllDays, Times: []config.TimeOfDay{{Hour: 9}}}}}
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	_, _, ok := attention.Select(cfg, now)
	assert.False(t, ok)
}
