package config_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pilgrimlyieu/focust/internal/config"
)

func TestViewSnapshotReflectsReplace(t *testing.T) {
	v := config.NewView(config.Defaults())
	snap := v.Snapshot()
	assert.Len(t, snap.Schedules, 1)

	updated := config.Defaults()
	updated.Schedules = nil
	v.Replace(updated)

	assert.Empty(t, v.Snapshot().Schedules)
}

func TestViewConcurrentReadWrite(t *testing.T) {
	v := config.NewView(config.Defaults())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = v.Snapshot()
		}()
		go func() {
			defer wg.Done()
			v.Replace(config.Defaults())
		}()
	}
	wg.Wait()
}
