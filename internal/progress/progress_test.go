package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscope/internal/models"
)

// collector gathers emissions in order, safely across goroutines
type collector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *collector) add(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) all() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Update, len(c.updates))
	copy(out, c.updates)
	return out
}

func TestTracker_ScriptOrderAndMonotonicity(t *testing.T) {
	c := &collector{}
	tracker := NewTracker(models.CheckModeBasic, WithOnUpdate(c.add))

	stop := tracker.Start(time.Millisecond)
	// Long enough to exhaust the 18-step script and tick into creep
	time.Sleep(100 * time.Millisecond)
	stop()
	tracker.Complete()

	updates := c.all()
	require.NotEmpty(t, updates)

	last := float64(0)
	for i, u := range updates {
		assert.GreaterOrEqual(t, u.Percent, last, "emission %d went backwards", i)
		last = u.Percent
	}

	// Script messages arrive in order
	var messages []string
	for _, u := range updates {
		if u.Message != "" {
			messages = append(messages, u.Message)
		}
	}
	require.GreaterOrEqual(t, len(messages), len(basicScript))
	for i, cp := range basicScript {
		assert.Equal(t, cp.Message, messages[i])
	}

	assert.Equal(t, float64(100), updates[len(updates)-1].Percent)
}

func TestTracker_CreepNeverReaches100(t *testing.T) {
	c := &collector{}
	tracker := NewTracker(models.CheckModeBasic, WithOnUpdate(c.add))

	stop := tracker.Start(time.Millisecond)
	// Run long enough for the script (18 ticks) plus plenty of creep
	time.Sleep(100 * time.Millisecond)
	stop()

	for _, u := range c.all() {
		assert.LessOrEqual(t, u.Percent, float64(99), "percent must stay below 100 until the run settles")
	}

	snap := tracker.Snapshot()
	assert.LessOrEqual(t, snap.Percent, float64(99))
}

func TestTracker_NoTicksAfterStop(t *testing.T) {
	c := &collector{}
	tracker := NewTracker(models.CheckModeBasic, WithOnUpdate(c.add))

	stop := tracker.Start(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	stop()
	tracker.Complete()

	count := len(c.all())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, len(c.all()), "no emissions may fire after stop and completion")

	// stop is idempotent
	stop()
}

func TestTracker_CacheHit(t *testing.T) {
	c := &collector{}
	tracker := NewTracker(models.CheckModeBasic, WithOnUpdate(c.add))

	tracker.CacheHit()

	snap := tracker.Snapshot()
	assert.Equal(t, float64(100), snap.Percent)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Found a recent report for this site", snap.Messages[0])
	assert.Equal(t, "Analysis complete", snap.Messages[1])

	// Terminal state is frozen: later ticks and terminals are ignored
	tracker.tick()
	tracker.Fail("too late")
	assert.Equal(t, snap, tracker.Snapshot())
}

func TestTracker_FailKeepsPercentBelow100(t *testing.T) {
	c := &collector{}
	tracker := NewTracker(models.CheckModeDetailed, WithOnUpdate(c.add))

	stop := tracker.Start(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	stop()
	tracker.Fail("analysis service unavailable")

	snap := tracker.Snapshot()
	assert.Less(t, snap.Percent, float64(100))
	require.NotEmpty(t, snap.Messages)
	assert.Equal(t, "Analysis failed: analysis service unavailable", snap.Messages[len(snap.Messages)-1])
}

func TestTracker_DetailedScriptDiffers(t *testing.T) {
	assert.Equal(t, len(basicScript), len(detailedScript))
	assert.NotEqual(t, basicScript, detailedScript)

	// Both scripts stop short of completion
	assert.Equal(t, float64(99), basicScript[len(basicScript)-1].Percent)
	assert.Equal(t, float64(99), detailedScript[len(detailedScript)-1].Percent)
}
