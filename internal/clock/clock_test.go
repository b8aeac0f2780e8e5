package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_Reset(t *testing.T) {
	c := New(0)
	assert.Equal(t, uint64(0), c.Cycles())
	assert.Equal(t, uint64(0), c.ProgramCycles())

	c.Reset()
	assert.Equal(t, uint64(StartupCycles), c.Cycles())
	assert.Equal(t, uint64(0), c.ProgramCycles())

	c.Tick(5)
	c.Reset()
	assert.Equal(t, uint64(8), c.Cycles(), "startup is charged once per reset")
}

func TestClock_Tick(t *testing.T) {
	c := New(0)
	c.Reset()
	c.Tick(1)
	c.Tick(3)

	assert.Equal(t, uint64(12), c.Cycles())
	assert.Equal(t, uint64(4), c.ProgramCycles())
	assert.Equal(t, uint64(8), c.StartupCycles())
}

func TestClock_Throttle(t *testing.T) {
	var slept []time.Duration
	c := New(time.Millisecond)
	c.sleep = func(d time.Duration) { slept = append(slept, d) }

	c.Tick(3)
	c.Tick(0)
	c.SetPeriod(0)
	c.Tick(2)

	assert.Equal(t, []time.Duration{3 * time.Millisecond}, slept)
	assert.Equal(t, uint64(5), c.Cycles())
}

func TestClock_SetPeriodClampsNegative(t *testing.T) {
	c := New(0)
	c.SetPeriod(-time.Second)
	assert.Equal(t, time.Duration(0), c.Period())
}
