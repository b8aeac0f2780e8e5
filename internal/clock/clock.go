package clock

import "time"

// StartupCycles is the cost of the reset sequence: 7 internal cycles
// followed by the implied jump to the reset vector.
const StartupCycles = 8

// Clock counts CPU cycles. When period is non-zero every Tick sleeps
// period*n to pace the emulation for interactive display.
type Clock struct {
	period  time.Duration
	cycles  uint64
	startup uint64
	sleep   func(time.Duration)
}

func New(period time.Duration) *Clock {
	return &Clock{
		period:  period,
		startup: StartupCycles,
		sleep:   time.Sleep,
	}
}

// Tick advances the counter by n cycles.
func (c *Clock) Tick(n uint32) {
	c.cycles += uint64(n)
	if c.period > 0 && n > 0 {
		c.sleep(c.period * time.Duration(n))
	}
}

// Reset zeroes the counter and charges the startup cycles.
func (c *Clock) Reset() {
	c.cycles = c.startup
}

// Cycles returns the total number of cycles including startup.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// ProgramCycles returns the cycles spent executing the program,
// excluding the startup sequence.
func (c *Clock) ProgramCycles() uint64 {
	if c.cycles < c.startup {
		return 0
	}
	return c.cycles - c.startup
}

func (c *Clock) StartupCycles() uint64 {
	return c.startup
}

func (c *Clock) Period() time.Duration {
	return c.period
}

// SetPeriod changes the per-cycle throttle. Zero disables it.
func (c *Clock) SetPeriod(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.period = d
}
