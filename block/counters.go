package block

import (
	"sync/atomic"

	"github.com/arloliu/td512/format"
)

// Counters tracks how many blocks were encoded with each mode.
//
// The zero value is ready to use. A nil *Counters ignores updates, which
// lets encoders run without instrumentation.
type Counters struct {
	counts [format.ModeCount]atomic.Uint64
}

// NewCounters creates a new set of zeroed counters.
func NewCounters() *Counters {
	return &Counters{}
}

// Add records one block encoded with mode. Invalid modes are ignored.
func (c *Counters) Add(mode format.Mode) {
	if c == nil || !mode.IsValid() {
		return
	}
	c.counts[mode].Add(1)
}

// Load returns the current count for mode.
func (c *Counters) Load(mode format.Mode) uint64 {
	if c == nil || !mode.IsValid() {
		return 0
	}

	return c.counts[mode].Load()
}

// Reset zeroes every counter.
//
// Blocks encoded concurrently with Reset may or may not be counted.
func (c *Counters) Reset() {
	if c == nil {
		return
	}
	for i := range c.counts {
		c.counts[i].Store(0)
	}
}

// Snapshot returns the current counts. Each count is read atomically, but
// the snapshot as a whole is not taken at a single instant.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Raw:            c.Load(format.ModeRaw),
		Td64:           c.Load(format.ModeTd64),
		ExtendedString: c.Load(format.ModeExtendedString),
		ExtendedText:   c.Load(format.ModeExtendedText),
	}
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Raw            uint64
	Td64           uint64
	ExtendedString uint64
	ExtendedText   uint64
}

// Get returns the count for mode, or zero for an invalid mode.
func (s Snapshot) Get(mode format.Mode) uint64 {
	switch mode {
	case format.ModeRaw:
		return s.Raw
	case format.ModeTd64:
		return s.Td64
	case format.ModeExtendedString:
		return s.ExtendedString
	case format.ModeExtendedText:
		return s.ExtendedText
	default:
		return 0
	}
}

// Total returns the number of blocks across all modes.
func (s Snapshot) Total() uint64 {
	return s.Raw + s.Td64 + s.ExtendedString + s.ExtendedText
}

// Percent returns the share of blocks encoded with mode, in [0, 100].
// It returns 0 when no blocks were counted.
func (s Snapshot) Percent(mode format.Mode) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}

	return float64(s.Get(mode)) * 100 / float64(total)
}
