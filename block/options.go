package block

import (
	"errors"
	"fmt"

	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/options"
)

// EncoderConfig holds the configuration of an Encoder.
type EncoderConfig struct {
	counters *Counters
	backends []format.Backend
	disabled [format.ModeCount]bool
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{}
}

func (c *EncoderConfig) setStringBackends(backends []format.Backend) error {
	if len(backends) == 0 {
		return errors.New("at least one extended string backend is required")
	}
	for _, b := range backends {
		if !b.IsValid() {
			return fmt.Errorf("invalid extended string backend: %s", b)
		}
	}
	c.backends = backends

	return nil
}

func (c *EncoderConfig) disableModes(modes []format.Mode) error {
	for _, m := range modes {
		switch {
		case !m.IsValid():
			return fmt.Errorf("invalid mode: %s", m)
		case m == format.ModeRaw:
			return errors.New("raw mode cannot be disabled")
		}
		c.disabled[m] = true
	}

	return nil
}

// EncoderOption represents a functional option for configuring an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithCounters records the winning mode of every encoded block in counters.
// The same Counters may be shared by several encoders; nil disables counting.
func WithCounters(counters *Counters) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.counters = counters
	})
}

// WithStringBackends sets the backends the ExtendedString mode tries.
// The default is compress.DefaultStringBackends.
//
// This only affects encoding: decoders accept every backend.
func WithStringBackends(backends ...format.Backend) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setStringBackends(backends)
	})
}

// WithDisabledModes excludes modes from selection. Raw cannot be disabled
// since it guarantees that every block can be encoded.
func WithDisabledModes(modes ...format.Mode) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.disableModes(modes)
	})
}
