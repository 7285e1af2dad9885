package roundtrip

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ReferenceFixture is the Impala query profile used when no fixture is
// configured.
const ReferenceFixture = "testdata/impala_profile_log_tpcds_compute_stats_extended.expected.pretty.json"

// Config describes a verification run: every fixture is verified with every
// codec at every level.
type Config struct {
	Fixtures []string `toml:"fixtures"`
	Codecs   []string `toml:"codecs"`
	Levels   []int    `toml:"levels"`
}

// DefaultConfig verifies the reference fixture with zlib at level 3.
func DefaultConfig() *Config {
	return &Config{
		Fixtures: []string{ReferenceFixture},
		Codecs:   []string{DefaultCodec},
		Levels:   []int{3},
	}
}

// LoadConfig decodes the TOML file at path over the default config.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every list is set and names only known codecs and
// accepted levels.
func (c *Config) Validate() error {
	if len(c.Fixtures) == 0 {
		return errors.New("no fixtures")
	}
	if len(c.Codecs) == 0 {
		return errors.New("no codecs")
	}
	if len(c.Levels) == 0 {
		return errors.New("no levels")
	}
	for _, name := range c.Codecs {
		if !validCodec(name) {
			return fmt.Errorf("%w: %q", ErrUnknownCodec, name)
		}
	}
	for _, level := range c.Levels {
		if err := checkLevel(level); err != nil {
			return err
		}
	}
	return nil
}

// Run measures every fixture, codec and level combination. fn is called
// with each result when not nil; the first failure stops the run.
func (c *Config) Run(fn func(fixture string, r Result)) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, fixture := range c.Fixtures {
		input, err := LoadFixture(fixture)
		if err != nil {
			return err
		}
		for _, name := range c.Codecs {
			codec, err := Lookup(name)
			if err != nil {
				return err
			}
			for _, level := range c.Levels {
				r, err := Measure(codec, input, level)
				if err != nil {
					return fmt.Errorf("%s: %w", fixture, err)
				}
				if fn != nil {
					fn(fixture, r)
				}
			}
		}
	}
	return nil
}
