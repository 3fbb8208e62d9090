package cli

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

var errNoRooms = errors.New("no rooms file configured")

// config is the solver configuration, read from a TOML file and overlaid
// with command-line flags. Flags win.
type config struct {
	// Rooms is the path to the JSON world description.
	Rooms string `toml:"rooms"`
	// Bits is the number of bits the route must collect.
	Bits int `toml:"bits"`

	Render renderConfig `toml:"render"`
}

// renderConfig enables snapshot rendering when Dir is set.
type renderConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Every  int    `toml:"every"`
}

func loadConfig(path string) (*config, error) {
	var cfg config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *config) validate() error {
	if c.Rooms == "" {
		return errNoRooms
	}
	if c.Bits < 0 {
		return fmt.Errorf("bits must not be negative, got %d", c.Bits)
	}
	return nil
}
