package app

import (
	"fmt"

	corecmd "github.com/m3rciful/fridgebot/core/cmd"
	coreconfig "github.com/m3rciful/fridgebot/core/config"
)

// DefaultMaxItemsPerLocation keeps the item picker within one inline keyboard.
const DefaultMaxItemsPerLocation = 50

// FridgeConfig holds the inventory settings.
type FridgeConfig struct {
	MaxItemsPerLocation int `yaml:"max_items_per_location" envconfig:"FRIDGE_MAX_ITEMS_PER_LOCATION"`
}

// Config is the full fridgebot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`
	Fridge            FridgeConfig `yaml:"fridge"`
}

// CoreConfig exposes the embedded framework configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads path, overlays the environment and applies defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if cfg.Fridge.MaxItemsPerLocation < 0 {
		return nil, fmt.Errorf("fridge.max_items_per_location must be >= 0")
	}
	if cfg.Fridge.MaxItemsPerLocation == 0 {
		cfg.Fridge.MaxItemsPerLocation = DefaultMaxItemsPerLocation
	}
	return &cfg, nil
}

// LoadCarrier adapts LoadConfig to the runner.
func LoadCarrier(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
