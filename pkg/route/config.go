package route

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pinroute/pkg/errors"
)

// Config holds the tunable routing parameters. All fields have working
// defaults from [DefaultConfig]; a TOML file can override any subset:
//
//	cell_size = 0.5
//	cross_penalty = 75.0
//	seed = 42
type Config struct {
	// CellSize is the grid resolution in world units.
	CellSize float64 `toml:"cell_size" json:"cell_size"`

	// EdgeClearance is the buffer along the outline boundary, in cells.
	EdgeClearance int `toml:"edge_clearance" json:"edge_clearance"`

	// CrossPenalty is the minimum-crossing mode cost for entering a
	// foreign net's occupied stretch. Tunable: higher values trade path
	// length for fewer ripped-up nets.
	CrossPenalty float64 `toml:"cross_penalty" json:"cross_penalty"`

	// OrderingBudget bounds the outer loop over net orderings.
	OrderingBudget int `toml:"ordering_budget" json:"ordering_budget"`

	// RipupBudget bounds the inner rip-up/reroute loop per ordering.
	RipupBudget int `toml:"ripup_budget" json:"ripup_budget"`

	// SnapRadius is how far (in cells) a pin may snap to reach routable
	// ground when its own cell is blocked, e.g. inside a keepout.
	SnapRadius int `toml:"snap_radius" json:"snap_radius"`

	// Seed drives the ordering shuffles. Identical inputs with the same
	// seed produce identical results.
	Seed int64 `toml:"seed" json:"seed"`
}

// DefaultConfig returns the default routing parameters.
func DefaultConfig() Config {
	return Config{
		CellSize:       1.0,
		EdgeClearance:  1,
		CrossPenalty:   50,
		OrderingBudget: 300,
		RipupBudget:    100,
		SnapRadius:     5,
		Seed:           1,
	}
}

// LoadConfigFile reads a TOML config file over the defaults.
// Unknown keys are rejected so typos fail loudly.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key: %s", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parameters are usable.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell_size must be positive, got %v", c.CellSize)
	}
	if c.EdgeClearance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "edge_clearance must be non-negative, got %d", c.EdgeClearance)
	}
	if c.CrossPenalty <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cross_penalty must be positive, got %v", c.CrossPenalty)
	}
	if c.OrderingBudget < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ordering_budget must be at least 1, got %d", c.OrderingBudget)
	}
	if c.RipupBudget < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ripup_budget must be at least 1, got %d", c.RipupBudget)
	}
	if c.SnapRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap_radius must be non-negative, got %d", c.SnapRadius)
	}
	return nil
}
