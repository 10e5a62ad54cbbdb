package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"forager/internal/model"
	"forager/internal/recorder"
)

// Config holds all application configuration.
type Config struct {
	Reserves struct {
		Min      int      `yaml:"min"`
		Max      *int     `yaml:"max"`
		Starting *float64 `yaml:"starting"`
	} `yaml:"reserves"`
	Season struct {
		Length *int `yaml:"length"`
	} `yaml:"season"`
	Fitness struct {
		Asymptotic *float64 `yaml:"asymptotic"`
	} `yaml:"fitness"`
	Patches []model.Patch `yaml:"patches"`
	Solver  struct {
		Workers             int  `yaml:"workers"`
		SkipCriticalReserve bool `yaml:"skip_critical_reserve"`
	} `yaml:"solver"`
	Output struct {
		Format string `yaml:"format"`
		Path   string `yaml:"path"`
	} `yaml:"output"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
}

// DefaultPatches are the two foraging patches and the refuge of the classic model.
func DefaultPatches() []model.Patch {
	return []model.Patch{
		{ID: 1, Name: "safe patch", Kind: model.KindForage, EnergyGain: 8, SuccessProbability: 0.5, MortalityRisk: 0.05, Cost: 3},
		{ID: 2, Name: "rich patch", Kind: model.KindForage, EnergyGain: 20, SuccessProbability: 0.2, MortalityRisk: 0.05, Cost: 3},
		{ID: 3, Name: "refuge", Kind: model.KindRefuge, Cost: 3},
	}
}

// Load reads config from a YAML file and fills in defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Defaults
	if cfg.Reserves.Max == nil {
		upper := 100
		cfg.Reserves.Max = &upper
	}
	// Explicit zeros are kept so Validate can reject them.
	if cfg.Reserves.Starting == nil {
		starting := float64(*cfg.Reserves.Max-cfg.Reserves.Min) * 0.25
		cfg.Reserves.Starting = &starting
	}
	if cfg.Season.Length == nil {
		length := 60
		cfg.Season.Length = &length
	}
	if cfg.Fitness.Asymptotic == nil {
		asymptotic := 200.0
		cfg.Fitness.Asymptotic = &asymptotic
	}
	if len(cfg.Patches) == 0 {
		cfg.Patches = DefaultPatches()
	}
	for i := range cfg.Patches {
		if cfg.Patches[i].Kind == "" {
			cfg.Patches[i].Kind = model.KindForage
		}
	}
	if cfg.Solver.Workers == 0 {
		cfg.Solver.Workers = 1
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = recorder.FormatCSV
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = defaultOutputPath(cfg.Output.Format)
	}

	return cfg, nil
}

func defaultOutputPath(format string) string {
	if format == recorder.FormatSQLite {
		return "decisions.db"
	}
	return "decisions.csv"
}

// Params converts the config into solver parameters. Call it on a loaded config only.
func (c *Config) Params() model.Params {
	return model.Params{
		ReserveMin:        c.Reserves.Min,
		ReserveMax:        *c.Reserves.Max,
		SeasonLength:      *c.Season.Length,
		AsymptoticFitness: *c.Fitness.Asymptotic,
		StartingReserves:  *c.Reserves.Starting,
		Patches:           append([]model.Patch(nil), c.Patches...),
	}
}

// Validate checks the model constants, the patches and the output settings.
func (c *Config) Validate() error {
	switch {
	case c.Reserves.Max == nil:
		return fmt.Errorf("%w: reserves.max is required", model.ErrInvalidConfig)
	case c.Reserves.Starting == nil:
		return fmt.Errorf("%w: reserves.starting is required", model.ErrInvalidConfig)
	case c.Season.Length == nil:
		return fmt.Errorf("%w: season.length is required", model.ErrInvalidConfig)
	case c.Fitness.Asymptotic == nil:
		return fmt.Errorf("%w: fitness.asymptotic is required", model.ErrInvalidConfig)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Solver.Workers < 1 {
		return fmt.Errorf("%w: solver.workers must be at least 1", model.ErrInvalidConfig)
	}
	switch c.Output.Format {
	case recorder.FormatCSV, recorder.FormatSQLite:
	default:
		return fmt.Errorf("%w: unknown output.format %q", model.ErrInvalidConfig, c.Output.Format)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path is required", model.ErrInvalidConfig)
	}
	return nil
}
