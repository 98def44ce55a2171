package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable balance values. The shipped defaults are the
// canonical balance; a yaml file can override individual knobs.
type Config struct {
	Game     GameConfig     `yaml:"game" json:"game"`
	Gacha    GachaConfig    `yaml:"gacha" json:"gacha"`
	Prestige PrestigeConfig `yaml:"prestige" json:"prestige"`
	Server   ServerConfig   `yaml:"server" json:"server"`
}

type GameConfig struct {
	// MaxTickSeconds clamps a single tick's delta so a stalled clock cannot
	// dump a catch-up jump at the live rate. Large gaps go through the
	// offline reconciler instead.
	MaxTickSeconds    float64 `yaml:"max_tick_seconds" json:"max_tick_seconds"`
	OfflineEfficiency float64 `yaml:"offline_efficiency" json:"offline_efficiency"`
	TeamSize          int     `yaml:"team_size" json:"team_size"`
}

type GachaConfig struct {
	PityEpic      int `yaml:"pity_epic" json:"pity_epic"`
	PityLegendary int `yaml:"pity_legendary" json:"pity_legendary"`
	PityMythical  int `yaml:"pity_mythical" json:"pity_mythical"`
	HistoryCap    int `yaml:"history_cap" json:"history_cap"`
	// UnownedBias is the chance a drop prefers a not-yet-owned rabbit of the
	// rolled rarity when one exists.
	UnownedBias float64 `yaml:"unowned_bias" json:"unowned_bias"`
	// Compensation maps rarity to carrots granted for a duplicate pull.
	Compensation map[string]float64 `yaml:"compensation" json:"compensation"`
}

type PrestigeConfig struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// Milestones maps prestige count to a one-time golden carrot grant.
	Milestones map[int64]float64 `yaml:"milestones" json:"milestones"`
}

type ServerConfig struct {
	Addr             string  `yaml:"addr" json:"addr"`
	TickSeconds      float64 `yaml:"tick_seconds" json:"tick_seconds"`
	AutosaveSeconds  float64 `yaml:"autosave_seconds" json:"autosave_seconds"`
	DataDir          string  `yaml:"data_dir" json:"data_dir"`
	UseDiskStaticDir string  `yaml:"use_disk_static_dir" json:"use_disk_static_dir"`
}

// Default returns the compiled-in balance.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			MaxTickSeconds:    0.25,
			OfflineEfficiency: 0.5,
			TeamSize:          5,
		},
		Gacha: GachaConfig{
			PityEpic:      30,
			PityLegendary: 90,
			PityMythical:  300,
			HistoryCap:    50,
			UnownedBias:   0.9,
			Compensation: map[string]float64{
				"common":    50,
				"uncommon":  150,
				"rare":      500,
				"epic":      2000,
				"legendary": 10000,
				"mythical":  50000,
			},
		},
		Prestige: PrestigeConfig{
			Threshold: 1e9,
			Milestones: map[int64]float64{
				1: 10, 5: 25, 10: 50, 25: 100, 50: 250, 100: 1000,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			TickSeconds:     0.1,
			AutosaveSeconds: 30,
			DataDir:         "data",
		},
	}
}

// Load reads a yaml config file over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Game.MaxTickSeconds <= 0 {
		return fmt.Errorf("game.max_tick_seconds must be positive")
	}
	if c.Game.OfflineEfficiency < 0 || c.Game.OfflineEfficiency > 1 {
		return fmt.Errorf("game.offline_efficiency must be in [0,1]")
	}
	if c.Game.TeamSize < 1 {
		return fmt.Errorf("game.team_size must be at least 1")
	}
	if c.Gacha.PityEpic <= 0 || c.Gacha.PityLegendary <= 0 || c.Gacha.PityMythical <= 0 {
		return fmt.Errorf("gacha pity thresholds must be positive")
	}
	if c.Gacha.UnownedBias < 0 || c.Gacha.UnownedBias > 1 {
		return fmt.Errorf("gacha.unowned_bias must be in [0,1]")
	}
	if c.Prestige.Threshold <= 0 {
		return fmt.Errorf("prestige.threshold must be positive")
	}
	return nil
}
