package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PassesValidation(t *testing.T) {
	assert.NoError(t, Default().validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesIndividualKnobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
game:
  team_size: 3
gacha:
  pity_epic: 10
server:
  addr: ":9090"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Game.TeamSize)
	assert.Equal(t, 10, cfg.Gacha.PityEpic)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	// Untouched knobs keep their defaults.
	assert.Equal(t, Default().Game.MaxTickSeconds, cfg.Game.MaxTickSeconds)
	assert.Equal(t, Default().Prestige.Threshold, cfg.Prestige.Threshold)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("game: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero tick clamp":      "game:\n  max_tick_seconds: 0\n",
		"efficiency above one": "game:\n  offline_efficiency: 1.5\n",
		"zero team":            "game:\n  team_size: 0\n",
		"negative pity":        "gacha:\n  pity_epic: -1\n",
		"bias above one":       "gacha:\n  unowned_bias: 2\n",
		"zero threshold":       "prestige:\n  threshold: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
