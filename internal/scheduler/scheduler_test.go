package scheduler

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forager/internal/config"
	"forager/internal/model"
)

const smallConfig = `
reserves:
  min: 0
  max: 5
  starting: 5
season:
  length: 2
fitness:
  asymptotic: 10
patches:
  - id: 1
    energy_gain: 3
    success_probability: 0.5
    cost: 1
  - id: 2
    kind: refuge
output:
  path: %OUT%
`

func writeSmallConfig(t *testing.T) (cfgPath, outPath string) {
	t.Helper()
	dir := t.TempDir()
	outPath = filepath.Join(dir, "decisions.csv")
	cfgPath = filepath.Join(dir, "forager.yaml")
	body := strings.ReplaceAll(smallConfig, "%OUT%", outPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))
	return cfgPath, outPath
}

func TestRun_WritesDecisions(t *testing.T) {
	cfgPath, outPath := writeSmallConfig(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	res, err := Run(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	id, ok := res.Policy.Decisions.At(5, 1)
	require.True(t, ok)
	assert.Equal(t, 2, id)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "1,0\n1,0\n1,0\n1,0\n2,0\n2,0\n", string(data))
}

func TestRun_SQLiteArtifactCarriesRunID(t *testing.T) {
	cfgPath, _ := writeSmallConfig(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Output.Format = "sqlite"
	cfg.Output.Path = filepath.Join(t.TempDir(), "decisions.db")
	require.NoError(t, cfg.Validate())

	res, err := Run(cfg)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", cfg.Output.Path)
	require.NoError(t, err)
	defer db.Close()

	var stored string
	require.NoError(t, db.QueryRow(`SELECT id FROM runs`).Scan(&stored))
	assert.Equal(t, res.RunID, stored)
}

func TestRun_InvalidParams(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	zero := 0.0
	cfg.Reserves.Starting = &zero

	_, err = Run(cfg)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestScheduler_RunNowReloadsConfig(t *testing.T) {
	cfgPath, outPath := writeSmallConfig(t)
	s := NewScheduler(context.Background(), cfgPath)

	require.NoError(t, s.RunNow())
	assert.Equal(t, 1, s.Runs())
	_, err := os.Stat(outPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("season:\n  length: 1\n"), 0644))
	err = s.RunNow()
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Equal(t, 1, s.Runs())
}

func TestScheduler_CancelledContext(t *testing.T) {
	cfgPath, _ := writeSmallConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewScheduler(ctx, cfgPath)
	assert.ErrorIs(t, s.RunNow(), context.Canceled)
}

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(context.Background(), "unused.yaml")
	assert.NoError(t, s.Register("0 0 3 * * *"))
	assert.Error(t, s.Register("not a cron"))
	// Five-field expressions lack the seconds field.
	assert.Error(t, s.Register("0 3 * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
}
