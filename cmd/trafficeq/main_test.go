package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := newRootCommand(context.Background(), "test")
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSweepMetricsPaths(t *testing.T) {
	db := filepath.Join(t.TempDir(), "run.db")

	out, err := execute(t, "sweep", "--scenario", "corridor", "--store", db, "--alphas", "0,1", "-w", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "0.0000"))
	assert.Contains(t, lines[1], "converged")
	assert.True(t, strings.HasPrefix(lines[2], "1.0000"))

	out, err = execute(t, "metrics", "--scenario", "corridor", "--store", db)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)

	out, err = execute(t, "paths", "--store", db, "--links", "0", "--class", "non_routed")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"alpha", "link_0"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0.0000", "0.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1.0000", "500.00"}, strings.Fields(lines[2]))
}

func TestPathsRoutes(t *testing.T) {
	db := filepath.Join(t.TempDir(), "run.db")
	_, err := execute(t, "sweep", "--scenario", "diamond", "--store", db, "--alphas", "1")
	require.NoError(t, err)

	// everybody cognitive sits on the highway, so a routed newcomer takes the detour
	out, err := execute(t, "paths", "--scenario", "diamond", "--store", db, "--routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"alpha", "origin", "destination", "links"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1.0000", "1", "3", "1,2"}, strings.Fields(lines[1]))

	out, err = execute(t, "paths", "--scenario", "diamond", "--store", db, "--routes", "--class", "non_routed")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"1.0000", "1", "3", "0"}, strings.Fields(lines[1]))

	_, err = execute(t, "paths", "--store", db, "--routes")
	assert.Error(t, err, "routes need a network")
}

func TestSweepFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trafficeq.toml")
	body := `
[sweep]
alphas = [0.5]
scale = 4000.0

[store]
path = "` + filepath.ToSlash(filepath.Join(dir, "cfg.db")) + `"

[log]
level = "warn"
file = "` + filepath.ToSlash(filepath.Join(dir, "trafficeq.log")) + `"

[[network.links]]
tail = 1
head = 2
capacity = 1000.0
fftt = 10.0

[[network.demands]]
origin = 1
destination = 2
volume = 500.0
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := execute(t, "sweep", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0.5000")
	assert.FileExists(t, filepath.Join(dir, "cfg.db"))

	_, err = execute(t, "sweep", "-c", path, "--scenario", "diamond")
	assert.ErrorContains(t, err, "conflicts")
}

func TestCommandErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	_, err := execute(t, "sweep", "--store", db)
	assert.ErrorContains(t, err, "no network")

	_, err = execute(t, "sweep", "--store", db, "--scenario", "ring")
	assert.ErrorContains(t, err, "unknown scenario")

	_, err = execute(t, "sweep", "--store", db, "--scenario", "diamond", "--alphas", "2")
	assert.Error(t, err)

	_, err = execute(t, "metrics", "--store", db, "--scenario", "diamond")
	assert.ErrorContains(t, err, "no results")

	_, err = execute(t, "paths", "--store", db)
	assert.ErrorContains(t, err, "no links")

	_, err = execute(t, "sweep", "-c", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestScenarios(t *testing.T) {
	assert.Equal(t, "braess|corridor|diamond|grid", scenarioNames())
	for name := range scenarios {
		n, err := buildScenario(name)
		require.NoError(t, err, name)
		assert.Positive(t, n.TotalVolume(), name)
	}
}

func TestSignalsCancelContext(t *testing.T) {
	ctx, cancel := withSignals(context.Background())
	defer cancel()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}

func TestSignalsCancelReleasesContext(t *testing.T) {
	ctx, cancel := withSignals(context.Background())
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
