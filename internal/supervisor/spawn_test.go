package supervisor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joxit/runtasktic/internal/config"
	"github.com/Joxit/runtasktic/internal/supervisor"
)

func awaitResult(t *testing.T, p *supervisor.Process) supervisor.Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := p.Poll(); ok {
			return r
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("process never terminated")
	return supervisor.Result{}
}

func TestSpawnSuccess(t *testing.T) {
	task := &config.Task{ID: "p", Commands: []string{"echo p"}}
	p, err := supervisor.Spawn(context.Background(), task, supervisor.Options{})
	require.NoError(t, err)

	r := awaitResult(t, p)
	assert.True(t, r.Success)
	assert.Equal(t, 0, r.ExitCode)
}

func TestSpawnFailureExitCode(t *testing.T) {
	task := &config.Task{ID: "q", Commands: []string{"false"}}
	p, err := supervisor.Spawn(context.Background(), task, supervisor.Options{})
	require.NoError(t, err)

	r := awaitResult(t, p)
	assert.False(t, r.Success)
	assert.Equal(t, 1, r.ExitCode)
}

func TestSpawnAndCommandConnector(t *testing.T) {
	// The second command must not run if the first fails.
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	task := &config.Task{ID: "r", Commands: []string{"false", "touch " + marker}}
	p, err := supervisor.Spawn(context.Background(), task, supervisor.Options{})
	require.NoError(t, err)

	r := awaitResult(t, p)
	assert.False(t, r.Success)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSpawnRejectsMissingWorkingDir(t *testing.T) {
	task := &config.Task{ID: "s", Commands: []string{"echo s"}}
	_, err := supervisor.Spawn(context.Background(), task, supervisor.Options{WorkingDir: "/no/such/dir"})
	require.Error(t, err)
	var spawnErr *supervisor.SpawnError
	require.ErrorAs(t, err, &spawnErr)
}

func TestSpawnStdoutRedirectsToFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.log")
	task := &config.Task{ID: "t", Commands: []string{"echo hello-runtasktic"}}
	p, err := supervisor.Spawn(context.Background(), task, supervisor.Options{
		Stdout: config.StreamTarget{Path: out},
	})
	require.NoError(t, err)
	r := awaitResult(t, p)
	require.True(t, r.Success)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello-runtasktic")
}

func TestSpawnStdoutDiscarded(t *testing.T) {
	task := &config.Task{ID: "u", Commands: []string{"echo discarded"}}
	p, err := supervisor.Spawn(context.Background(), task, supervisor.Options{
		Stdout: config.StreamTarget{Discard: true},
	})
	require.NoError(t, err)
	r := awaitResult(t, p)
	assert.True(t, r.Success)
}

func TestSpawnBackgroundDefaultsSideFiles(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	task := &config.Task{ID: "v", Commands: []string{"echo background"}}
	p, err := supervisor.Spawn(context.Background(), task, supervisor.Options{Background: true})
	require.NoError(t, err)
	r := awaitResult(t, p)
	require.True(t, r.Success)

	data, err := os.ReadFile(filepath.Join(dir, supervisor.DefaultBackgroundStdout))
	require.NoError(t, err)
	assert.Contains(t, string(data), "background")
}
