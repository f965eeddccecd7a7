package app_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/app"
	"planline/internal/config"
	"planline/internal/domain"
	"planline/internal/engine"
	"planline/internal/projects"
	"planline/internal/rules"
)

func openWorkspace(t *testing.T, cfg *config.Config) *app.Workspace {
	t.Helper()
	ws, err := app.Open(context.Background(), app.Options{Workspace: t.TempDir(), Config: cfg, Actor: "dana"})
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestOpenAppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.WBS.DeletePolicy = "cascade"
	ws := openWorkspace(t, cfg)
	assert.Equal(t, rules.WBSCascade, ws.Engine.WBSPolicy)
	assert.Equal(t, "dana", ws.Config.Actor)
	assert.Equal(t, "dana", ws.Projects.Actor)
}

func TestLogLevelOverrideSurfacesSaveFailures(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	ws, err := app.Open(ctx, app.Options{Workspace: t.TempDir(), LogOut: &out, LogLevel: "warn"})
	require.NoError(t, err)
	assert.Equal(t, "info", ws.Config.Log.Level)

	_, err = ws.Projects.CreateProject(ctx, projects.CreateOptions{Name: "Alpha"})
	require.NoError(t, err)
	s, err := ws.Session(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, out.String())

	require.NoError(t, ws.Close())
	_, err = ws.Engine.CreateTask(ctx, s, engine.TaskCreateOptions{Title: "Unsaved"})
	require.NoError(t, err)
	assert.Len(t, s.Data().Tasks, 1)
	assert.Contains(t, out.String(), "save project failed")
}

func TestSessionResolution(t *testing.T) {
	ctx := context.Background()
	ws := openWorkspace(t, nil)

	_, err := ws.Session(ctx, "")
	require.ErrorIs(t, err, projects.ErrNoCurrent)

	p, err := ws.Projects.CreateProject(ctx, projects.CreateOptions{Name: "Alpha", Mode: domain.ModeAgile, Seed: true})
	require.NoError(t, err)
	other, err := ws.Projects.CreateProject(ctx, projects.CreateOptions{Name: "Beta"})
	require.NoError(t, err)
	require.NoError(t, ws.Projects.DeleteProject(ctx, other.ID))

	s, err := ws.Session(ctx, "")
	require.NoError(t, err, "the only remaining project is picked when nothing is current")
	assert.Equal(t, p.ID, s.Project.ID)

	_, err = ws.Engine.CreateTask(ctx, s, engine.TaskCreateOptions{Title: "Persisted"})
	require.NoError(t, err)

	again, err := ws.Session(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, again.Data().Tasks, 1)
	assert.Equal(t, "dana", again.Data().Tasks[0].CreatedBy)

	_, err = ws.Session(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
