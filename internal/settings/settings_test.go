package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, Defaults(), snap.Settings)
	assert.Equal(t, int64(1), snap.Version)
	assert.Zero(t, snap.RequestTimeout)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inferform.yaml")
	writeFile(t, path, `
upstream: http://models:9000/
request_timeout: 45s
preview_rows: 25
view_ttl: 1h
theme:
  variant: dark
`)
	t.Setenv("INFERFORM_MAX_VIEWS", "12")

	store, err := Load(path)
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, "http://models:9000", snap.Upstream)
	assert.Equal(t, 45*time.Second, snap.RequestTimeout)
	assert.Equal(t, 25, snap.PreviewRows)
	assert.Equal(t, time.Hour, snap.ViewTTL)
	assert.Equal(t, 12, snap.MaxViews)
	assert.Equal(t, "dark", snap.Theme.Variant)
	assert.Equal(t, path, snap.Source)
}

func TestLoad_PinnedUpstreamWins(t *testing.T) {
	t.Setenv("INFERFORM_UPSTREAM", "http://env:1")

	store, err := Load("", WithUpstream("http://flag:2"))
	require.NoError(t, err)
	assert.Equal(t, "http://flag:2", store.Snapshot().Upstream)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "preview_rows: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestReload_SwapsSnapshotAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inferform.json")
	writeFile(t, path, `{"preview_rows": 5}`)

	store, err := Load(path)
	require.NoError(t, err)

	var got []Snapshot
	store.Subscribe(func(s Snapshot) { got = append(got, s) })

	writeFile(t, path, `{"preview_rows": 7}`)
	require.NoError(t, store.Reload())

	snap := store.Snapshot()
	assert.Equal(t, 7, snap.PreviewRows)
	assert.Equal(t, int64(2), snap.Version)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].PreviewRows)
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inferform.yaml")
	writeFile(t, path, "preview_rows: 5\n")

	store, err := Load(path)
	require.NoError(t, err)

	writeFile(t, path, "preview_rows: -1\n")
	require.Error(t, store.Reload())
	assert.Equal(t, 5, store.Snapshot().PreviewRows)
}
