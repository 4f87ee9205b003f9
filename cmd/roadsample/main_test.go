package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoad = `id: r1
planView:
  - {s: 0, x: 0, y: 0, hdg: 0, length: 20, line: {}}
  - {s: 20, x: 20, y: 0, hdg: 0, length: 30, spiral: {curvStart: 0, curvEnd: 0.02}}
objects:
  - {id: pole, s: 10, t: 4, radius: 0.1}
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRun(t *testing.T) {
	roadFile := writeFile(t, "road.yaml", testRoad)
	configFile := writeFile(t, "config.yaml", "logging:\n  level: error\n")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", configFile, roadFile}, &stdout))
	fc, err := geojson.UnmarshalFeatureCollection(stdout.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "centerLane", fc.Features[0].Properties["kind"])
	assert.Equal(t, "pole", fc.Features[1].Properties["id"])

	out := filepath.Join(t.TempDir(), "out.geojson")
	stdout.Reset()
	require.NoError(t, run(context.Background(), []string{"-config", configFile, "-o", out, "-simplify", "0.1", roadFile}, &stdout))
	assert.Zero(t, stdout.Len())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	fc, err = geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
}

func TestRunErrors(t *testing.T) {
	var stdout bytes.Buffer
	assert.Error(t, run(context.Background(), nil, &stdout))
	assert.Error(t, run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.yaml")}, &stdout))
	assert.Error(t, run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "road.yaml"}, &stdout))

	bad := writeFile(t, "road.yaml", "id: r\nplanView: []\n")
	assert.Error(t, run(context.Background(), []string{bad}, &stdout))
}
