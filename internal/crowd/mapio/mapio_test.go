package mapio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"github.com/stretchr/testify/require"
)

const testSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     viewBox="0 0 100 100">
  <path id="wall1" inkscape:label="obstacle" d="M 0,0 10,0 10,5"/>
  <path id="decoration" inkscape:label="marking" d="M 1,1 2,2"/>
  <path id="empty" inkscape:label="obstacle" d="Z"/>
  <path id="nod"/>
</svg>`

func TestExtractPaths(t *testing.T) {
	paths, err := ExtractPaths(strings.NewReader(testSVG))
	require.NoError(t, err)

	// "empty" has no coordinates and "nod" has no d attribute; both drop.
	require.Len(t, paths, 2)

	require.Equal(t, "wall1", paths[0].ID)
	require.Equal(t, ObstacleLabel, paths[0].Label)
	require.Equal(t, []crowd.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}, paths[0].Coordinates)

	require.Equal(t, "decoration", paths[1].ID)
	require.Equal(t, "marking", paths[1].Label)
}

func TestLoadObstacleLines(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "map.svg")
	require.NoError(t, os.WriteFile(svgPath, []byte(testSVG), 0644))

	lines, err := LoadObstacleLines(svgPath)
	require.NoError(t, err)

	// wall1 has three vertices, so two lines; the wire order is
	// (start_x, end_x, start_y, end_y).
	require.Equal(t, []crowd.Line{
		{StartX: 0, EndX: 10, StartY: 0, EndY: 0},
		{StartX: 10, EndX: 10, StartY: 0, EndY: 5},
	}, lines)
}

func TestLoadObstacleLinesNoneFound(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "empty.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><path id="x" d="M 1,1 2,2"/></svg>`
	require.NoError(t, os.WriteFile(svgPath, []byte(svg), 0644))

	_, err := LoadObstacleLines(svgPath)
	require.ErrorIs(t, err, ErrNoObstacles)
}

func TestPathToLines(t *testing.T) {
	require.Nil(t, PathToLines(nil))
	require.Nil(t, PathToLines([]crowd.Point{{X: 1, Y: 1}}))

	lines := PathToLines([]crowd.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	require.Len(t, lines, 2)
	require.Equal(t, crowd.Line{StartX: 1, EndX: 1, StartY: 0, EndY: 1}, lines[1])
}

const testOSMSVG = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1000 800">
  <path style="fill:rgb(85.098039%,81.568627%,78.823529%);stroke:none" d="M 100 100 L 200 100 L 200 200 Z"/>
  <path style="fill:rgb(1%,2%,3%)" d="M 0 0 L 5 5"/>
</svg>`

func TestConvertOSMFiltersBuildings(t *testing.T) {
	var out bytes.Buffer
	err := ConvertOSM(strings.NewReader(testOSMSVG), &out, DefaultOSMOptions())
	require.NoError(t, err)

	converted := out.String()
	// Only the building path survives, relabelled as an obstacle.
	require.Equal(t, 1, strings.Count(converted, "<path"))
	require.Contains(t, converted, `inkscape:label="obstacle"`)
	require.NotContains(t, converted, "rgb(1%,2%,3%)")

	// The output must round-trip through the obstacle loader.
	paths, err := ExtractPaths(strings.NewReader(converted))
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, ObstacleLabel, paths[0].Label)
	require.NotEmpty(t, paths[0].Coordinates)
}

func TestConvertOSMNoBuildings(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path style="fill:rgb(1%,2%,3%)" d="M 0 0 L 1 1"/></svg>`
	var out bytes.Buffer
	err := ConvertOSM(strings.NewReader(svg), &out, DefaultOSMOptions())
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNoObstacles), "conversion failure is its own error class")
}

func TestConvertOSMScaleBar(t *testing.T) {
	var out bytes.Buffer
	opts := DefaultOSMOptions()
	opts.AddScaleBar = true
	require.NoError(t, ConvertOSM(strings.NewReader(testOSMSVG), &out, opts))
	require.Contains(t, out.String(), "<line")
	require.Contains(t, out.String(), "100 m")
}
