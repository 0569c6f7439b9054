// Package mapio converts map files into obstacle line sets for the
// simulation core. It understands Inkscape-edited SVG maps (paths labelled
// "obstacle") and the SVG exports produced by OpenStreetMap, which are
// first filtered down to building outlines.
package mapio

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/crowd-dynamics/crowdsim/internal/crowd"
)

// ObstacleLabel marks an SVG path as an obstacle for the simulation.
const ObstacleLabel = "obstacle"

const inkscapeNS = "http://www.inkscape.org/namespaces/inkscape"

// ErrNoObstacles reports an SVG file from which no obstacle lines could be
// extracted. This is a loader-level failure only; the core itself accepts
// empty obstacle sets.
var ErrNoObstacles = errors.New("mapio: no obstacle paths found")

// PathInfo is the raw content of one SVG path element.
type PathInfo struct {
	ID          string
	Label       string // inkscape:label attribute, if any
	Coordinates []crowd.Point
}

// coordinatePattern matches "x,y" or "x y" coordinate pairs inside an SVG
// path's d attribute. Path commands are ignored: map paths are polylines of
// absolute coordinates.
var coordinatePattern = regexp.MustCompile(`([+-]?[0-9]*\.?[0-9]+)[, ]([+-]?[0-9]*\.?[0-9]+)`)

// svgNode is a schema-free view of an SVG element tree.
type svgNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []svgNode  `xml:",any"`
}

func (n *svgNode) attr(space, local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local != local {
			continue
		}
		// Accept both resolved namespace URLs and bare prefixes; the
		// decoder leaves undeclared prefixes unresolved.
		if space == "" || a.Name.Space == space || a.Name.Space == "inkscape" {
			return a.Value
		}
	}
	return ""
}

// ExtractPaths parses an SVG document and returns the coordinates, id and
// inkscape:label of every path element that carries coordinates. Paths
// without a d attribute are skipped; paths whose d attribute yields no
// coordinate pairs are skipped with a warning.
func ExtractPaths(r io.Reader) ([]PathInfo, error) {
	var root svgNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("mapio: parse svg: %w", err)
	}

	var paths []PathInfo
	walkNodes(&root, func(n *svgNode) {
		if n.XMLName.Local != "path" {
			return
		}
		d := n.attr("", "d")
		if d == "" {
			return
		}
		id := n.attr("", "id")

		matches := coordinatePattern.FindAllStringSubmatch(d, -1)
		if len(matches) == 0 {
			log.Printf("mapio: no coordinates found for path %q", id)
			return
		}

		coords := make([]crowd.Point, 0, len(matches))
		for _, m := range matches {
			x, errX := strconv.ParseFloat(m[1], 64)
			y, errY := strconv.ParseFloat(m[2], 64)
			if errX != nil || errY != nil {
				continue
			}
			coords = append(coords, crowd.Point{X: x, Y: y})
		}

		paths = append(paths, PathInfo{
			ID:          id,
			Label:       n.attr(inkscapeNS, "label"),
			Coordinates: coords,
		})
	})
	return paths, nil
}

// ExtractPathsFile is ExtractPaths for a file on disk.
func ExtractPathsFile(path string) ([]PathInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapio: open %s: %w", path, err)
	}
	defer f.Close()

	log.Printf("mapio: extracting path information from %s", path)
	return ExtractPaths(f)
}

// LoadObstacleLines reads an SVG map and converts every path labelled
// ObstacleLabel into obstacle lines, one per consecutive vertex pair, in
// the core's (start_x, end_x, start_y, end_y) field order. An extraction
// result with no obstacle lines fails with ErrNoObstacles.
func LoadObstacleLines(path string) ([]crowd.Line, error) {
	paths, err := ExtractPathsFile(path)
	if err != nil {
		return nil, err
	}

	var lines []crowd.Line
	for _, p := range paths {
		if p.Label != ObstacleLabel {
			continue
		}
		lines = append(lines, PathToLines(p.Coordinates)...)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoObstacles, path)
	}
	return lines, nil
}

// PathToLines converts a vertex polyline into obstacle lines.
func PathToLines(vertices []crowd.Point) []crowd.Line {
	if len(vertices) < 2 {
		return nil
	}
	lines := make([]crowd.Line, 0, len(vertices)-1)
	for i := 0; i+1 < len(vertices); i++ {
		lines = append(lines, crowd.Line{
			StartX: vertices[i].X,
			EndX:   vertices[i+1].X,
			StartY: vertices[i].Y,
			EndY:   vertices[i+1].Y,
		})
	}
	return lines
}

func walkNodes(n *svgNode, visit func(*svgNode)) {
	visit(n)
	for i := range n.Children {
		walkNodes(&n.Children[i], visit)
	}
}
