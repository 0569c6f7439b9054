package mapio

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBuildingColor is the fill colour OpenStreetMap exports use for
// building footprints, in the percentage RGB form found in the SVG style
// attributes.
const DefaultBuildingColor = "rgb(85.098039%,81.568627%,78.823529%)"

// OSMOptions controls the OpenStreetMap SVG conversion.
type OSMOptions struct {
	BuildingColor  string  // style substring selecting building elements
	MapScaleFactor float64 // export scale; converted to meters below
	AddScaleBar    bool
	ScaleBarMeters int
}

// DefaultOSMOptions returns the conversion defaults.
func DefaultOSMOptions() OSMOptions {
	return OSMOptions{
		BuildingColor:  DefaultBuildingColor,
		MapScaleFactor: 5000,
		AddScaleBar:    false,
		ScaleBarMeters: 100,
	}
}

// pathTokenPattern splits an SVG path d attribute into commands and
// numbers so the numbers can be rescaled in place.
var pathTokenPattern = regexp.MustCompile(`([A-Za-z])|(-?\d+(?:\.\d+)?)`)

// ConvertOSM reads an OpenStreetMap SVG export, keeps only the elements
// whose style matches the building colour, rescales their coordinates into
// meters, labels the paths as obstacles, and writes a cleaned SVG that
// LoadObstacleLines can consume. Zero matching elements is an error.
func ConvertOSM(r io.Reader, w io.Writer, opts OSMOptions) error {
	var root svgNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return fmt.Errorf("mapio: parse osm svg: %w", err)
	}

	if opts.BuildingColor == "" {
		opts.BuildingColor = DefaultBuildingColor
	}

	// The empirical correction maps the export scale onto meters. The
	// upstream export pipeline gives no exact figure, so this stays an
	// approximation.
	scale := opts.MapScaleFactor / 1350 / 4.08
	log.Printf("mapio: osm scale factor %g", scale)

	var buildings []*svgNode
	walkNodes(&root, func(n *svgNode) {
		if strings.Contains(n.attr("", "style"), opts.BuildingColor) {
			buildings = append(buildings, n)
		}
	})
	if len(buildings) == 0 {
		return fmt.Errorf("mapio: no elements found with color %s", opts.BuildingColor)
	}

	out := &strings.Builder{}
	out.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="` + inkscapeNS + `"`)
	if viewBox := root.attr("", "viewBox"); viewBox != "" {
		scaled, err := scaleViewBox(viewBox, scale)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, ` viewBox=%q`, scaled)
	}
	out.WriteString(">\n")

	for _, b := range buildings {
		if b.XMLName.Local != "path" {
			continue
		}
		d := scalePathData(b.attr("", "d"), scale)
		fmt.Fprintf(out, "  <path d=%q inkscape:label=%q/>\n", d, ObstacleLabel)
	}

	if opts.AddScaleBar {
		writeScaleBar(out, root, scale, opts.ScaleBarMeters)
	}

	out.WriteString("</svg>\n")
	_, err := io.WriteString(w, out.String())
	return err
}

// ConvertOSMFile is ConvertOSM between two files on disk.
func ConvertOSMFile(inPath, outPath string, opts OSMOptions) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("mapio: open %s: %w", inPath, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("mapio: create %s: %w", outPath, err)
	}
	defer out.Close()

	log.Printf("mapio: converting map %s -> %s", inPath, outPath)
	return ConvertOSM(in, out, opts)
}

// scaleViewBox rescales the width and height of a viewBox attribute,
// keeping the origin.
func scaleViewBox(viewBox string, scale float64) (string, error) {
	fields := strings.Fields(viewBox)
	if len(fields) != 4 {
		return "", fmt.Errorf("mapio: malformed viewBox %q", viewBox)
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", fmt.Errorf("mapio: malformed viewBox %q: %w", viewBox, err)
		}
		vals[i] = v
	}
	vals[2] *= scale
	vals[3] *= scale
	return fmt.Sprintf("%g %g %g %g", vals[0], vals[1], vals[2], vals[3]), nil
}

// scalePathData multiplies every numeric token of a path d attribute by
// scale, leaving commands untouched.
func scalePathData(d string, scale float64) string {
	tokens := pathTokenPattern.FindAllStringSubmatch(d, -1)
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok[1] != "" {
			parts = append(parts, tok[1])
			continue
		}
		v, err := strconv.ParseFloat(tok[2], 64)
		if err != nil {
			parts = append(parts, tok[2])
			continue
		}
		parts = append(parts, strconv.FormatFloat(v*scale, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

// writeScaleBar appends an alternating black/white bar across the image
// width plus a label, so converted maps carry a visual distance reference.
func writeScaleBar(out *strings.Builder, root svgNode, scale float64, meters int) {
	viewBox := root.attr("", "viewBox")
	fields := strings.Fields(viewBox)
	if len(fields) != 4 {
		return
	}
	width, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return
	}
	width *= scale

	if meters <= 0 {
		meters = 100
	}
	for i := 0; i < int(width); i += meters {
		color := "rgb(0,0,0)"
		if (i/meters)%2 == 1 {
			color = "rgb(100%,100%,100%)"
		}
		fmt.Fprintf(out, `  <line x1="%d" y1="10" x2="%d" y2="10" style="stroke:%s;stroke-width:2"/>`+"\n",
			i, i+meters, color)
	}
	fmt.Fprintf(out, `  <text x="10" y="30" style="font-size:12px">%d m</text>`+"\n", meters)
}
