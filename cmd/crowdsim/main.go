// Command crowdsim runs a social-force pedestrian simulation and writes
// trajectory plots and an HTML replay for inspection.
//
// Without -map it runs a built-in corridor scenario: two facing agents and
// a walking pair, between two walls.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/crowd-dynamics/crowdsim/internal/config"
	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"github.com/crowd-dynamics/crowdsim/internal/crowd/forces"
	"github.com/crowd-dynamics/crowdsim/internal/crowd/mapio"
	"github.com/crowd-dynamics/crowdsim/internal/crowd/view"
	"github.com/crowd-dynamics/crowdsim/internal/version"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

func main() {
	configPath := flag.String("config", "", "simulation config JSON (optional)")
	mapPath := flag.String("map", "", "SVG map with obstacle-labelled paths (optional)")
	osmPath := flag.String("convert-osm", "", "convert an OSM SVG export to a map file and exit")
	steps := flag.Int("steps", 150, "number of simulation steps")
	outDir := flag.String("out", "plots", "base output directory")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("crowdsim " + version.String())
		return
	}

	if *osmPath != "" {
		outFile := *mapPath
		if outFile == "" {
			outFile = "map_obstacles.svg"
		}
		if err := mapio.ConvertOSMFile(*osmPath, outFile, mapio.DefaultOSMOptions()); err != nil {
			log.Fatalf("convert osm: %v", err)
		}
		log.Printf("✓ Created: %s", outFile)
		return
	}

	cfg := config.EmptySimConfig()
	if *configPath != "" {
		loaded, err := config.LoadSimConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	if err := run(cfg, *mapPath, *steps, *outDir); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.SimConfig, mapPath string, steps int, outDir string) error {
	var lines []crowd.Line
	if mapPath != "" {
		loaded, err := mapio.LoadObstacleLines(mapPath)
		if err != nil {
			return fmt.Errorf("load map: %w", err)
		}
		lines = loaded
		log.Printf("loaded %d obstacle lines from %s", len(lines), mapPath)
	} else {
		lines = corridorWalls()
	}

	obstacles := crowd.NewObstacleField(lines, cfg.GetResolution())
	peds, err := crowd.NewPedState(corridorAgents(), corridorGroups(), cfg.SceneConfig())
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	sim := crowd.NewSimulator(peds, obstacles, forces.Standard(cfg))

	runID := uuid.New().String()[:8]
	log.Printf("run %s: %d agents, %d obstacle lines, %d steps",
		runID, peds.Size(), len(lines), steps)

	sim.Run(steps)

	runDir := view.MakeRunOutputDir(outDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	plotter := view.NewTrajectoryPlotter(runDir)
	plotter.RecordAll(sim.Snapshots())
	plotFile, err := plotter.Generate(obstacles)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	log.Printf("✓ Created: %s", plotFile)

	replayFile := filepath.Join(runDir, "replay.html")
	if err := view.WriteReplayFile(replayFile, sim.Snapshots(), obstacles); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	log.Printf("✓ Created: %s", replayFile)

	return nil
}

// corridorAgents is the built-in demo scenario: two agents crossing the
// corridor in opposite directions plus a pair walking together.
func corridorAgents() *mat.Dense {
	return mat.NewDense(4, 7, []float64{
		// pos        vel       goal       tau
		0.0, 10, 0.5, 0.5, 10.0, 10, 0.5,
		10.0, 10, -0.5, -0.5, 0.0, 10, 0.5,
		1.0, 9, 0.5, 0.3, 9.0, 11, 0.5,
		1.0, 11, 0.5, 0.3, 9.0, 11, 0.5,
	})
}

func corridorGroups() [][]int {
	return [][]int{{2, 3}}
}

func corridorWalls() []crowd.Line {
	// Field order is (start_x, end_x, start_y, end_y).
	return []crowd.Line{
		{StartX: -1, EndX: 11, StartY: 7, EndY: 7},
		{StartX: -1, EndX: 11, StartY: 13, EndY: 13},
	}
}
