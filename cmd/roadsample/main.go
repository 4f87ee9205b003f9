// Command roadsample samples a road description and writes the center lane
// and object footprints as GeoJSON.
//
// Usage:
//
//	roadsample [-config config.yaml] [-o out.geojson] [-simplify 0.05] road.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"honnef.co/go/roadgeom/config"
	"honnef.co/go/roadgeom/internal/export"
	"honnef.co/go/roadgeom/logging"
	"honnef.co/go/roadgeom/road"
)

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		// The configuration may not have loaded, so failures are logged as
		// the environment says.
		logging.NewFromEnv().Error(ctx, "roadsample failed", logging.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("roadsample", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to configuration file (default: built-in defaults)")
	output := fs.String("o", "", "Output file (default: stdout)")
	simplify := fs.Float64("simplify", 0, "Douglas-Peucker threshold for sampled lines in meters")
	minArea := fs.Float64("min-area", 1e-6, "Drop object footprints smaller than this, in square meters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one road description, got %d arguments", fs.NArg())
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return err
		}
	}
	log := cfg.Logger()
	ctx = logging.ContextWithLogger(ctx, log)

	desc, err := road.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	r, err := road.Build(ctx, desc, cfg)
	if err != nil {
		return err
	}

	c := export.New(export.Options{Simplify: *simplify, MinArea: *minArea})
	if err := c.AddRoad(r); err != nil {
		return err
	}

	if err := write(c, *output, stdout); err != nil {
		return fmt.Errorf("writing GeoJSON: %w", err)
	}
	log.Info(ctx, "road sampled",
		logging.String("road", r.ID),
		logging.Float64("length", r.Reference.Length()),
		logging.Int("features", len(c.FeatureCollection().Features)),
		logging.Int("gaps", len(r.Gaps)))
	return nil
}

func write(c *export.Collection, path string, stdout io.Writer) error {
	if path == "" {
		_, err := c.WriteTo(stdout)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
