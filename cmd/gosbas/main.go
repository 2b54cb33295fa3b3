// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	m "github.com/mkhts/gosbas"
	"github.com/mkhts/gosbas/internal/config"
	"github.com/mkhts/gosbas/plotting"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
		flag.CommandLine.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
		os.Exit(1)
	}
}

// Main application processing
func runApplication(cfg *config.Config) error {

	log := newLogger(cfg.Debug, os.Stderr)

	opt, err := cfg.RunOpt()
	if err != nil {
		return err
	}
	opt.Logger = log

	// Run the inversion
	ts, err := m.RunInversion(cfg.IgramDir, opt)
	if err != nil {
		return err
	}

	log.Debug("acquisitions", "dates", m.JoinDates(ts.Dates, " "))
	if cfg.Debug >= 2 {
		if A, err := m.BuildA(ts.Dates, ts.Pairs); err == nil {
			m.PrintMat(os.Stderr, "A", A)
		}
		m.PrintMat(os.Stderr, "B", ts.B)
	}

	// Prepare output file
	out, err := prepareOutput(cfg.Output.Report)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)

	px := cfg.Output.Pixel
	if !cfg.Output.NoHeader {
		printReportHeader(out, os.Args[0], cfg, ts)
	}
	if err := printReport(out, ts, px.Row, px.Col); err != nil {
		return err
	}

	// Optional images
	if cfg.Output.Plot != "" {
		if err := writePlot(cfg.Output.Plot, ts, px.Row, px.Col); err != nil {
			return fmt.Errorf("failed to write time series plot: %w", err)
		}
		log.Info("time series plot written", "path", cfg.Output.Plot)
	}
	if cfg.Output.VelocityMap != "" {
		if err := writeVelocityMap(cfg.Output.VelocityMap, ts); err != nil {
			return fmt.Errorf("failed to write velocity map: %w", err)
		}
		log.Info("velocity map written", "path", cfg.Output.VelocityMap)
	}

	return nil
}

// Logger on stderr; level follows the -x debug level
func newLogger(dbg int, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case dbg >= 2:
		level = slog.LevelDebug
	case dbg == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Prepare output file
func prepareOutput(fn string) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(fn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	f, err := os.Create(fn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Close output file
func closeOutput(out io.WriteCloser) {
	if out != nil {
		out.Close()
	}
}

// nopCloser - WriteCloser that ignores close operations
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Print report header
func printReportHeader(out io.Writer, cmd string, cfg *config.Config, ts *m.TimeSeries) {
	fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(cmd))
	fmt.Fprintf(out, "%% igram dir : %s\n", cfg.IgramDir)
	fmt.Fprintf(out, "%% dates     : %d (%s - %s)\n", len(ts.Dates), ts.Dates[0].Format("2006/01/02"), ts.Dates[len(ts.Dates)-1].Format("2006/01/02"))
	fmt.Fprintf(out, "%% igrams    : %d\n", len(ts.Pairs))
	fmt.Fprintf(out, "%% image     : %d x %d\n", ts.Rows, ts.Cols)
	fmt.Fprintf(out, "%% ref pixel : %d %d\n", ts.Ref.Row, ts.Ref.Col)
	fmt.Fprintf(out, "%% pixel     : %d %d\n", cfg.Output.Pixel.Row, cfg.Output.Pixel.Col)
	fmt.Fprintf(out, "%% rank      : %d / %d\n", ts.Rank, len(ts.TimeDiffs))
	fmt.Fprintf(out, "%% wavelength: %.7f cm\n", cfg.Wavelength)
	fmt.Fprintf(out, "%%  date        days    phase(rad)   deform(cm)  vel(rad/day)\n")
}

// Print the time series of one pixel
func printReport(out io.Writer, ts *m.TimeSeries, row, col int) error {
	phase, err := ts.PixelPhase(row, col)
	if err != nil {
		return err
	}
	defo, err := ts.PixelDeformation(row, col)
	if err != nil {
		return err
	}
	vel, err := ts.PixelVelocity(row, col)
	if err != nil {
		return err
	}
	for i, d := range ts.Dates {
		v := 0.0
		if i > 0 {
			v = vel[i-1] // Velocity of the interval ending at this date
		}
		fmt.Fprintf(out, "%s %6d %13.6f %12.6f %13.6f\n", d.Format("2006/01/02"), m.DaysBetween(ts.Dates[0], d), phase[i], defo[i], v)
	}
	return nil
}

func writePlot(fn string, ts *m.TimeSeries, row, col int) error {
	defo, err := ts.PixelDeformation(row, col)
	if err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	title := fmt.Sprintf("Deformation at (%d, %d)", row, col)
	return plotting.TimeSeries(f, title, "Deformation [cm]", ts.Dates, defo)
}

func writeVelocityMap(fn string, ts *m.TimeSeries) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return plotting.VelocityMap(f, ts.MeanVelocity(), 0)
}

// Parse command line arguments. Flags override the config file and environment.
func parseArgs(fs *flag.FlagSet, argv []string) (*config.Config, error) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `
[Usage]
	%s [Options] igram_dir

	igram_dir holds geolist, intlist, dem.rsc and the .unw files.

[Options]
`, filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	def := config.Default()
	cfgFn := fs.String("c", "", "YAML configuration file. GOSBAS_* environment variables override it, command line options override both.")
	ref := m.RefPixel{Row: def.Ref.Row, Col: def.Ref.Col}
	var px m.RefPixel
	fs.Var(&ref, "r", "Reference pixel subtracted from every igram. Enclose in quotes like -r \"483 493\"")
	fs.Var(&px, "p", "Pixel whose time series is reported. Enclose in quotes like -p \"100 200\"")
	wl := fs.Float64("w", def.Wavelength, "Radar wavelength [cm]")
	workers := fs.Int("j", def.Workers, "Number of goroutines for loading and solving. 1 solves all pixels in a single call.")
	parser := fs.String("n", def.Parser, "Acquisition name parser for geolist entries. sentinel or uavsar")
	report := fs.String("o", "", "Output report file path. If not specified, output to stdout.")
	noHeader := fs.Bool("nh", false, "Do not output header section of the report.")
	plotFn := fs.String("plot", "", "Write the deformation time series of the reported pixel to this PNG file.")
	vmapFn := fs.String("vmap", "", "Write the mean velocity map [cm/year] to this PNG file.")
	dbg := fs.Int("x", 0, "Debug information display. Specify level value. 0(OFF), 1(progress), 2(detailed, prints B)")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*cfgFn)
	if err != nil {
		return nil, err
	}

	// Apply only the flags given explicitly
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "r":
			cfg.Ref = config.PixelConfig{Row: ref.Row, Col: ref.Col}
		case "p":
			cfg.Output.Pixel = config.PixelConfig{Row: px.Row, Col: px.Col}
		case "w":
			cfg.Wavelength = *wl
		case "j":
			cfg.Workers = *workers
		case "n":
			cfg.Parser = *parser
		case "o":
			cfg.Output.Report = *report
		case "nh":
			cfg.Output.NoHeader = *noHeader
		case "plot":
			cfg.Output.Plot = *plotFn
		case "vmap":
			cfg.Output.VelocityMap = *vmapFn
		case "x":
			cfg.Debug = *dbg
		}
	})

	switch fs.NArg() {
	case 0:
		if cfg.IgramDir == "" {
			return nil, fmt.Errorf("the igram directory must be specified")
		}
	case 1:
		cfg.IgramDir = fs.Arg(0)
	default:
		return nil, fmt.Errorf("too many arguments")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
