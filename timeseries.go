// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Runs the full SBAS time series analysis over an igram directory.

package gosbas

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"
)

// RunOpt contains the inputs of one time series run
type RunOpt struct {
	Ref         RefPixel     // Reference pixel subtracted from every igram
	Wavelength  float64      // Radar wavelength [cm]
	Workers     int          // Goroutines for loading and solving (<=1: sequential solve)
	Parser      DateParser   // Extracts acquisition dates from geolist entries
	GeolistName string       // Acquisition list file name
	IntlistName string       // Igram list file name
	RscName     string       // Metadata file giving the image size
	UnwExt      string       // Extension of the unwrapped phase files
	Logger      *slog.Logger // Diagnostics; nil discards them
}

// NewRunOpt creates a RunOpt with default values
func NewRunOpt() *RunOpt {
	return &RunOpt{
		Ref:         RefPixel{Row: 483, Col: 493},
		Wavelength:  Wavelength,   // Sentinel-1
		Workers:     1,            // Single solve over all pixels
		Parser:      SentinelDate, // geolist holds Sentinel-1 .geo names
		GeolistName: GeolistName,
		IntlistName: IntlistName,
		RscName:     RscName,
		UnwExt:      UnwExt,
		Logger:      nil,
	}
}

// TimeSeries contains the results of a run. Pixel (r, c) is column r*Cols+c
// of Velocity, Phase and Deformation.
type TimeSeries struct {
	Dates         []time.Time // Acquisition dates (N)
	Pairs         []Pair      // Igram date pairs (M)
	TimeDiffs     []int       // Days between consecutive acquisitions (N-1)
	B             *mat.Dense  // Velocity coefficient matrix (M x N-1)
	Rows, Cols    int         // Image shape
	Ref           RefPixel    // Reference pixel used for normalization
	Velocity      *mat.Dense  // (N-1) x Rows*Cols [rad/day]
	Phase         *mat.Dense  // N x Rows*Cols [rad]
	Deformation   *mat.Dense  // N x Rows*Cols [cm]
	Rank          int         // Effective rank of B
	RankDeficient bool        // B had rank < N-1
}

// RunInversion reads geolist, intlist, the .rsc metadata and the unwrapped
// phase files from dir and inverts every pixel for its deformation history.
func RunInversion(dir string, opt *RunOpt) (*TimeSeries, error) {

	if opt == nil {
		opt = NewRunOpt()
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	// Catalog
	pairs, err := ReadPairsFile(filepath.Join(dir, opt.IntlistName))
	if err != nil {
		return nil, fmt.Errorf("failed to read igram list: %w", err)
	}
	dates, err := ReadDatesFile(filepath.Join(dir, opt.GeolistName), opt.Parser)
	if err != nil {
		return nil, fmt.Errorf("failed to read acquisition list: %w", err)
	}
	log.Info("catalog loaded", "acquisitions", len(dates), "igrams", len(pairs))

	// Linear system
	B, err := BuildB(dates, pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to build B matrix: %w", err)
	}
	td := TimeDiffs(dates)

	// Phase stack
	rsc, err := ReadRscFile(filepath.Join(dir, opt.RscName))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	igrams, err := ReadIgramPaths(filepath.Join(dir, opt.IntlistName))
	if err != nil {
		return nil, fmt.Errorf("failed to read igram list: %w", err)
	}
	unws := make([]string, len(igrams))
	for i, p := range igrams {
		unws[i] = UnwPath(p, opt.UnwExt)
	}
	stack, err := LoadStack(unws, opt.Ref, UnwLoader(rsc), opt.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to load phase stack: %w", err)
	}
	log.Info("stack loaded", "rows", stack.Rows, "cols", stack.Cols, "igrams", stack.Depth, "ref", opt.Ref.String())

	// Inversion
	t0 := time.Now()
	inv, err := InvertTiled(stack.Matrix(), td, B, opt.Workers)
	if err != nil {
		return nil, fmt.Errorf("inversion failed: %w", err)
	}
	log.Info("inversion done", "pixels", stack.Rows*stack.Cols, "rank", inv.Rank, "elapsed", time.Since(t0))
	if inv.RankDeficient {
		log.Debug("igram network is rank deficient, using minimum-norm solution", "rank", inv.Rank, "unknowns", len(td))
	}

	return &TimeSeries{
		Dates:         dates,
		Pairs:         pairs,
		TimeDiffs:     td,
		B:             B,
		Rows:          stack.Rows,
		Cols:          stack.Cols,
		Ref:           opt.Ref,
		Velocity:      inv.Velocity,
		Phase:         inv.Phase,
		Deformation:   ToDeformation(inv.Phase, opt.Wavelength),
		Rank:          inv.Rank,
		RankDeficient: inv.RankDeficient,
	}, nil
}

func (p *TimeSeries) pixel(r, c int) (int, error) {
	px := RefPixel{Row: r, Col: c}
	if !px.Within(p.Rows, p.Cols) {
		return 0, fmt.Errorf("pixel (%d, %d) is out of bounds for image of shape (%d, %d)", r, c, p.Rows, p.Cols)
	}
	return r*p.Cols + c, nil
}

// Cumulative phase of pixel (r, c), one value per acquisition date
func (p *TimeSeries) PixelPhase(r, c int) ([]float64, error) {
	j, err := p.pixel(r, c)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, j, p.Phase), nil
}

// Deformation of pixel (r, c), one value per acquisition date
func (p *TimeSeries) PixelDeformation(r, c int) ([]float64, error) {
	j, err := p.pixel(r, c)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, j, p.Deformation), nil
}

// Velocity of pixel (r, c), one value per interval between acquisitions
func (p *TimeSeries) PixelVelocity(r, c int) ([]float64, error) {
	j, err := p.pixel(r, c)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, j, p.Velocity), nil
}

// Phase at date index t as a Rows x Cols image (shares storage)
func (p *TimeSeries) PhaseImage(t int) *mat.Dense {
	return mat.NewDense(p.Rows, p.Cols, p.Phase.RawRowView(t))
}

// Deformation at date index t as a Rows x Cols image (shares storage)
func (p *TimeSeries) DeformationImage(t int) *mat.Dense {
	return mat.NewDense(p.Rows, p.Cols, p.Deformation.RawRowView(t))
}

// Velocity of interval j as a Rows x Cols image (shares storage)
func (p *TimeSeries) VelocityImage(j int) *mat.Dense {
	return mat.NewDense(p.Rows, p.Cols, p.Velocity.RawRowView(j))
}

// Average deformation rate over the whole period [cm/year]
func (p *TimeSeries) MeanVelocity() *mat.Dense {
	days := DaysBetween(p.Dates[0], p.Dates[len(p.Dates)-1])
	var v mat.Dense
	v.Scale(365.25/float64(days), p.DeformationImage(len(p.Dates)-1))
	return &v
}
