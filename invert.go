// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Implements the batched SBAS velocity inversion and phase reconstruction.

package gosbas

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Inversion holds the result of one SBAS inversion over K pixels
type Inversion struct {
	Velocity      *mat.Dense // (N-1) x K, v_j = (phi_j - phi_j-1) / (t_j - t_j-1) [rad/day]
	Phase         *mat.Dense // N x K, cumulative phase; row 0 is exactly 0 [rad]
	Rank          int        // Effective rank of B
	RankDeficient bool       // Rank < N-1; Velocity is the minimum-norm solution
}

// Invert solves B v = dphis for all pixels with one least squares solve and
// integrates the velocities back into phase.
//
// Parameters:
//   - dphis: M x K unwrapped phase differences, one row per igram, one column per pixel
//   - timediffs: days between consecutive acquisitions, length N-1
//   - B: M x (N-1) velocity coefficient matrix from BuildB
//
// Returns:
//   - Inversion with Velocity (N-1) x K and Phase N x K
//   - *ContractError when the shapes of B, timediffs and dphis disagree
func Invert(dphis mat.Matrix, timediffs []int, B mat.Matrix) (*Inversion, error) {
	return InvertTiled(dphis, timediffs, B, 1)
}

// InvertTiled is Invert with the pixel axis split into column tiles that are
// solved by up to workers goroutines. Each tile writes a disjoint column range.
func InvertTiled(dphis mat.Matrix, timediffs []int, B mat.Matrix, workers int) (*Inversion, error) {

	m, n := B.Dims()
	if n != len(timediffs) {
		return nil, &ContractError{Msg: fmt.Sprintf("B has %d columns but there are %d time diffs", n, len(timediffs))}
	}
	md, k := dphis.Dims()
	if md != m {
		return nil, &ContractError{Msg: fmt.Sprintf("B has %d rows but dphis has %d", m, md)}
	}

	p, err := NewPInv(B, 0)
	if err != nil {
		return nil, err
	}

	D, ok := dphis.(*mat.Dense)
	if !ok {
		D = mat.DenseCopyOf(dphis)
	}
	vel := mat.NewDense(n, k, nil)

	if workers <= 1 || k < 2*workers {
		vel.Mul(p.X, D)
	} else {
		var g errgroup.Group
		step := (k + workers - 1) / workers
		for c0 := 0; c0 < k; c0 += step {
			c1 := min(c0+step, k)
			dst := vel.Slice(0, n, c0, c1).(*mat.Dense)
			src := D.Slice(0, m, c0, c1)
			g.Go(func() error {
				dst.Mul(p.X, src)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &Inversion{
		Velocity:      vel,
		Phase:         IntegratePhase(vel, timediffs),
		Rank:          p.Rank,
		RankDeficient: p.Rank < n,
	}, nil
}

// Single pixel inversion, the K=1 case of Invert
func InvertPixel(dphis []float64, timediffs []int, B mat.Matrix) (velocity, phase []float64, err error) {
	if len(dphis) == 0 {
		return nil, nil, &ContractError{Msg: "no phase differences given"}
	}
	inv, err := Invert(mat.NewDense(len(dphis), 1, dphis), timediffs, B)
	if err != nil {
		return nil, nil, err
	}
	return mat.Col(nil, 0, inv.Velocity), mat.Col(nil, 0, inv.Phase), nil
}

// Integrate velocities over the time intervals.
// phi_0 = 0, phi_j = phi_j-1 + dt_j * v_j; the result has one more row than vel.
func IntegratePhase(vel *mat.Dense, timediffs []int) *mat.Dense {
	n, k := vel.Dims()
	phase := mat.NewDense(n+1, k, nil)
	for j := 0; j < n; j++ {
		floats.AddScaledTo(phase.RawRowView(j+1), phase.RawRowView(j), float64(timediffs[j]), vel.RawRowView(j))
	}
	return phase
}

// Convert unwrapped phase [rad] to deformation [cm].
// Scales by wavelength/(-4 pi): increasing phase is motion away from the sensor.
func ToDeformation(phase mat.Matrix, wavelengthCm float64) *mat.Dense {
	var d mat.Dense
	d.Scale(wavelengthCm/(-4*PI), phase)
	return &d
}
