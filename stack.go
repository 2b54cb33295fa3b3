// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Stack of M unwrapped phase images of identical shape.
// Indexed as (row, col, k) with k the igram index. Storage is layer major so
// that the whole stack is an M x (Rows*Cols) matrix without copying.
type Stack struct {
	Rows  int       // Image rows
	Cols  int       // Image columns
	Depth int       // Number of igrams (M)
	Data  []float64 // Data[k*Rows*Cols + r*Cols + c]
}

func NewStack(rows, cols, depth int) *Stack {
	return &Stack{
		Rows:  rows,
		Cols:  cols,
		Depth: depth,
		Data:  make([]float64, rows*cols*depth),
	}
}

func (p *Stack) At(r, c, k int) float64 {
	return p.Data[k*p.Rows*p.Cols+r*p.Cols+c]
}

// Layer k as a Rows x Cols matrix sharing the stack's storage
func (p *Stack) Layer(k int) *mat.Dense {
	n := p.Rows * p.Cols
	return mat.NewDense(p.Rows, p.Cols, p.Data[k*n:(k+1)*n])
}

// Phase differences of one pixel, one value per igram
func (p *Stack) Pixel(r, c int) []float64 {
	v := make([]float64, p.Depth)
	for k := range v {
		v[k] = p.At(r, c, k)
	}
	return v
}

// The stack as an M x (Rows*Cols) matrix sharing the stack's storage.
// Pixel (r, c) is column r*Cols + c.
func (p *Stack) Matrix() *mat.Dense {
	return mat.NewDense(p.Depth, p.Rows*p.Cols, p.Data)
}

// Subtract the reference pixel's value from every pixel of each layer
func (p *Stack) Normalize(ref RefPixel) error {
	if !ref.Within(p.Rows, p.Cols) {
		return ref.outOfBounds(p.Rows, p.Cols)
	}
	for k := 0; k < p.Depth; k++ {
		p.normalizeLayer(k, ref)
	}
	return nil
}

func (p *Stack) normalizeLayer(k int, ref RefPixel) {
	n := p.Rows * p.Cols
	layer := p.Data[k*n : (k+1)*n]
	v := layer[ref.Row*p.Cols+ref.Col]
	for i := range layer {
		layer[i] -= v
	}
}

// Copy raster into layer k
func (p *Stack) setLayer(k int, r *Raster) {
	n := p.Rows * p.Cols
	layer := p.Data[k*n : (k+1)*n]
	for i, v := range r.Data {
		layer[i] = float64(v)
	}
}

// LoadStack loads one phase image per path and normalizes every layer at ref.
//
// The first image fixes the spatial shape; ref is checked against it before
// the remaining images are read. Images are read by up to workers goroutines
// (workers <= 0 means unlimited), each filling its own layer.
func LoadStack(paths []string, ref RefPixel, load RasterLoader, workers int) (*Stack, error) {

	if len(paths) == 0 {
		return nil, newInputError("no phase images to load")
	}

	first, err := load(paths[0])
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", paths[0], err)
	}
	if err := checkRaster(first); err != nil {
		return nil, fmt.Errorf("%s: %w", paths[0], err)
	}
	if !ref.Within(first.Rows, first.Cols) {
		return nil, ref.outOfBounds(first.Rows, first.Cols)
	}

	stack := NewStack(first.Rows, first.Cols, len(paths))
	stack.setLayer(0, first)
	stack.normalizeLayer(0, ref)

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for k := 1; k < len(paths); k++ {
		g.Go(func() error {
			r, err := load(paths[k])
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", paths[k], err)
			}
			if err := checkRaster(r); err != nil {
				return fmt.Errorf("%s: %w", paths[k], err)
			}
			if r.Rows != stack.Rows || r.Cols != stack.Cols {
				return &InputError{Row: k, Msg: fmt.Sprintf("image %s has shape (%d, %d), expected (%d, %d)", paths[k], r.Rows, r.Cols, stack.Rows, stack.Cols)}
			}
			stack.setLayer(k, r)
			stack.normalizeLayer(k, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stack, nil
}

func checkRaster(r *Raster) error {
	if r.Rows <= 0 || r.Cols <= 0 || len(r.Data) != r.Rows*r.Cols {
		return newInputError("raster of shape (%d, %d) holds %d values", r.Rows, r.Cols, len(r.Data))
	}
	return nil
}
