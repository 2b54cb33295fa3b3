// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func runSbasDir(t *testing.T, workers int) *TimeSeries {
	t.Helper()
	dir := writeSbasDir(t)
	opt := NewRunOpt()
	opt.Ref = RefPixel{Row: 2, Col: 0}
	opt.Workers = workers
	ts, err := RunInversion(dir, opt)
	require.NoError(t, err)
	return ts
}

func TestRunInversion(t *testing.T) {
	for _, workers := range []int{1, 2} {
		ts := runSbasDir(t, workers)

		assert.Equal(t, sbasDates(), ts.Dates)
		assert.Equal(t, sbasPairs(), ts.Pairs)
		assert.Equal(t, []int{2, 6, 4}, ts.TimeDiffs)
		assert.Equal(t, []int{3, 1}, []int{ts.Rows, ts.Cols})
		assert.Equal(t, 3, ts.Rank)
		assert.False(t, ts.RankDeficient)

		phase, err := ts.PixelPhase(0, 0)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 2, 14, 16}, phase, tol)

		vel, err := ts.PixelVelocity(0, 0)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 2, 0.5}, vel, tol)

		phase, err = ts.PixelPhase(1, 0)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 4, 28, 32}, phase, tol)

		// Reference pixel stays at zero
		phase, err = ts.PixelPhase(2, 0)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, phase, tol)

		defo, err := ts.PixelDeformation(0, 0)
		require.NoError(t, err)
		want := []float64{0, 2, 14, 16}
		floats.Scale(PhaseToCm, want)
		assert.InDeltaSlice(t, want, defo, tol)
	}
}

func TestTimeSeriesImages(t *testing.T) {
	ts := runSbasDir(t, 1)

	img := ts.PhaseImage(3)
	r, c := img.Dims()
	assert.Equal(t, []int{3, 1}, []int{r, c})
	assert.InDelta(t, 16.0, img.At(0, 0), tol)
	assert.InDelta(t, 32.0, img.At(1, 0), tol)

	assert.InDelta(t, PhaseToCm*14, ts.DeformationImage(2).At(0, 0), tol)
	assert.InDelta(t, 4.0, ts.VelocityImage(1).At(1, 0), tol)

	mv := ts.MeanVelocity()
	assert.InDelta(t, PhaseToCm*16*365.25/12, mv.At(0, 0), tol)
	assert.InDelta(t, 0.0, mv.At(2, 0), tol)
}

func TestTimeSeriesPixelOutOfBounds(t *testing.T) {
	ts := runSbasDir(t, 1)
	_, err := ts.PixelPhase(3, 0)
	assert.Error(t, err)
	_, err = ts.PixelDeformation(0, 1)
	assert.Error(t, err)
	_, err = ts.PixelVelocity(-1, 0)
	assert.Error(t, err)
}

func TestRunInversionErrors(t *testing.T) {
	t.Run("ref out of bounds", func(t *testing.T) {
		dir := writeSbasDir(t)
		opt := NewRunOpt() // default reference does not fit a 3 x 1 image
		_, err := RunInversion(dir, opt)
		var re *RefOutOfBoundsError
		require.True(t, errors.As(err, &re), "err=%v", err)
		assert.Equal(t, 3, re.Rows)
		assert.Equal(t, 1, re.Cols)
	})

	t.Run("missing unw", func(t *testing.T) {
		dir := writeSbasDir(t)
		require.NoError(t, os.Remove(filepath.Join(dir, "20180422_20180502.unw")))
		opt := NewRunOpt()
		opt.Ref = RefPixel{Row: 2, Col: 0}
		_, err := RunInversion(dir, opt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "20180422_20180502.unw")
	})

	t.Run("missing geolist", func(t *testing.T) {
		dir := writeSbasDir(t)
		require.NoError(t, os.Remove(filepath.Join(dir, GeolistName)))
		_, err := RunInversion(dir, nil)
		assert.Error(t, err)
	})

	t.Run("igram outside geolist", func(t *testing.T) {
		dir := writeSbasDir(t)
		writeLines(t, filepath.Join(dir, GeolistName), geolistLines[:3])
		opt := NewRunOpt()
		opt.Ref = RefPixel{Row: 2, Col: 0}
		_, err := RunInversion(dir, opt)
		var ie *InputError
		assert.True(t, errors.As(err, &ie), "err=%v", err)
	})
}
