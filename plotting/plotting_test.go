// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package plotting

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRampColor(t *testing.T) {
	mid := RampColor(0, 2)
	assert.Equal(t, uint8(255), mid.A)
	assert.InDelta(t, 247, int(mid.R), 1)
	assert.InDelta(t, 247, int(mid.G), 1)
	assert.InDelta(t, 247, int(mid.B), 1)

	hi := RampColor(2, 2)
	assert.InDelta(t, 178, int(hi.R), 1)
	assert.InDelta(t, 24, int(hi.G), 1)
	assert.InDelta(t, 43, int(hi.B), 1)
	assert.Equal(t, hi, RampColor(20, 2)) // saturated

	lo := RampColor(-1, 2)
	assert.Greater(t, lo.B, lo.R)
	assert.Greater(t, RampColor(1, 2).R, RampColor(1, 2).B)

	assert.Equal(t, uint8(0), RampColor(math.NaN(), 2).A)
	assert.Equal(t, mid, RampColor(5, 0))
}

func TestMapImage(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		-4, 0, 4,
		2, math.NaN(), -2,
	})
	img := MapImage(m, 0)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	// Largest absolute value saturates
	assert.Equal(t, RampColor(4, 4), img.NRGBAAt(2, 0))
	assert.Equal(t, RampColor(-4, 4), img.NRGBAAt(0, 0))
	assert.Equal(t, RampColor(2, 4), img.NRGBAAt(0, 1))
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 1).A)

	img = MapImage(m, 2)
	assert.Equal(t, RampColor(4, 4), img.NRGBAAt(0, 1))
}

func TestVelocityMap(t *testing.T) {
	var buf bytes.Buffer
	m := mat.NewDense(4, 5, nil)
	m.Set(1, 2, -3.5)
	require.NoError(t, VelocityMap(&buf, m, 0))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestTimeSeries(t *testing.T) {
	dates := []time.Time{
		time.Date(2018, 4, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 4, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 4, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	require.NoError(t, TimeSeries(&buf, "pixel (0, 0)", "Deformation [cm]", dates, []float64{0, -0.9, -6.2, -7.1}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	err := TimeSeries(&buf, "", "", dates, []float64{0})
	assert.Error(t, err)
}
