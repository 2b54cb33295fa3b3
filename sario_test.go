// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demRsc = `WIDTH         10801
FILE_LENGTH   7201
X_FIRST       -157.0
Y_FIRST       21.0
X_STEP        0.000277777777
Y_STEP        -0.000277777777
X_UNIT        degrees
Y_UNIT        degrees
Z_OFFSET      0
Z_SCALE       1
PROJECTION    LL
`

func TestReadRsc(t *testing.T) {
	rsc, err := ReadRsc(strings.NewReader(demRsc))
	require.NoError(t, err)
	assert.Equal(t, &Rsc{
		Width:      10801,
		FileLength: 7201,
		XFirst:     -157.0,
		YFirst:     21.0,
		XStep:      0.000277777777,
		YStep:      -0.000277777777,
		XUnit:      "degrees",
		YUnit:      "degrees",
		ZOffset:    0,
		ZScale:     1,
		Projection: "LL",
	}, rsc)

	text := rsc.Format()
	assert.Contains(t, text, "WIDTH         10801\n")
	assert.Contains(t, text, "Y_STEP        -0.000277777777\n")
	again, err := ReadRsc(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, rsc, again)
}

func TestReadRscInvalid(t *testing.T) {
	_, err := ReadRsc(strings.NewReader("WIDTH  abc\nFILE_LENGTH 3\n"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)

	_, err = ReadRsc(strings.NewReader("X_FIRST 1.0\n"))
	var ie *InputError
	assert.True(t, errors.As(err, &ie))
}

func TestUnwReadWrite(t *testing.T) {
	phase := NewRaster(2, 3)
	amp := NewRaster(2, 3)
	for i := range phase.Data {
		phase.Data[i] = float32(i) - 2.5
		amp.Data[i] = 1000 + float32(i)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteUnw(&buf, amp, phase))
	assert.Equal(t, 2*2*3*4, buf.Len())

	got, err := ReadUnw(bytes.NewReader(buf.Bytes()), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, phase, got)

	// Width does not match the file size
	_, err = ReadUnw(bytes.NewReader(buf.Bytes()), 2, 4)
	var ie *InputError
	assert.True(t, errors.As(err, &ie))
}

func TestWriteUnwShapeMismatch(t *testing.T) {
	err := WriteUnw(&bytes.Buffer{}, NewRaster(2, 2), NewRaster(2, 3))
	assert.Error(t, err)
}
