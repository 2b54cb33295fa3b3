// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ROI_PAC style .rsc metadata
//
//	WIDTH         10801
//	FILE_LENGTH   7201
//	X_FIRST       -157.0
//	Y_FIRST       21.0
//	X_STEP        0.000277777777
//	Y_STEP        -0.000277777777
//	X_UNIT        degrees
//	Y_UNIT        degrees
//	Z_OFFSET      0
//	Z_SCALE       1
//	PROJECTION    LL
type Rsc struct {
	Width      int // Number of columns
	FileLength int // Number of rows
	XFirst     float64
	YFirst     float64
	XStep      float64
	YStep      float64
	XUnit      string
	YUnit      string
	ZOffset    int
	ZScale     int
	Projection string
}

// Read .rsc metadata. Unknown keys are skipped.
func ReadRsc(r io.Reader) (*Rsc, error) {
	rsc := &Rsc{}
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		f := strings.Fields(s.Text())
		if len(f) < 2 {
			continue
		}
		var err error
		switch f[0] {
		case "WIDTH":
			rsc.Width, err = strconv.Atoi(f[1])
		case "FILE_LENGTH":
			rsc.FileLength, err = strconv.Atoi(f[1])
		case "X_FIRST":
			rsc.XFirst, err = strconv.ParseFloat(f[1], 64)
		case "Y_FIRST":
			rsc.YFirst, err = strconv.ParseFloat(f[1], 64)
		case "X_STEP":
			rsc.XStep, err = strconv.ParseFloat(f[1], 64)
		case "Y_STEP":
			rsc.YStep, err = strconv.ParseFloat(f[1], 64)
		case "X_UNIT":
			rsc.XUnit = f[1]
		case "Y_UNIT":
			rsc.YUnit = f[1]
		case "Z_OFFSET":
			rsc.ZOffset, err = strconv.Atoi(f[1])
		case "Z_SCALE":
			rsc.ZScale, err = strconv.Atoi(f[1])
		case "PROJECTION":
			rsc.Projection = f[1]
		}
		if err != nil {
			return nil, &ParseError{Line: n, Value: s.Text(), Err: err}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if rsc.Width <= 0 || rsc.FileLength <= 0 {
		return nil, newInputError("rsc must give positive WIDTH and FILE_LENGTH (WIDTH=%d, FILE_LENGTH=%d)", rsc.Width, rsc.FileLength)
	}
	return rsc, nil
}

func ReadRscFile(fn string) (*Rsc, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rsc, err := ReadRsc(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return rsc, nil
}

// Format as .rsc text, keys left justified to 14 columns
func (p *Rsc) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-14s%d\n", "WIDTH", p.Width)
	fmt.Fprintf(&sb, "%-14s%d\n", "FILE_LENGTH", p.FileLength)
	fmt.Fprintf(&sb, "%-14s%s\n", "X_FIRST", strconv.FormatFloat(p.XFirst, 'f', -1, 64))
	fmt.Fprintf(&sb, "%-14s%s\n", "Y_FIRST", strconv.FormatFloat(p.YFirst, 'f', -1, 64))
	fmt.Fprintf(&sb, "%-14s%0.12f\n", "X_STEP", p.XStep) // no scientific notation
	fmt.Fprintf(&sb, "%-14s%0.12f\n", "Y_STEP", p.YStep)
	fmt.Fprintf(&sb, "%-14s%s\n", "X_UNIT", p.XUnit)
	fmt.Fprintf(&sb, "%-14s%s\n", "Y_UNIT", p.YUnit)
	fmt.Fprintf(&sb, "%-14s%d\n", "Z_OFFSET", p.ZOffset)
	fmt.Fprintf(&sb, "%-14s%d\n", "Z_SCALE", p.ZScale)
	fmt.Fprintf(&sb, "%-14s%s\n", "PROJECTION", p.Projection)
	return sb.String()
}

//-------------------------------------------------------------------
// Raster
//-------------------------------------------------------------------

// 2D float32 image, row major
type Raster struct {
	Rows int
	Cols int
	Data []float32
}

func NewRaster(rows, cols int) *Raster {
	return &Raster{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

func (p *Raster) At(r, c int) float32 {
	return p.Data[r*p.Cols+c]
}

func (p *Raster) Set(r, c int, v float32) {
	p.Data[r*p.Cols+c] = v
}

// Loads one 2D phase image
type RasterLoader func(path string) (*Raster, error)

//-------------------------------------------------------------------
// .unw
//-------------------------------------------------------------------

// Read an unwrapped phase (.unw) file.
// Little endian float32; every row is cols amplitude values followed by cols
// phase values. Only the phase half is returned.
func ReadUnw(r io.Reader, rows, cols int) (*Raster, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 || len(b)/4 != rows*2*cols {
		return nil, newInputError("invalid .unw size %d bytes for %d rows x %d cols (expected %d)", len(b), rows, cols, rows*2*cols*4)
	}
	phase := NewRaster(rows, cols)
	for i := 0; i < rows; i++ {
		off := (i*2*cols + cols) * 4
		for j := 0; j < cols; j++ {
			phase.Data[i*cols+j] = math.Float32frombits(binary.LittleEndian.Uint32(b[off+j*4:]))
		}
	}
	return phase, nil
}

// Write an unwrapped phase (.unw) file. amp may be nil for zero amplitude.
func WriteUnw(w io.Writer, amp, phase *Raster) error {
	if amp != nil && (amp.Rows != phase.Rows || amp.Cols != phase.Cols) {
		return fmt.Errorf("amplitude (%d x %d) and phase (%d x %d) shapes differ", amp.Rows, amp.Cols, phase.Rows, phase.Cols)
	}
	bw := bufio.NewWriter(w)
	buf := make([]byte, 4)
	put := func(v float32) error {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		_, err := bw.Write(buf)
		return err
	}
	for i := 0; i < phase.Rows; i++ {
		for j := 0; j < phase.Cols; j++ {
			var a float32
			if amp != nil {
				a = amp.At(i, j)
			}
			if err := put(a); err != nil {
				return err
			}
		}
		for j := 0; j < phase.Cols; j++ {
			if err := put(phase.At(i, j)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Loader for .unw files of the size given by rsc
func UnwLoader(rsc *Rsc) RasterLoader {
	return func(path string) (*Raster, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r, err := ReadUnw(bufio.NewReader(f), rsc.FileLength, rsc.Width)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return r, nil
	}
}
