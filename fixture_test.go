// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Four acquisitions and five igrams:
//
//	2018-04-20, 2018-04-22, 2018-04-28, 2018-05-02
//	(20,22) (20,28) (22,28) (22,02) (28,02)
var geolistLines = []string{
	"../S1A_IW_SLC__1SDV_20180420T043026_20180420T043054_021546_025211_81BE.SAFE.geo",
	"../S1A_IW_SLC__1SDV_20180422T043026_20180422T043054_021575_025322_1A2C.SAFE.geo",
	"../S1A_IW_SLC__1SDV_20180428T043026_20180428T043054_021662_0255F2_3C44.SAFE.geo",
	"../S1A_IW_SLC__1SDV_20180502T043026_20180502T043054_021721_025793_5C18.SAFE.geo",
}

var intlistLines = []string{
	"20180420_20180422.int",
	"20180420_20180428.int",
	"20180422_20180428.int",
	"20180422_20180502.int",
	"20180428_20180502.int",
}

// Phase differences of the test pixel, one per igram
var sbasDphis = []float64{2, 14, 12, 14, 2}

func sbasDates() []time.Time {
	return []time.Time{
		NewDate(2018, 4, 20),
		NewDate(2018, 4, 22),
		NewDate(2018, 4, 28),
		NewDate(2018, 5, 2),
	}
}

func sbasPairs() []Pair {
	d := sbasDates()
	return []Pair{
		{d[0], d[1]},
		{d[0], d[2]},
		{d[1], d[2]},
		{d[1], d[3]},
		{d[2], d[3]},
	}
}

func writeLines(t *testing.T, fn string, lines []string) {
	t.Helper()
	require.NoError(t, os.WriteFile(fn, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

// Igram directory with a 3 x 1 image: row 0 moves with sbasDphis, row 1 twice
// as fast, row 2 is stable and serves as the reference.
func writeSbasDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, GeolistName), geolistLines)
	writeLines(t, filepath.Join(dir, IntlistName), intlistLines)
	rsc := &Rsc{Width: 1, FileLength: 3, XUnit: "degrees", YUnit: "degrees", ZScale: 1, Projection: "LL"}
	require.NoError(t, os.WriteFile(filepath.Join(dir, RscName), []byte(rsc.Format()), 0o644))

	for k, name := range intlistLines {
		phase := NewRaster(3, 1)
		phase.Set(0, 0, float32(sbasDphis[k]))
		phase.Set(1, 0, float32(2*sbasDphis[k]))
		amp := NewRaster(3, 1)
		amp.Set(0, 0, 100)
		f, err := os.Create(filepath.Join(dir, strings.TrimSuffix(name, IntExt)+UnwExt))
		require.NoError(t, err)
		require.NoError(t, WriteUnw(f, amp, phase))
		require.NoError(t, f.Close())
	}
	return dir
}
