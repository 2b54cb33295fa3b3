// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Builds the SBAS linear system from the acquisition/igram network.

package gosbas

import (
	"time"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// Days between consecutive acquisitions. Length is len(dates)-1.
func TimeDiffs(dates []time.Time) []int {
	if len(dates) < 2 {
		return []int{}
	}
	td := make([]int, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		td[i-1] = DaysBetween(dates[i-1], dates[i])
	}
	return td
}

func checkNetwork(dates []time.Time, pairs []Pair) error {
	if len(dates) < 2 {
		return newInputError("at least 2 acquisition dates are required, got %d", len(dates))
	}
	if len(pairs) == 0 {
		return newInputError("no igrams given")
	}
	if !isStrictlySorted(dates) {
		return newInputError("acquisition dates must be unique and sorted in ascending order")
	}
	return nil
}

// BuildA builds the M x (N-1) incidence matrix A of the SBAS system A*phi = dphi.
//
// Each row is one igram, each column one acquisition except the first, which
// is time zero and not part of the matrix. A row has -1 at the column of the
// early date and +1 at the column of the late date. An early date equal to the
// first acquisition has no column, so that row holds only the +1.
//
// A late date missing from dates[1:] is an *InputError.
func BuildA(dates []time.Time, pairs []Pair) (*mat.Dense, error) {
	if err := checkNetwork(dates, pairs); err != nil {
		return nil, err
	}
	cols := dates[1:]
	A := mat.NewDense(len(pairs), len(cols), nil)
	for j, p := range pairs {
		if iEarly := indexOfDate(cols, p.Early); iEarly >= 0 {
			A.Set(j, iEarly, -1)
		}
		iLate := indexOfDate(cols, p.Late)
		if iLate < 0 {
			return nil, &InputError{Row: j, Date: p.Late, Msg: "late date of igram " + p.String() + " is not in the acquisition list"}
		}
		A.Set(j, iLate, 1)
	}
	return A, nil
}

// BuildB builds the M x (N-1) velocity coefficient matrix B of B*v = dphi.
//
// Row j holds the time diffs for the columns after the -1 of A (or from column
// 0 if there is none) up to and including the +1 column; zero elsewhere.
func BuildB(dates []time.Time, pairs []Pair) (*mat.Dense, error) {
	A, err := BuildA(dates, pairs)
	if err != nil {
		return nil, err
	}
	td := TimeDiffs(dates)
	m, n := A.Dims()
	B := mat.NewDense(m, n, nil)
	for j := 0; j < m; j++ {
		row := A.RawRowView(j)
		start := slices.Index(row, -1) + 1 // 0 when there is no -1
		end := slices.Index(row, 1) + 1    // the +1 always exists
		for k := start; k < end; k++ {
			B.Set(j, k, float64(td[k]))
		}
	}
	return B, nil
}

// Index of d in dates by calendar date, -1 if absent
func indexOfDate(dates []time.Time, d time.Time) int {
	d = TruncDate(d)
	return slices.IndexFunc(dates, func(a time.Time) bool {
		return TruncDate(a).Equal(d)
	})
}
