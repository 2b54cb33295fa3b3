// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Debug print function
// ------------------------------------

func PrintMat(w io.Writer, name string, X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(w, "%s (%d x %d)\n", name, r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(w, "%v\n", fa)
}

// Dates as "2006-01-02" separated by sep
func JoinDates(dates []time.Time, sep string) string {
	s := make([]string, len(dates))
	for i, d := range dates {
		s[i] = d.Format("2006-01-02")
	}
	return strings.Join(s, sep)
}
