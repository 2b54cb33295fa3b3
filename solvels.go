// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pseudo-inverse of a (possibly rank deficient) design matrix
type PInv struct {
	X    *mat.Dense // n x m, minimum-norm least squares operator
	Rank int        // Effective rank of the design matrix
	Sv   []float64  // Singular values in descending order
}

// Compute the pseudo-inverse of G via SVD
//   - G+ = V_r S_r^-1 U_r^T, keeping singular values above rcond*max(s)
//   - rcond <= 0 selects eps*max(m, n), the usual least squares cutoff
func NewPInv(G mat.Matrix, rcond float64) (*PInv, error) {

	m, n := G.Dims()
	if rcond <= 0 {
		rcond = eps * float64(max(m, n))
	}

	var svd mat.SVD
	if ok := svd.Factorize(G, mat.SVDThin); !ok {
		return nil, fmt.Errorf("SVD factorization failed. G(%d x %d)", m, n)
	}
	sv := svd.Values(nil)

	rank := 0
	if len(sv) > 0 {
		tol := rcond * sv[0]
		for _, s := range sv {
			if s > tol {
				rank++
			}
		}
	}

	X := mat.NewDense(n, m, nil)
	if rank == 0 {
		return &PInv{X: X, Rank: 0, Sv: sv}, nil
	}

	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	// V_r S_r^-1
	Vr := mat.DenseCopyOf(V.Slice(0, n, 0, rank))
	for k := 0; k < rank; k++ {
		inv := 1 / sv[k]
		for i := 0; i < n; i++ {
			Vr.Set(i, k, Vr.At(i, k)*inv)
		}
	}
	// (V_r S_r^-1) U_r^T
	X.Mul(Vr, U.Slice(0, m, 0, rank).T())

	return &PInv{X: X, Rank: rank, Sv: sv}, nil
}

// Solve G x = b for every column of b in the least squares sense.
// The minimum-norm solution is returned when G is rank deficient.
func SolveMinNorm(G, b mat.Matrix) (x *mat.Dense, rank int, err error) {

	n1, m1 := G.Dims()
	n2, m2 := b.Dims()
	if n1 != n2 {
		return nil, 0, &ContractError{Msg: fmt.Sprintf("invalid matrix size. G(%d x %d), b(%d x %d)", n1, m1, n2, m2)}
	}

	p, err := NewPInv(G, 0)
	if err != nil {
		return nil, 0, err
	}
	var s mat.Dense
	s.Mul(p.X, b)
	return &s, p.Rank, nil
}

var eps = math.Nextafter(1, 2) - 1
