// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// pdTol is the relative positive-definiteness tolerance: a Cholesky pivot
// smaller than pdTol times the largest diagonal entry means a rigid-body
// mode is present (insufficient or colinear supports, or a load path
// disconnected from all supports).
const pdTol = 1e-12

// Solution holds the results of one linear solve. U has two entries per
// node (2*i for x, 2*i+1 for y) with zeros at fixed and inactive DOFs.
type Solution struct {
	U   []float64 // nodal displacements, full length
	Neq int       // number of free equations actually solved
}

// Ux returns the x-displacement of node nid
func (o *Solution) Ux(nid int) float64 { return o.U[2*nid] }

// Uy returns the y-displacement of node nid
func (o *Solution) Uy(nid int) float64 { return o.U[2*nid+1] }

// Solve assembles the global stiffness matrix and load vector over the
// active nodes and springs, eliminates fixed DOFs, and solves K·u = f.
// It has no side effects on the structure. A non-solvable reduced system
// returns a SingularSystem error.
func (o *Structure) Solve() (sol *Solution, err error) {

	// equation numbers: -1 for fixed or inactive DOFs
	nn := len(o.Nodes)
	eqs := make([]int, 2*nn)
	neq := 0
	for i := range eqs {
		eqs[i] = -1
	}
	for _, n := range o.Nodes {
		if !n.Active {
			continue
		}
		if !n.FixX {
			eqs[2*n.Id] = neq
			neq++
		}
		if !n.FixY {
			eqs[2*n.Id+1] = neq
			neq++
		}
	}
	sol = &Solution{U: make([]float64, 2*nn), Neq: neq}
	if neq == 0 {
		return // everything prescribed; displacements are all zero
	}

	// assemble K: each active spring contributes k times the outer product
	// of its unit direction to the four DOFs of its endpoints
	Kb := new(la.Triplet)
	Kb.Init(neq, neq, 16*len(o.Springs))
	for _, s := range o.Springs {
		if !s.Active {
			continue
		}
		_, nx, ny := o.Geom(s)
		d := []float64{nx, ny, -nx, -ny}
		dofs := []int{2 * s.A, 2*s.A + 1, 2 * s.B, 2*s.B + 1}
		for i := 0; i < 4; i++ {
			I := eqs[dofs[i]]
			if I < 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				J := eqs[dofs[j]]
				if J < 0 {
					continue
				}
				Kb.Put(I, J, s.K*d[i]*d[j])
			}
		}
	}

	// assemble F
	F := make([]float64, neq)
	for _, n := range o.Nodes {
		if !n.Active {
			continue
		}
		if eq := eqs[2*n.Id]; eq >= 0 {
			F[eq] += n.Fx
		}
		if eq := eqs[2*n.Id+1]; eq >= 0 {
			F[eq] += n.Fy
		}
	}

	// factorize and solve
	u, err := cholSolve(Kb.ToDense(), F)
	if err != nil {
		return nil, err
	}

	// expand to full length
	for dof, eq := range eqs {
		if eq >= 0 {
			sol.U[dof] = u[eq]
		}
	}
	return
}

// SetSolution writes solved displacements back into the nodes, for
// reporting collaborators. Kept separate so Solve stays purely functional.
func (o *Structure) SetSolution(sol *Solution) {
	for _, n := range o.Nodes {
		n.Ux = sol.Ux(n.Id)
		n.Uy = sol.Uy(n.Id)
	}
}

// cholSolve solves the symmetric system a·x = b by Cholesky factorization,
// failing when a pivot drops below the positive-definiteness tolerance.
// gosl's sparse solvers (UMFPACK/MUMPS bindings) panic on singular systems;
// here singularity is an expected, recoverable outcome of the optimizer
// loop and must surface as an error.
func cholSolve(a *la.Matrix, b []float64) (x []float64, err error) {
	n := len(b)
	dmax := 0.0
	for i := 0; i < n; i++ {
		if d := a.Get(i, i); d > dmax {
			dmax = d
		}
	}
	if dmax <= 0 {
		return nil, chk.Err("cannot solve linear system: stiffness matrix has no positive diagonal entry")
	}

	// lower factor L with a = L·Lᵀ
	L := la.NewMatrix(n, n)
	for j := 0; j < n; j++ {
		sum := a.Get(j, j)
		for k := 0; k < j; k++ {
			sum -= L.Get(j, k) * L.Get(j, k)
		}
		if sum <= pdTol*dmax {
			return nil, chk.Err("cannot solve linear system: stiffness matrix is singular or not positive-definite (pivot %d). check supports and load paths", j)
		}
		dj := math.Sqrt(sum)
		L.Set(j, j, dj)
		for i := j + 1; i < n; i++ {
			sum = a.Get(i, j)
			for k := 0; k < j; k++ {
				sum -= L.Get(i, k) * L.Get(j, k)
			}
			L.Set(i, j, sum/dj)
		}
	}

	// forward substitution: L·y = b
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L.Get(i, k) * y[k]
		}
		y[i] = sum / L.Get(i, i)
	}

	// back substitution: Lᵀ·x = y
	x = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= L.Get(k, i) * x[k]
		}
		x[i] = sum / L.Get(i, i)
	}
	return
}
