// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements read-only result queries for reporting and
// visualization collaborators. Nothing here drives optimizer state.
package out

import (
	"github.com/cpmech/gosl/io"

	"github.com/florian-her/topology-optimization/fem"
	"github.com/florian-her/topology-optimization/opt"
)

// NodeDisp is one row of the displacement table
type NodeDisp struct {
	Id     int     // node id
	X, Y   float64 // position
	Ux, Uy float64 // solved displacement
}

// SpringState is one row of the spring results table
type SpringState struct {
	Id     int     // spring id
	A, B   int     // endpoint node ids
	Energy float64 // strain energy
	Stress float64 // absolute normal stress [MPa]
}

// ActiveNodeIds returns the ids of all active nodes, ascending
func ActiveNodeIds(st *fem.Structure) (ids []int) {
	for _, n := range st.Nodes {
		if n.Active {
			ids = append(ids, n.Id)
		}
	}
	return
}

// ActiveSpringIds returns the ids of all active springs, ascending
func ActiveSpringIds(st *fem.Structure) (ids []int) {
	for _, s := range st.Springs {
		if s.Active {
			ids = append(ids, s.Id)
		}
	}
	return
}

// Displacements returns the displacement table of the active nodes
func Displacements(st *fem.Structure, sol *fem.Solution) (table []NodeDisp) {
	for _, n := range st.Nodes {
		if !n.Active {
			continue
		}
		table = append(table, NodeDisp{Id: n.Id, X: n.X, Y: n.Y, Ux: sol.Ux(n.Id), Uy: sol.Uy(n.Id)})
	}
	return
}

// SpringStates returns the energy/stress table of the active springs
func SpringStates(st *fem.Structure, sol *fem.Solution) (table []SpringState) {
	energies := st.SpringEnergies(sol)
	stresses := st.SpringStresses(sol)
	for _, s := range st.Springs {
		if !s.Active {
			continue
		}
		table = append(table, SpringState{Id: s.Id, A: s.A, B: s.B, Energy: energies[s.Id], Stress: stresses[s.Id]})
	}
	return
}

// PrintSummary prints a run summary
func PrintSummary(res *opt.Result, st *fem.Structure) {
	io.Pf("\n")
	io.Pf("run %s\n", res.RunId)
	io.Pf("  status        = %v", res.Status)
	if res.Status == opt.Aborted {
		io.Pf(" (%v)", res.Reason)
	}
	io.Pf("\n")
	io.Pf("  iterations    = %d\n", res.Iterations)
	io.Pf("  removed nodes = %d\n", res.Removed)
	io.Pf("  active nodes  = %d / %d\n", st.ActiveNodes(), len(st.Nodes))
	io.Pf("  mass fraction = %.3f\n", res.MassFraction)
	io.Pf("  max stress    = %.4f MPa\n", res.MaxStress)
}
