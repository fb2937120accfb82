// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/florian-her/topology-optimization/inp"
)

// testMat returns the reference material (stiffness factor 1)
func testMat() *inp.Material {
	return &inp.Material{Name: "steel", E: 210.0, Sy: 250.0, Density: 7850.0}
}

func Test_struct01(tst *testing.T) {

	/*  2x2 lattice (row-major ids):
	 *
	 *   2----3      springs: 0-1 horiz, 0-2 vert, 0-3 diag \
	 *   |\  /|               1-2 diag /, 1-3 vert, 2-3 horiz
	 *   | \/ |
	 *   | /\ |
	 *   |/  \|
	 *   0----1
	 */

	//chk.Verbose = true
	chk.PrintTitle("struct01. lattice generation")

	sim := &inp.Simulation{
		Grid:     inp.GridData{Width: 2, Height: 2},
		Supports: []inp.SupportData{{X: 0, Y: 0, FixX: true, FixY: true}},
		Loads:    []inp.LoadData{{X: 1, Y: 1, Fy: -1}},
		Mat:      testMat(),
	}
	s := NewStructure(sim)

	chk.IntAssert(len(s.Nodes), 4)
	chk.IntAssert(len(s.Springs), 6)
	chk.IntAssert(s.ActiveNodes(), 4)
	chk.IntAssert(s.ActiveSprings(), 6)

	// ids are row-major
	chk.IntAssert(s.NodeId(1, 1), 3)
	chk.Float64(tst, "node 3 x", 1e-15, s.Nodes[3].X, 1.0)
	chk.Float64(tst, "node 3 y", 1e-15, s.Nodes[3].Y, 1.0)

	// boundary conditions applied
	if !s.Nodes[0].FixX || !s.Nodes[0].FixY {
		tst.Errorf("support at node 0 was not applied")
		return
	}
	chk.Float64(tst, "fy node 3", 1e-15, s.Nodes[3].Fy, -1.0)
	if !s.Nodes[0].Protected() || !s.Nodes[3].Protected() {
		tst.Errorf("supported and loaded nodes must be protected")
		return
	}
	if s.Nodes[1].Protected() {
		tst.Errorf("free node 1 must not be protected")
		return
	}

	// coefficients: 1 for axis-aligned, 1/√2 for diagonals (factor 1)
	for _, sp := range s.Springs {
		l, _, _ := s.Geom(sp)
		if l > 1.1 {
			chk.Float64(tst, "k diagonal", 1e-15, sp.K, 1.0/math.Sqrt2)
			chk.Float64(tst, "l diagonal", 1e-15, l, math.Sqrt2)
		} else {
			chk.Float64(tst, "k axis", 1e-15, sp.K, 1.0)
			chk.Float64(tst, "l axis", 1e-15, l, 1.0)
		}
	}
}

func Test_struct02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("struct02. removal cascade, snapshot and restore")

	sim := &inp.Simulation{
		Grid:     inp.GridData{Width: 3, Height: 3},
		Supports: []inp.SupportData{{X: 0, Y: 0, FixX: true, FixY: true}},
		Loads:    []inp.LoadData{{X: 2, Y: 0, Fy: -1}},
		Mat:      testMat(),
	}
	s := NewStructure(sim)
	chk.IntAssert(len(s.Nodes), 9)
	chk.IntAssert(len(s.Springs), 20)

	// center node 4 touches 8 springs
	chk.IntAssert(len(s.Incident(4)), 8)

	snap := s.TakeSnapshot()
	s.RemoveNode(4)
	chk.IntAssert(s.ActiveNodes(), 8)
	chk.IntAssert(s.ActiveSprings(), 12)
	for _, sid := range s.Incident(4) {
		if s.Springs[sid].Active {
			tst.Errorf("spring %d must be inactive after removing node 4", sid)
			return
		}
	}

	// active springs always join two active nodes
	for _, sp := range s.Springs {
		if sp.Active && (!s.Nodes[sp.A].Active || !s.Nodes[sp.B].Active) {
			tst.Errorf("active spring %d has an inactive endpoint", sp.Id)
			return
		}
	}

	s.Restore(snap)
	chk.IntAssert(s.ActiveNodes(), 9)
	chk.IntAssert(s.ActiveSprings(), 20)

	// mass fraction
	s.RemoveNode(4)
	chk.Float64(tst, "mass fraction", 1e-15, s.MassFraction(), 8.0/9.0)
}

func Test_struct03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("struct03. mirror ids and clone independence")

	sim := &inp.Simulation{
		Grid:     inp.GridData{Width: 5, Height: 3},
		Supports: []inp.SupportData{{X: 0, Y: 0, FixX: true, FixY: true}},
		Loads:    []inp.LoadData{{X: 4, Y: 0, Fy: -1}},
		Mat:      testMat(),
	}
	s := NewStructure(sim)

	// mirror across the vertical axis keeps the row
	chk.IntAssert(s.MirrorId(s.NodeId(0, 1)), s.NodeId(4, 1))
	chk.IntAssert(s.MirrorId(s.NodeId(1, 2)), s.NodeId(3, 2))
	chk.IntAssert(s.MirrorId(s.NodeId(2, 0)), s.NodeId(2, 0)) // center column

	// clones do not share flags
	c := s.Clone()
	s.RemoveNode(s.NodeId(2, 1))
	if !c.Nodes[s.NodeId(2, 1)].Active {
		tst.Errorf("clone must be independent of the original")
		return
	}
	chk.IntAssert(c.ActiveNodes(), 15)
}
