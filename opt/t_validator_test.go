// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"

	"github.com/florian-her/topology-optimization/fem"
	"github.com/florian-her/topology-optimization/inp"
)

// testStructure builds a lattice with the reference material
func testStructure(w, h int, sups []inp.SupportData, loads []inp.LoadData) *fem.Structure {
	sim := &inp.Simulation{
		Grid:     inp.GridData{Width: w, Height: h},
		Supports: sups,
		Loads:    loads,
		Mat:      &inp.Material{Name: "steel", E: 210.0, Sy: 250.0, Density: 7850.0},
	}
	return fem.NewStructure(sim)
}

// findSpring returns the id of the spring joining nodes a and b
func findSpring(tst *testing.T, st *fem.Structure, a, b int) int {
	for _, s := range st.Springs {
		if (s.A == a && s.B == b) || (s.A == b && s.B == a) {
			return s.Id
		}
	}
	tst.Fatalf("no spring joins nodes %d and %d", a, b)
	return -1
}

func Test_valid01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("valid01. connectivity and load paths")

	st := testStructure(4, 4,
		[]inp.SupportData{
			{X: 0, Y: 0, FixX: true, FixY: true},
			{X: 0, Y: 3, FixX: true, FixY: true},
		},
		[]inp.LoadData{{X: 3, Y: 1, Fy: -1}},
	)

	// the pristine lattice passes with an empty candidate set
	require.True(tst, CanRemove(st, nil))

	// one interior node may go; the lattice around it holds
	require.True(tst, CanRemove(st, []int{st.NodeId(2, 2)}))

	// cutting both middle columns splits supports from the load
	var cut []int
	for y := 0; y < 4; y++ {
		cut = append(cut, st.NodeId(1, y), st.NodeId(2, y))
	}
	require.False(tst, CanRemove(st, cut))

	// stripping every neighbor of the loaded node isolates it
	ring := []int{
		st.NodeId(3, 0), st.NodeId(3, 2),
		st.NodeId(2, 0), st.NodeId(2, 1), st.NodeId(2, 2),
	}
	require.False(tst, CanRemove(st, ring))

	// an already-inactive candidate is rejected outright
	nid := st.NodeId(3, 3)
	st.RemoveNode(nid)
	require.False(tst, CanRemove(st, []int{nid}))

	// the live structure was never touched by the rejected checks
	require.Equal(tst, 15, st.ActiveNodes())
}

func Test_valid02(tst *testing.T) {

	/*  4x2 lattice reduced to a two-node tail:
	 *
	 *   4----5    6    7      nodes 6 and 7 inactive; spring 2-5
	 *   |\  /|                deactivated. nodes 2 and 3 hang off
	 *   | \/ |                the 0-1-4-5 block through spring 1-2
	 *   | /\ |                and spring 2-3 only.
	 *   |/  \|
	 *   0----1----2----3
	 */

	//chk.Verbose = true
	chk.PrintTitle("valid02. atomic set validation")

	st := testStructure(4, 2,
		[]inp.SupportData{
			{X: 0, Y: 0, FixX: true, FixY: true},
			{X: 0, Y: 1, FixX: true, FixY: true},
		},
		[]inp.LoadData{{X: 1, Y: 1, Fy: -1}},
	)
	st.RemoveNode(st.NodeId(2, 1))
	st.RemoveNode(st.NodeId(3, 1))
	st.Springs[findSpring(tst, st, 2, 5)].Active = false

	// node 3 alone: node 2 would keep a single spring
	require.False(tst, CanRemove(st, []int{3}))

	// node 2 alone: node 3 would be disconnected
	require.False(tst, CanRemove(st, []int{2}))

	// the pair as a whole is fine; no single member is
	require.True(tst, CanRemove(st, []int{2, 3}))
}

func Test_valid03(tst *testing.T) {

	/*  2x3 lattice; springs 1-2 and 2-5 deactivated:
	 *
	 *   4----5      removing node 3 leaves node 2 with the two
	 *   |\  .|      vertical springs 0-2 and 2-4 only. two
	 *   | \. |      parallel springs cannot hold a joint.
	 *   | .\ |
	 *   2----3
	 *   |.  /|
	 *   | ./ |
	 *   | /. |
	 *   |/  .|
	 *   0----1
	 */

	//chk.Verbose = true
	chk.PrintTitle("valid03. joint mechanism detection")

	st := testStructure(2, 3,
		[]inp.SupportData{
			{X: 0, Y: 0, FixX: true, FixY: true},
			{X: 1, Y: 0, FixX: true, FixY: true},
		},
		[]inp.LoadData{{X: 0, Y: 2, Fy: -1}},
	)

	// the intact lattice braces node 2 well enough
	require.True(tst, CanRemove(st, []int{3}))

	st.Springs[findSpring(tst, st, 1, 2)].Active = false
	st.Springs[findSpring(tst, st, 2, 5)].Active = false
	require.False(tst, CanRemove(st, []int{3}))
}
