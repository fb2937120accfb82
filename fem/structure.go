// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/florian-her/topology-optimization/inp"
)

// Structure holds all nodes and springs of one rectangular lattice plus the
// selected material. The lattice is generated once; afterwards the optimizer
// only flips active flags. Springs reference nodes by index, never owning
// them, so flag snapshots are plain slice copies.
type Structure struct {

	// input
	Width   int           // number of nodes along x
	Height  int           // number of nodes along y
	Mat     *inp.Material // material scaling all spring coefficients
	Nodes   []*Node       // all nodes; index == id
	Springs []*Spring     // all springs; index == id

	// derived
	incident [][]int // node id => ids of incident springs (active or not)
}

// NewStructure builds a structure from a simulation deck: lattice first,
// then supports and loads overlaid. The deck must have passed Validate.
func NewStructure(sim *inp.Simulation) (o *Structure) {
	o = newLattice(sim.Grid.Width, sim.Grid.Height, sim.Mat)
	for _, s := range sim.Supports {
		n := o.Nodes[o.NodeId(s.X, s.Y)]
		n.FixX = s.FixX
		n.FixY = s.FixY
	}
	for _, l := range sim.Loads {
		n := o.Nodes[o.NodeId(l.X, l.Y)]
		n.Fx += l.Fx
		n.Fy += l.Fy
	}
	return
}

// newLattice generates the w×h grid with four springs per cell:
//
//   o----o    per cell (x,y):  horizontal  (x,y)-(x+1,y)
//   |\  /|                     vertical    (x,y)-(x,y+1)
//   | \/ |                     diagonal \  (x,y)-(x+1,y+1)
//   | /\ |                     diagonal /  (x+1,y)-(x,y+1)
//   |/  \|
//   o----o
//
// Axis-aligned springs get coefficient 1, diagonals 1/√2, both scaled by
// the material factor E/Eref.
func newLattice(w, h int, mat *inp.Material) (o *Structure) {
	if w < 2 || h < 2 {
		chk.Panic("lattice must be at least 2x2. %dx%d is invalid", w, h)
	}
	o = &Structure{Width: w, Height: h, Mat: mat}
	f := mat.Stiffness()
	kaxis := 1.0 * f
	kdiag := f / math.Sqrt2

	// nodes
	o.Nodes = make([]*Node, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := y*w + x
			o.Nodes[id] = &Node{Id: id, X: float64(x), Y: float64(y), Active: true}
		}
	}

	// springs
	add := func(a, b int, k float64) {
		o.Springs = append(o.Springs, &Spring{Id: len(o.Springs), A: a, B: b, K: k, Active: true})
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := y*w + x
			if x < w-1 {
				add(id, id+1, kaxis)
			}
			if y < h-1 {
				add(id, id+w, kaxis)
			}
			if x < w-1 && y < h-1 {
				add(id, id+w+1, kdiag)
				add(id+1, id+w, kdiag)
			}
		}
	}

	// incidence
	o.incident = make([][]int, len(o.Nodes))
	for _, s := range o.Springs {
		o.incident[s.A] = append(o.incident[s.A], s.Id)
		o.incident[s.B] = append(o.incident[s.B], s.Id)
	}
	return
}

// NodeId returns the id of the node at grid position (x,y)
func (o *Structure) NodeId(x, y int) int {
	return y*o.Width + x
}

// MirrorId returns the id of the node mirrored across the vertical axis
func (o *Structure) MirrorId(id int) int {
	x := id % o.Width
	y := id / o.Width
	return y*o.Width + (o.Width - 1 - x)
}

// Incident returns the ids of all springs touching node nid, active or not
func (o *Structure) Incident(nid int) []int {
	return o.incident[nid]
}

// RemoveNode deactivates one node and all its incident springs
func (o *Structure) RemoveNode(nid int) {
	n := o.Nodes[nid]
	if !n.Active {
		chk.Panic("node %d is already inactive", nid)
	}
	n.Active = false
	for _, sid := range o.incident[nid] {
		o.Springs[sid].Active = false
	}
}

// ActiveNodes returns the number of active nodes
func (o *Structure) ActiveNodes() (n int) {
	for _, nod := range o.Nodes {
		if nod.Active {
			n++
		}
	}
	return
}

// ActiveSprings returns the number of active springs
func (o *Structure) ActiveSprings() (n int) {
	for _, s := range o.Springs {
		if s.Active {
			n++
		}
	}
	return
}

// MassFraction returns active nodes over total nodes
func (o *Structure) MassFraction() float64 {
	return float64(o.ActiveNodes()) / float64(len(o.Nodes))
}

// Geom returns the length and unit direction of a spring
func (o *Structure) Geom(s *Spring) (l, nx, ny float64) {
	a, b := o.Nodes[s.A], o.Nodes[s.B]
	dx := b.X - a.X
	dy := b.Y - a.Y
	l = math.Hypot(dx, dy)
	nx = dx / l
	ny = dy / l
	return
}

// Snapshot holds a committed active-flag state used for rollback
type Snapshot struct {
	Nodes   []bool
	Springs []bool
}

// TakeSnapshot copies the active flags of all nodes and springs
func (o *Structure) TakeSnapshot() (s Snapshot) {
	s.Nodes = make([]bool, len(o.Nodes))
	s.Springs = make([]bool, len(o.Springs))
	for i, n := range o.Nodes {
		s.Nodes[i] = n.Active
	}
	for i, sp := range o.Springs {
		s.Springs[i] = sp.Active
	}
	return
}

// Restore puts the active flags back to a snapshot's state
func (o *Structure) Restore(s Snapshot) {
	for i, n := range o.Nodes {
		n.Active = s.Nodes[i]
	}
	for i, sp := range o.Springs {
		sp.Active = s.Springs[i]
	}
}

// Clone returns an independent copy sharing only the material record.
// Concurrent runs must each own their copy.
func (o *Structure) Clone() (c *Structure) {
	c = newLattice(o.Width, o.Height, o.Mat)
	for i, n := range o.Nodes {
		*c.Nodes[i] = *n
	}
	for i, s := range o.Springs {
		*c.Springs[i] = *s
	}
	return
}
