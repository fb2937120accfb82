// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the truss lattice model and its finite element solver
package fem

// Node holds one lattice point mass. Ids are stable for the lifetime of the
// structure; removal only clears the Active flag.
type Node struct {

	// input
	Id     int     `json:"id"`     // identifier == y*width + x (row-major)
	X      float64 `json:"x"`      // position along x
	Y      float64 `json:"y"`      // position along y
	Active bool    `json:"active"` // participates in solve and optimization
	FixX   bool    `json:"fixx"`   // x-displacement prescribed to zero
	FixY   bool    `json:"fixy"`   // y-displacement prescribed to zero
	Fx     float64 `json:"fx"`     // applied force along x [N]
	Fy     float64 `json:"fy"`     // applied force along y [N]

	// derived: solved displacement
	Ux float64 `json:"-"` // displacement along x
	Uy float64 `json:"-"` // displacement along y
}

// Fixed tells whether any axis is constrained (support node)
func (o *Node) Fixed() bool {
	return o.FixX || o.FixY
}

// Loaded tells whether the node carries a nonzero applied force
func (o *Node) Loaded() bool {
	return o.Fx != 0 || o.Fy != 0
}

// Protected tells whether the node must never be removed
func (o *Node) Protected() bool {
	return o.Fixed() || o.Loaded()
}
