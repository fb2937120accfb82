// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

// Spring holds one elastic link between two nodes. Springs reference nodes
// by id; the Structure owns both arrays.
type Spring struct {
	Id     int     `json:"id"`     // identifier, stable for the structure's lifetime
	A      int     `json:"a"`      // id of first endpoint
	B      int     `json:"b"`      // id of second endpoint
	K      float64 `json:"k"`      // stiffness coefficient: (1 or 1/√2) × E/Eref
	Active bool    `json:"active"` // participates in assembly
}

// Other returns the endpoint opposite to nid
func (o *Spring) Other(nid int) int {
	if o.A == nid {
		return o.B
	}
	return o.A
}
