// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"math"
	"sync"

	"github.com/florian-her/topology-optimization/fem"
)

// parTol is the tolerance on the cross product of two unit directions
// below which the springs count as mutually parallel
const parTol = 1e-9

// hypoView is an immutable view of the active flags after a hypothetical
// removal of a candidate set. The live structure is never mutated before
// the decision; all three checks observe this one fixed view.
type hypoView struct {
	st      *fem.Structure
	off     []bool // candidate set marker
	nodeAct []bool // node active flags after removal
	sprAct  []bool // spring active flags after removal
}

// newHypoView applies the candidate set to a copy of the flags
func newHypoView(st *fem.Structure, candidates []int) (v *hypoView) {
	v = &hypoView{
		st:      st,
		off:     make([]bool, len(st.Nodes)),
		nodeAct: make([]bool, len(st.Nodes)),
		sprAct:  make([]bool, len(st.Springs)),
	}
	for i, n := range st.Nodes {
		v.nodeAct[i] = n.Active
	}
	for i, s := range st.Springs {
		v.sprAct[i] = s.Active
	}
	for _, nid := range candidates {
		v.off[nid] = true
		v.nodeAct[nid] = false
		for _, sid := range st.Incident(nid) {
			v.sprAct[sid] = false
		}
	}
	return
}

// CanRemove tells whether the candidate set may be removed as a whole.
// Validation is atomic over the set: a set may be valid while no single
// member is individually removable, and vice versa. Three independent
// conditions are all required:
//  1. the remaining active subgraph is a single connected component
//  2. every loaded node and every support node still reaches a support
//  3. no neighbor of a removed node is left a free mechanism
// The checks run concurrently over the same immutable hypothetical view.
func CanRemove(st *fem.Structure, candidates []int) bool {
	for _, nid := range candidates {
		if !st.Nodes[nid].Active {
			return false // already removed
		}
	}
	v := newHypoView(st, candidates)

	var connected, loadPath, stable bool
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); connected = v.isConnected() }()
	go func() { defer wg.Done(); loadPath = v.hasLoadPaths() }()
	go func() { defer wg.Done(); stable = v.neighborsStable(candidates) }()
	wg.Wait()
	return connected && loadPath && stable
}

// isConnected tells whether the active subgraph is one component.
// Breadth-first over the index-stable adjacency; no graph library needed.
func (v *hypoView) isConnected() bool {
	start, total := -1, 0
	for nid, act := range v.nodeAct {
		if act {
			total++
			if start < 0 {
				start = nid
			}
		}
	}
	if total <= 1 {
		return true
	}
	return v.reach([]int{start}) == total
}

// hasLoadPaths tells whether every active loaded node and every active
// support node remains connected to at least one support
func (v *hypoView) hasLoadPaths() bool {
	var supports []int
	for nid, act := range v.nodeAct {
		if act && v.st.Nodes[nid].Fixed() {
			supports = append(supports, nid)
		}
	}
	if len(supports) == 0 {
		return false
	}
	seen := make([]bool, len(v.nodeAct))
	v.bfs(supports, seen)
	for nid, act := range v.nodeAct {
		if !act {
			continue
		}
		n := v.st.Nodes[nid]
		if (n.Loaded() || n.Fixed()) && !seen[nid] {
			return false
		}
	}
	return true
}

// neighborsStable checks mechanism stability: every remaining neighbor of
// a removed node must keep at least two active incident springs that are
// not all mutually parallel. A joint with one spring, or with parallel
// springs only, moves freely without resistance.
func (v *hypoView) neighborsStable(candidates []int) bool {
	checked := make(map[int]bool)
	for _, nid := range candidates {
		for _, sid := range v.st.Incident(nid) {
			if !v.st.Springs[sid].Active {
				continue // was no neighbor before the removal either
			}
			nb := v.st.Springs[sid].Other(nid)
			if !v.nodeAct[nb] || checked[nb] {
				continue
			}
			checked[nb] = true
			if !v.jointStable(nb) {
				return false
			}
		}
	}
	return true
}

// jointStable tells whether node nid keeps ≥2 non-parallel active springs
func (v *hypoView) jointStable(nid int) bool {
	var dirs [][2]float64
	for _, sid := range v.st.Incident(nid) {
		if !v.sprAct[sid] {
			continue
		}
		_, nx, ny := v.st.Geom(v.st.Springs[sid])
		dirs = append(dirs, [2]float64{nx, ny})
	}
	if len(dirs) < 2 {
		return false
	}
	first := dirs[0]
	for _, d := range dirs[1:] {
		if math.Abs(first[0]*d[1]-first[1]*d[0]) > parTol {
			return true
		}
	}
	return false
}

// reach returns the number of active nodes reachable from the seeds
func (v *hypoView) reach(seeds []int) int {
	seen := make([]bool, len(v.nodeAct))
	return v.bfs(seeds, seen)
}

// bfs runs a slice-queue breadth-first search over active springs,
// marking seen and returning the number of visited nodes
func (v *hypoView) bfs(seeds []int, seen []bool) (count int) {
	queue := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		count++
		for _, sid := range v.st.Incident(u) {
			if !v.sprAct[sid] {
				continue
			}
			w := v.st.Springs[sid].Other(u)
			if v.nodeAct[w] && !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
	return
}
