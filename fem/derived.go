// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "math"

// SpringEnergies returns the strain energy of every spring, indexed by
// spring id. Inactive springs get zero. For one spring with unit direction
// n and relative endpoint displacement Δu the energy is 0.5·k·(n·Δu)².
func (o *Structure) SpringEnergies(sol *Solution) (e []float64) {
	e = make([]float64, len(o.Springs))
	for _, s := range o.Springs {
		if !s.Active {
			continue
		}
		p := o.axialElong(s, sol)
		e[s.Id] = 0.5 * s.K * p * p
	}
	return
}

// SpringStresses returns the absolute normal stress of every spring [MPa],
// indexed by spring id: σ = E·ε with ε the axial elongation over length.
func (o *Structure) SpringStresses(sol *Solution) (sig []float64) {
	sig = make([]float64, len(o.Springs))
	EMPa := o.Mat.E * 1000.0
	for _, s := range o.Springs {
		if !s.Active {
			continue
		}
		l, _, _ := o.Geom(s)
		sig[s.Id] = math.Abs(EMPa * o.axialElong(s, sol) / l)
	}
	return
}

// MaxStress returns the largest active-spring stress [MPa]
func (o *Structure) MaxStress(sol *Solution) (max float64) {
	for _, s := range o.Springs {
		if !s.Active {
			continue
		}
		l, _, _ := o.Geom(s)
		if sig := math.Abs(o.Mat.E * 1000.0 * o.axialElong(s, sol) / l); sig > max {
			max = sig
		}
	}
	return
}

// TotalEnergy returns the total strain energy of the active springs
func (o *Structure) TotalEnergy(sol *Solution) (sum float64) {
	for _, e := range o.SpringEnergies(sol) {
		sum += e
	}
	return
}

// Compliance returns the displacement vector dotted with itself;
// lower means stiffer
func (o *Structure) Compliance(sol *Solution) (c float64) {
	for _, u := range sol.U {
		c += u * u
	}
	return
}

// NodeScores distributes each active spring's energy evenly to its two
// endpoints and returns the per-node score for every active, unprotected
// node. Protected nodes (loaded or fixed) are excluded from ranking.
func (o *Structure) NodeScores(sol *Solution) (scores map[int]float64) {
	energy := o.SpringEnergies(sol)
	acc := make([]float64, len(o.Nodes))
	for _, s := range o.Springs {
		if !s.Active {
			continue
		}
		half := energy[s.Id] / 2.0
		acc[s.A] += half
		acc[s.B] += half
	}
	scores = make(map[int]float64)
	for _, n := range o.Nodes {
		if !n.Active || n.Protected() {
			continue
		}
		scores[n.Id] = acc[n.Id]
	}
	return
}

// axialElong returns the elongation of a spring projected onto its axis
func (o *Structure) axialElong(s *Spring, sol *Solution) float64 {
	_, nx, ny := o.Geom(s)
	dux := sol.Ux(s.B) - sol.Ux(s.A)
	duy := sol.Uy(s.B) - sol.Uy(s.A)
	return nx*dux + ny*duy
}
