// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_sim01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("sim01. read JSON simulation deck")

	sim, err := ReadSim("data/cantilever.sim")
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}

	chk.IntAssert(sim.Grid.Width, 4)
	chk.IntAssert(sim.Grid.Height, 3)
	chk.IntAssert(len(sim.Supports), 3)
	chk.IntAssert(len(sim.Loads), 1)
	chk.Float64(tst, "load fy", 1e-15, sim.Loads[0].Fy, -1.0)

	// material resolved from built-in database
	if sim.Mat == nil {
		tst.Errorf("material was not resolved")
		return
	}
	chk.StrAssert(sim.Mat.Name, "steel")
	chk.Float64(tst, "E", 1e-15, sim.Mat.E, 210.0)
	chk.Float64(tst, "stiffness factor", 1e-15, sim.Mat.Stiffness(), 1.0)

	// run defaults
	chk.StrAssert(sim.Run.Strategy, "exact")
	chk.Float64(tst, "targetmass", 1e-15, sim.Run.TargetMass, 0.5)
	chk.Float64(tst, "batchhigh", 1e-15, sim.Run.BatchHigh, 0.8)
	chk.Float64(tst, "batchlow", 1e-15, sim.Run.BatchLow, 0.5)
	chk.IntAssert(sim.Run.BatchCeil, 30)
}

func Test_sim02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("sim02. read YAML simulation deck with inline materials")

	sim, err := ReadSim("data/mbb.yaml")
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}

	chk.IntAssert(sim.Grid.Width, 12)
	chk.IntAssert(sim.Grid.Height, 4)
	chk.IntAssert(len(sim.Supports), 8)
	chk.StrAssert(sim.Run.Strategy, "fast")
	chk.IntAssert(sim.Run.BatchCeil, 10)

	// inline material overrides the built-in database
	chk.StrAssert(sim.Mat.Name, "aluminium")
	chk.Float64(tst, "E", 1e-15, sim.Mat.E, 70.0)
	chk.Float64(tst, "density", 1e-15, sim.Mat.Density, 2700.0)
}

func Test_sim03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("sim03. configuration errors are caught before any run")

	// bad grids, supports, loads
	bad := []Simulation{
		{Grid: GridData{Width: 1, Height: 3}},
		{Grid: GridData{Width: 3, Height: 3}}, // no supports
		{
			Grid:     GridData{Width: 3, Height: 3},
			Supports: []SupportData{{X: 0, Y: 0, FixX: true, FixY: true}},
		}, // no loads
		{
			Grid:     GridData{Width: 3, Height: 3},
			Supports: []SupportData{{X: 5, Y: 0, FixX: true}},
			Loads:    []LoadData{{X: 1, Y: 1, Fy: -1}},
		}, // support outside grid
		{
			Grid:     GridData{Width: 3, Height: 3},
			Supports: []SupportData{{X: 0, Y: 0, FixX: true, FixY: true}},
			Loads:    []LoadData{{X: 1, Y: 1}},
		}, // zero force
	}
	for i := range bad {
		bad[i].Run.SetDefaults()
		bad[i].Run.TargetMass = 0.5
		if err := bad[i].Validate(); err == nil {
			tst.Errorf("case %d: Validate should have failed", i)
			return
		}
	}

	// bad run parameters
	badRun := []RunData{
		{Strategy: "magic", TargetMass: 0.5, BatchHigh: 0.8, BatchLow: 0.5, BatchCeil: 30},
		{Strategy: "exact", TargetMass: 0, BatchHigh: 0.8, BatchLow: 0.5, BatchCeil: 30},
		{Strategy: "exact", TargetMass: 1.5, BatchHigh: 0.8, BatchLow: 0.5, BatchCeil: 30},
		{Strategy: "exact", TargetMass: 0.5, BatchHigh: 0.8, BatchLow: 0.5, BatchCeil: -1},
		{Strategy: "exact", TargetMass: 0.5, BatchHigh: 0.5, BatchLow: 0.8, BatchCeil: 30},
		{Strategy: "exact", TargetMass: 0.5, BatchHigh: 0.8, BatchLow: 0.5, BatchCeil: 30, StressLimit: -1},
	}
	for i, r := range badRun {
		if err := r.Validate(); err == nil {
			tst.Errorf("run case %d: Validate should have failed", i)
			return
		}
	}

	// missing file
	if _, err := ReadSim("data/no-such.sim"); err == nil {
		tst.Errorf("ReadSim should have failed for a missing file")
		return
	}
}

func Test_mat01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("mat01. built-in material database")

	mdb := DefaultMats()
	chk.IntAssert(len(mdb.Materials), 3)

	steel, err := mdb.Get("steel")
	if err != nil {
		tst.Errorf("Get failed:\n%v", err)
		return
	}
	chk.Float64(tst, "E steel", 1e-15, steel.E, 210.0)
	chk.Float64(tst, "sy steel", 1e-15, steel.Sy, 250.0)

	spruce, err := mdb.Get("spruce")
	if err != nil {
		tst.Errorf("Get failed:\n%v", err)
		return
	}
	chk.Float64(tst, "stiffness factor spruce", 1e-15, spruce.Stiffness(), 12.0/210.0)

	_, err = mdb.Get("unobtainium")
	if err == nil {
		tst.Errorf("Get should have failed for unknown material")
		return
	}

	_, err = ReadMat("data", "no-such.mat")
	if err == nil {
		tst.Errorf("ReadMat should have failed for a missing file")
		return
	}

	// invalid materials
	for i, m := range []Material{
		{Name: "", E: 1, Sy: 1, Density: 1},
		{Name: "m", E: 0, Sy: 1, Density: 1},
		{Name: "m", E: 1, Sy: -1, Density: 1},
		{Name: "m", E: 1, Sy: 1, Density: 0},
	} {
		if err := m.Validate(); err == nil {
			tst.Errorf("material case %d: Validate should have failed", i)
			return
		}
	}
}
