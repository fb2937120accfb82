// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a simulation (.sim/.yaml) file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"gopkg.in/yaml.v3"
)

// GridData holds the lattice dimensions
type GridData struct {
	Width  int `json:"width" yaml:"width"`   // number of nodes along x
	Height int `json:"height" yaml:"height"` // number of nodes along y
}

// SupportData prescribes fixities at one grid position
type SupportData struct {
	X    int  `json:"x" yaml:"x"`       // grid column
	Y    int  `json:"y" yaml:"y"`       // grid row
	FixX bool `json:"fixx" yaml:"fixx"` // fix x-displacement
	FixY bool `json:"fixy" yaml:"fixy"` // fix y-displacement
}

// LoadData prescribes a point force at one grid position
type LoadData struct {
	X  int     `json:"x" yaml:"x"`   // grid column
	Y  int     `json:"y" yaml:"y"`   // grid row
	Fx float64 `json:"fx" yaml:"fx"` // force along x [N]
	Fy float64 `json:"fy" yaml:"fy"` // force along y [N]
}

// RunData holds the optimizer run configuration. Immutable per run.
type RunData struct {
	Strategy    string  `json:"strategy" yaml:"strategy"`       // "exact" or "fast"
	TargetMass  float64 `json:"targetmass" yaml:"targetmass"`   // target active mass fraction in (0,1]
	BatchHigh   float64 `json:"batchhigh" yaml:"batchhigh"`     // remaining-mass threshold above which batch = ceiling
	BatchLow    float64 `json:"batchlow" yaml:"batchlow"`       // remaining-mass threshold below which batch = 1
	BatchCeil   int     `json:"batchceil" yaml:"batchceil"`     // maximum batch size
	Symmetry    bool    `json:"symmetry" yaml:"symmetry"`       // couple removals across the vertical axis
	StressLimit float64 `json:"stresslimit" yaml:"stresslimit"` // stop when max stress exceeds this [MPa]; 0 disables
	HistoryDB   string  `json:"historydb" yaml:"historydb"`     // SQLite file for per-iteration history; "" disables
	DirOut      string  `json:"dirout" yaml:"dirout"`           // directory for output files
}

// SetDefaults fixes unset run parameters
func (o *RunData) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = "exact"
	}
	if o.BatchHigh == 0 {
		o.BatchHigh = 0.8
	}
	if o.BatchLow == 0 {
		o.BatchLow = 0.5
	}
	if o.BatchCeil == 0 {
		o.BatchCeil = 30
	}
	if o.DirOut == "" {
		o.DirOut = "/tmp/trussopt"
	}
}

// Validate checks run parameters. Must pass before any iteration begins.
func (o *RunData) Validate() (err error) {
	if o.Strategy != "exact" && o.Strategy != "fast" {
		return chk.Err("strategy %q is invalid; options are \"exact\" and \"fast\"", o.Strategy)
	}
	if o.TargetMass <= 0 || o.TargetMass > 1 {
		return chk.Err("target mass fraction must be within (0,1]. %g is invalid", o.TargetMass)
	}
	if o.BatchCeil < 1 {
		return chk.Err("batch ceiling must be at least 1. %d is invalid", o.BatchCeil)
	}
	if o.BatchLow <= 0 || o.BatchHigh <= 0 || o.BatchLow >= o.BatchHigh {
		return chk.Err("batch thresholds must satisfy 0 < low < high. low=%g high=%g is invalid", o.BatchLow, o.BatchHigh)
	}
	if o.StressLimit < 0 {
		return chk.Err("stress limit must be non-negative. %g is invalid", o.StressLimit)
	}
	return
}

// Simulation holds all simulation input data
type Simulation struct {

	// input
	Desc      string        `json:"desc" yaml:"desc"`           // description of simulation
	Grid      GridData      `json:"grid" yaml:"grid"`           // lattice dimensions
	Supports  []SupportData `json:"supports" yaml:"supports"`   // prescribed fixities
	Loads     []LoadData    `json:"loads" yaml:"loads"`         // prescribed point forces
	MatFile   string        `json:"matfile" yaml:"matfile"`     // materials (.mat) file path; "" => built-in database
	MatName   string        `json:"material" yaml:"material"`   // name of material to use
	Materials MatsData      `json:"materials" yaml:"materials"` // inline materials; override built-in database
	Run       RunData       `json:"run" yaml:"run"`             // optimizer run configuration

	// derived
	Mat *Material // selected material
}

// ReadSim reads a simulation file. The format follows the extension:
// ".yaml"/".yml" for YAML, anything else for JSON.
func ReadSim(simfilepath string) (o *Simulation, err error) {

	// read file
	dir, fn := filepath.Split(simfilepath)
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file:\n%v", err)
	}

	// decode
	o = new(Simulation)
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("cannot parse simulation file %q:\n%v", fn, err)
	}

	// defaults and checks
	o.Run.SetDefaults()
	err = o.Validate()
	if err != nil {
		return nil, err
	}

	// material database
	var mdb *MatDb
	switch {
	case len(o.Materials) > 0:
		mdb = &MatDb{Materials: o.Materials}
		for _, m := range mdb.Materials {
			err = m.Validate()
			if err != nil {
				return nil, err
			}
		}
		mdb.makeIndex()
	case o.MatFile != "":
		mdb, err = ReadMat(dir, o.MatFile)
		if err != nil {
			return nil, err
		}
	default:
		mdb = DefaultMats()
	}

	// select material
	if o.MatName == "" {
		o.MatName = "steel"
	}
	o.Mat, err = mdb.Get(o.MatName)
	return
}

// Validate checks grid, supports and loads
func (o *Simulation) Validate() (err error) {
	if o.Grid.Width < 2 || o.Grid.Height < 2 {
		return chk.Err("grid must be at least 2x2. %dx%d is invalid", o.Grid.Width, o.Grid.Height)
	}
	if len(o.Supports) < 1 {
		return chk.Err("simulation must prescribe at least one support")
	}
	if len(o.Loads) < 1 {
		return chk.Err("simulation must prescribe at least one load")
	}
	for _, s := range o.Supports {
		if !o.inGrid(s.X, s.Y) {
			return chk.Err("support at (%d,%d) is outside the %dx%d grid", s.X, s.Y, o.Grid.Width, o.Grid.Height)
		}
		if !s.FixX && !s.FixY {
			return chk.Err("support at (%d,%d) must fix at least one axis", s.X, s.Y)
		}
	}
	for _, l := range o.Loads {
		if !o.inGrid(l.X, l.Y) {
			return chk.Err("load at (%d,%d) is outside the %dx%d grid", l.X, l.Y, o.Grid.Width, o.Grid.Height)
		}
		if l.Fx == 0 && l.Fy == 0 {
			return chk.Err("load at (%d,%d) must have a nonzero force", l.X, l.Y)
		}
	}
	return o.Run.Validate()
}

// inGrid tells whether grid position (x,y) exists
func (o *Simulation) inGrid(x, y int) bool {
	return x >= 0 && x < o.Grid.Width && y >= 0 && y < o.Grid.Height
}
