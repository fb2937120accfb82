// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
)

// Eref is the reference elastic modulus [GPa] at which the lattice spring
// coefficients equal their nominal values (1 for axis-aligned springs,
// 1/sqrt(2) for diagonals). Swapping materials scales all coefficients by
// E/Eref and therefore changes magnitudes, never topology.
const Eref = 210.0

// Material holds material data
type Material struct {
	Name    string  `json:"name" yaml:"name"`       // name of material
	E       float64 `json:"E" yaml:"E"`             // elastic modulus [GPa]
	Sy      float64 `json:"sy" yaml:"sy"`           // yield strength [MPa]
	Density float64 `json:"density" yaml:"density"` // density [kg/m³]
}

// Validate checks material data
func (o *Material) Validate() (err error) {
	if o.Name == "" {
		return chk.Err("material must have a name")
	}
	if o.E <= 0 {
		return chk.Err("material %q: elastic modulus must be positive. E=%g is invalid", o.Name, o.E)
	}
	if o.Sy <= 0 {
		return chk.Err("material %q: yield strength must be positive. sy=%g is invalid", o.Name, o.Sy)
	}
	if o.Density <= 0 {
		return chk.Err("material %q: density must be positive. density=%g is invalid", o.Name, o.Density)
	}
	return
}

// Stiffness returns the factor scaling all nominal spring coefficients
func (o *Material) Stiffness() float64 {
	return o.E / Eref
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {

	// input
	Materials MatsData `json:"materials" yaml:"materials"` // all materials

	// derived
	byName map[string]*Material // name => material
}

// DefaultMats returns a database with the built-in materials
func DefaultMats() (mdb *MatDb) {
	mdb = &MatDb{Materials: MatsData{
		{Name: "steel", E: 210.0, Sy: 250.0, Density: 7850.0},
		{Name: "aluminium", E: 70.0, Sy: 270.0, Density: 2700.0},
		{Name: "spruce", E: 12.0, Sy: 40.0, Density: 500.0},
	}}
	mdb.makeIndex()
	return
}

// ReadMat reads a materials database from a .mat JSON file
func ReadMat(dir, fn string) (mdb *MatDb, err error) {

	// read file
	b, err := os.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, chk.Err("cannot read materials file:\n%v", err)
	}

	// decode
	mdb = new(MatDb)
	err = json.Unmarshal(b, mdb)
	if err != nil {
		return nil, chk.Err("cannot parse materials file %q:\n%v", fn, err)
	}

	// check
	for _, m := range mdb.Materials {
		err = m.Validate()
		if err != nil {
			return nil, err
		}
	}
	mdb.makeIndex()
	return
}

// Get returns a material by name or an error when absent
func (o *MatDb) Get(name string) (mat *Material, err error) {
	mat, ok := o.byName[name]
	if !ok {
		return nil, chk.Err("cannot find material named %q in database", name)
	}
	return
}

// makeIndex builds the name index
func (o *MatDb) makeIndex() {
	o.byName = make(map[string]*Material)
	for _, m := range o.Materials {
		o.byName[m.Name] = m
	}
}
