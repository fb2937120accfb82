// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/klauspost/compress/zstd"

	"github.com/florian-her/topology-optimization/inp"
)

// fileVersion guards the structure file layout
const fileVersion = 1

// structDoc is the serialized form of a Structure: geometry, material,
// boundary conditions and the full active-flag state
type structDoc struct {
	Version int           `json:"version"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Mat     *inp.Material `json:"material"`
	Nodes   []*Node       `json:"nodes"`
	Springs []*Spring     `json:"springs"`
}

// Save writes the structure to a JSON file. A ".zst" extension selects
// zstd compression. Reloading with ReadStructure reproduces identical
// subsequent behavior given the same run configuration.
func (o *Structure) Save(path string) (err error) {
	doc := structDoc{
		Version: fileVersion,
		Width:   o.Width,
		Height:  o.Height,
		Mat:     o.Mat,
		Nodes:   o.Nodes,
		Springs: o.Springs,
	}
	b, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return chk.Err("cannot encode structure:\n%v", err)
	}
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		b = enc.EncodeAll(b, nil)
		enc.Close()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return
		}
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadStructure loads a structure file written by Save. The lattice is
// regenerated first and the saved state overlaid, so node and spring ids
// keep their index-stable meaning.
func ReadStructure(path string) (o *Structure, err error) {

	// read (and decompress)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read structure file:\n%v", err)
	}
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		b, err = dec.DecodeAll(b, nil)
		dec.Close()
		if err != nil {
			return nil, chk.Err("cannot decompress structure file %q:\n%v", path, err)
		}
	}

	// decode
	var doc structDoc
	err = json.Unmarshal(b, &doc)
	if err != nil {
		return nil, chk.Err("cannot parse structure file %q:\n%v", path, err)
	}
	if doc.Version != fileVersion {
		return nil, chk.Err("structure file %q has unknown version %d; want %d", path, doc.Version, fileVersion)
	}
	if doc.Mat == nil {
		return nil, chk.Err("structure file %q has no material", path)
	}
	err = doc.Mat.Validate()
	if err != nil {
		return nil, err
	}

	if doc.Width < 2 || doc.Height < 2 {
		return nil, chk.Err("structure file %q has an invalid %dx%d lattice; need at least 2x2", path, doc.Width, doc.Height)
	}

	// rebuild lattice and overlay state
	o = newLattice(doc.Width, doc.Height, doc.Mat)
	if len(doc.Nodes) != len(o.Nodes) || len(doc.Springs) != len(o.Springs) {
		return nil, chk.Err("structure file %q is inconsistent: %d nodes and %d springs do not match a %dx%d lattice",
			path, len(doc.Nodes), len(doc.Springs), doc.Width, doc.Height)
	}
	for _, n := range doc.Nodes {
		if n.Id < 0 || n.Id >= len(o.Nodes) {
			return nil, chk.Err("structure file %q has node with invalid id %d", path, n.Id)
		}
		*o.Nodes[n.Id] = *n
	}
	for _, s := range doc.Springs {
		if s.Id < 0 || s.Id >= len(o.Springs) {
			return nil, chk.Err("structure file %q has spring with invalid id %d", path, s.Id)
		}
		*o.Springs[s.Id] = *s
	}
	return
}
