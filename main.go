// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/florian-her/topology-optimization/fem"
	"github.com/florian-her/topology-optimization/inp"
	"github.com/florian-her/topology-optimization/opt"
	"github.com/florian-her/topology-optimization/out"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.Pfred("\nERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, fnkey := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.Pf("\nTruss Topology Optimization\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// read simulation deck
	sim, err := inp.ReadSim(fnamepath)
	if err != nil {
		chk.Panic("cannot read simulation input data:\n%v", err)
	}

	// build structure
	st := fem.NewStructure(sim)
	if verbose {
		io.Pf("> %dx%d lattice: %d nodes, %d springs, material %q\n",
			st.Width, st.Height, len(st.Nodes), len(st.Springs), st.Mat.Name)
	}

	// optimizer
	optim, err := opt.NewOptimizer(st, &sim.Run)
	if err != nil {
		chk.Panic("invalid run configuration:\n%v", err)
	}
	optim.Verbose = verbose

	// history recorder
	if sim.Run.HistoryDB != "" {
		rec, err := out.OpenRecorder(sim.Run.HistoryDB)
		if err != nil {
			chk.Panic("cannot open history database:\n%v", err)
		}
		defer rec.Close()
		optim.Obs = rec
	}

	// run
	res := optim.Run(context.Background())
	if verbose {
		out.PrintSummary(res, st)
	}

	// save optimized structure
	fnout := filepath.Join(sim.Run.DirOut, fnkey+"-optimized.json")
	err = st.Save(fnout)
	if err != nil {
		chk.Panic("cannot save optimized structure:\n%v", err)
	}
	if verbose {
		io.Pf("> optimized structure saved to %s\n", fnout)
	}
}
