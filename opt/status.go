// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package opt implements the structural validator and the topology optimizer
package opt

import "github.com/cpmech/gosl/io"

// Status is the outcome of one optimization run
type Status int

const (
	// ReachedTarget means the active mass fraction reached the target
	ReachedTarget Status = iota + 1

	// StoppedOnStressLimit means the run stopped early because a committed
	// state exceeded the configured stress ceiling. This is a successful
	// outcome, not an error.
	StoppedOnStressLimit

	// Aborted means the run stopped before the target; see Reason
	Aborted
)

// String returns a human readable status name
func (o Status) String() string {
	switch o {
	case ReachedTarget:
		return "ReachedTarget"
	case StoppedOnStressLimit:
		return "StoppedOnStressLimit"
	case Aborted:
		return "Aborted"
	}
	return io.Sf("Status(%d)", int(o))
}

// Reason explains an Aborted status
type Reason int

const (
	// NoAbort is the zero reason for non-aborted runs
	NoAbort Reason = iota

	// RollbackExhausted means three consecutive single-node failures
	// happened at the same snapshot. Fatal for the run; the returned
	// structure is the last committed, known-valid snapshot.
	RollbackExhausted

	// Cancelled means the run context was cancelled between iterations
	Cancelled

	// NoRemovableCandidates means no unprotected node admits a valid
	// removal anymore. Under the fast strategy this is the expected benign
	// early stop reporting the best achieved mass fraction.
	NoRemovableCandidates
)

// String returns a human readable reason name
func (o Reason) String() string {
	switch o {
	case NoAbort:
		return "NoAbort"
	case RollbackExhausted:
		return "RollbackExhausted"
	case Cancelled:
		return "Cancelled"
	case NoRemovableCandidates:
		return "NoRemovableCandidates"
	}
	return io.Sf("Reason(%d)", int(o))
}

// Result holds the outcome of one run. The structure handed to the
// optimizer is always left at its last committed, valid snapshot.
type Result struct {
	RunId         string    // unique run identifier
	Status        Status    // run outcome
	Reason        Reason    // abort reason; NoAbort otherwise
	Iterations    int       // number of iterations performed
	Removed       int       // nodes removed in this run
	MassFraction  float64   // final active mass fraction
	MaxStress     float64   // max active-spring stress of the final state [MPa]
	EnergyHistory []float64 // total strain energy after each committed solve
}
