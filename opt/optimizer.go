// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"context"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"

	"github.com/florian-her/topology-optimization/fem"
	"github.com/florian-her/topology-optimization/inp"
)

// maxConsecFailures is the number of consecutive single-node failures at
// one snapshot after which the run aborts with RollbackExhausted
const maxConsecFailures = 3

// IterRecord is the read-only view of one iteration handed to observers
type IterRecord struct {
	RunId         string  // run identifier
	Iteration     int     // iteration counter, starting at 0
	ActiveNodes   int     // active nodes of the committed state
	ActiveSprings int     // active springs of the committed state
	MassFraction  float64 // active nodes over total nodes
	TotalEnergy   float64 // total strain energy of the committed state
	MaxStress     float64 // max active-spring stress [MPa]
}

// Observer receives per-iteration records. Observers only read; they never
// drive optimizer state.
type Observer interface {
	OnIteration(rec IterRecord) error
}

// Optimizer drives the iterate-solve-score-select-validate-commit loop.
// A run owns its structure exclusively; concurrent runs need independent
// copies (see fem.Structure.Clone).
type Optimizer struct {

	// input
	St      *fem.Structure // the structure; mutated through active flags only
	Cfg     *inp.RunData   // immutable run configuration
	Obs     Observer       // optional per-iteration observer
	Verbose bool           // print progress messages

	// derived
	total  int // total lattice nodes
	target int // active-node count to reach
}

// NewOptimizer validates configuration and structural prerequisites. Any
// problem here is a configuration error raised before iteration zero.
func NewOptimizer(st *fem.Structure, cfg *inp.RunData) (o *Optimizer, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}
	nsup, nload := 0, 0
	for _, n := range st.Nodes {
		if !n.Active {
			continue
		}
		if n.Fixed() {
			nsup++
		}
		if n.Loaded() {
			nload++
		}
	}
	if nsup == 0 {
		return nil, chk.Err("structure has no active support; optimization cannot start")
	}
	if nload == 0 {
		return nil, chk.Err("structure has no active load; optimization cannot start")
	}
	o = &Optimizer{St: st, Cfg: cfg, total: len(st.Nodes)}
	o.target = int(float64(o.total) * cfg.TargetMass)
	if o.target < 2 {
		o.target = 2
	}
	return
}

// Run performs the optimization. The context is checked between iterations
// only; on cancellation the structure stays at its last committed, valid
// snapshot. Run never returns a structure violating connectivity or
// load-path invariants.
func (o *Optimizer) Run(ctx context.Context) (res *Result) {
	res = &Result{RunId: uuid.New().String()}
	snapshot := o.St.TakeSnapshot()
	consecFail := 0
	forceSingle := false
	recorded := false
	var cached *fem.Solution

	defer func() {
		res.MassFraction = o.St.MassFraction()
		res.Removed = o.total - o.St.ActiveNodes()
		if sol, err := o.St.Solve(); err == nil {
			res.MaxStress = o.St.MaxStress(sol)
			o.St.SetSolution(sol)
		}
	}()

	for o.St.ActiveNodes() > o.target {

		// cancellation, between iterations only
		select {
		case <-ctx.Done():
			res.Status = Aborted
			res.Reason = Cancelled
			return
		default:
		}

		// solve the committed structure
		sol := cached
		cached = nil
		if sol == nil {
			var err error
			sol, err = o.St.Solve()
			if err != nil {
				// singular system: failed iteration
				if o.Verbose {
					io.Pfyel(". iteration %d: %v\n", res.Iterations, err)
				}
				o.St.Restore(snapshot)
				forceSingle = true
				consecFail++
				res.Iterations++
				if consecFail >= maxConsecFailures {
					res.Status = Aborted
					res.Reason = RollbackExhausted
					return
				}
				continue
			}
		}

		// stress ceiling: checked on every committed state, including the
		// pristine structure at iteration zero
		if o.Cfg.StressLimit > 0 {
			if sig := o.St.MaxStress(sol); sig > o.Cfg.StressLimit {
				res.Status = StoppedOnStressLimit
				return
			}
		}

		// observer sees each committed state once; failed attempts come
		// back here with the same state and must not record it again
		if !recorded {
			res.EnergyHistory = append(res.EnergyHistory, o.St.TotalEnergy(sol))
			o.notify(res, sol)
			recorded = true
		}

		// score and rank unprotected active nodes ascending
		ranked := o.rankNodes(sol)
		if len(ranked) == 0 {
			res.Status = Aborted
			res.Reason = NoRemovableCandidates
			return
		}

		// select batch
		nbatch := o.batchSize(forceSingle)
		if room := o.St.ActiveNodes() - o.target; nbatch > room {
			nbatch = room
		}
		batch := o.selectBatch(ranked, nbatch)
		if len(batch) == 0 {
			res.Status = Aborted
			res.Reason = NoRemovableCandidates
			return
		}

		// validate atomically on the hypothetical post-removal graph.
		// once the schedule is down to its minimum the next attempt would
		// repeat the very same selection, so those failures count towards
		// the consecutive-failure limit (a mirror pair still has two
		// members at minimum size)
		single := nbatch == 1
		if !CanRemove(o.St, batch) {
			forceSingle = true
			res.Iterations++
			if single {
				consecFail++
				if consecFail >= maxConsecFailures {
					res.Status = Aborted
					res.Reason = RollbackExhausted
					return
				}
			}
			continue
		}

		// apply
		for _, nid := range batch {
			o.St.RemoveNode(nid)
		}

		// the exact strategy re-solves after every batch; a failure means
		// the removal produced an unsolvable state: roll back and retry
		if o.Cfg.Strategy == "exact" {
			postSol, err := o.St.Solve()
			if err != nil {
				o.St.Restore(snapshot)
				forceSingle = true
				res.Iterations++
				if single {
					consecFail++
					if consecFail >= maxConsecFailures {
						res.Status = Aborted
						res.Reason = RollbackExhausted
						return
					}
				}
				continue
			}
			cached = postSol
		}

		// commit
		snapshot = o.St.TakeSnapshot()
		consecFail = 0
		forceSingle = false
		recorded = false
		res.Iterations++
		if o.Verbose {
			io.Pf(". iteration %d: removed %d node(s); active = %d / %d\n",
				res.Iterations, len(batch), o.St.ActiveNodes(), o.total)
		}

		// stress ceiling immediately after the commit, when the committed
		// solve is already available
		if o.Cfg.StressLimit > 0 && cached != nil {
			if sig := o.St.MaxStress(cached); sig > o.Cfg.StressLimit {
				res.EnergyHistory = append(res.EnergyHistory, o.St.TotalEnergy(cached))
				o.notify(res, cached)
				res.Status = StoppedOnStressLimit
				return
			}
		}
	}

	// target reached; the ceiling still binds on the last committed state,
	// which the fast strategy has not solved yet
	res.Status = ReachedTarget
	if o.Cfg.StressLimit > 0 {
		sol := cached
		if sol == nil {
			var err error
			if sol, err = o.St.Solve(); err != nil {
				return
			}
		}
		if o.St.MaxStress(sol) > o.Cfg.StressLimit {
			res.Status = StoppedOnStressLimit
		}
	}
	return
}

// notify hands an iteration record to the observer, if any
func (o *Optimizer) notify(res *Result, sol *fem.Solution) {
	if o.Obs == nil {
		return
	}
	err := o.Obs.OnIteration(IterRecord{
		RunId:         res.RunId,
		Iteration:     res.Iterations,
		ActiveNodes:   o.St.ActiveNodes(),
		ActiveSprings: o.St.ActiveSprings(),
		MassFraction:  o.St.MassFraction(),
		TotalEnergy:   o.St.TotalEnergy(sol),
		MaxStress:     o.St.MaxStress(sol),
	})
	if err != nil && o.Verbose {
		io.Pfred(". observer error: %v\n", err)
	}
}

// rankNodes returns the unprotected active node ids sorted ascending by
// score, ties broken by id for reproducible runs
func (o *Optimizer) rankNodes(sol *fem.Solution) (ids []int) {
	scores := o.St.NodeScores(sol)
	ids = make([]int, 0, len(scores))
	for nid := range scores {
		ids = append(ids, nid)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if scores[a] != scores[b] {
			return scores[a] < scores[b]
		}
		return a < b
	})
	return
}

// selectBatch takes the lowest-scoring nodes up to nbatch. With symmetry
// enabled the mirror of each selected node joins the same batch; a mirror
// pair is removed atomically together or not at all, so a node whose
// mirror is protected or already inactive is skipped entirely.
func (o *Optimizer) selectBatch(ranked []int, nbatch int) (batch []int) {
	selected := make(map[int]bool)
	for _, nid := range ranked {
		if len(batch) >= nbatch {
			break
		}
		if selected[nid] {
			continue
		}
		if !o.Cfg.Symmetry {
			selected[nid] = true
			batch = append(batch, nid)
			continue
		}
		mid := o.St.MirrorId(nid)
		if mid == nid {
			selected[nid] = true
			batch = append(batch, nid)
			continue
		}
		m := o.St.Nodes[mid]
		if selected[mid] {
			// mirror already picked by its own rank; complete the pair
			selected[nid] = true
			batch = append(batch, nid)
			continue
		}
		if !m.Active || m.Protected() {
			continue // pair cannot be removed atomically
		}
		selected[nid] = true
		selected[mid] = true
		batch = append(batch, nid, mid)
	}
	return
}

// batchSize evaluates the adaptive schedule on the remaining mass
// fraction. The exact strategy shrinks linearly from the ceiling to 1
// between the high and low thresholds; the fast strategy holds the
// ceiling until the low threshold.
func (o *Optimizer) batchSize(forceSingle bool) int {
	if forceSingle {
		return 1
	}
	m := o.St.MassFraction()
	cfg := o.Cfg
	switch {
	case m > cfg.BatchHigh:
		return cfg.BatchCeil
	case m <= cfg.BatchLow:
		return 1
	case cfg.Strategy == "fast":
		return cfg.BatchCeil
	}
	// monotone linear shrink over (low, high]
	frac := (m - cfg.BatchLow) / (cfg.BatchHigh - cfg.BatchLow)
	n := 1 + int(frac*float64(cfg.BatchCeil-1))
	if n < 1 {
		n = 1
	}
	if n > cfg.BatchCeil {
		n = cfg.BatchCeil
	}
	return n
}
