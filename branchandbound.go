// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/btcsuite/coinselect/txrules"
	"github.com/btcsuite/coinselect/txsizes"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// DefaultMaxTries is the default bound on the number of branch and bound
// search steps. The search always terminates within this budget, returning
// the best selection found so far when it runs out.
const DefaultMaxTries = 100_000

// candidate is a UTXO that survived the effective value filter, annotated
// with the search bookkeeping derived from it.
type candidate struct {
	// index is the position of the UTXO in the caller's slice.
	index int

	// effValue is the value minus the fee cost of spending the UTXO at
	// the requested rate. Only candidates with a positive effective value
	// are worth spending.
	effValue btcutil.Amount
}

// selection is a subset of candidates reaching the selection target,
// recorded during the search together with the quantities the tie-break
// order is defined over.
type selection struct {
	// indices holds the original UTXO positions, ascending.
	indices []int

	// excess is the effective value accumulated beyond the selection
	// target, the waste the search minimizes.
	excess btcutil.Amount
}

// better reports whether s is preferable to other under the deterministic
// tie-break order: fewer inputs first, then lower excess, then the
// lexicographically smallest sequence of original indices. A nil other is
// always beaten.
func (s *selection) better(other *selection) bool {
	if other == nil {
		return true
	}

	if len(s.indices) != len(other.indices) {
		return len(s.indices) < len(other.indices)
	}

	if s.excess != other.excess {
		return s.excess < other.excess
	}

	for i := range s.indices {
		if s.indices[i] != other.indices[i] {
			return s.indices[i] < other.indices[i]
		}
	}

	return false
}

// SelectCoins chooses a subset of the intent's UTXOs funding its targets at
// the requested fee rate, minimizing the excess input value beyond what the
// transaction strictly requires. The search first looks for a subset whose
// excess is small enough that a change output is not worth creating (the
// excess is absorbed by the fee); if no such subset exists within the search
// budget, the best subset found is used and the leftover is returned through
// a change output, unless that change would be dust.
//
// An infeasible request, one no subset of UTXOs can fund, yields fn.None and
// no error.
func SelectCoins(intent *SelectionIntent) (fn.Option[*Result], error) {
	none := fn.None[*Result]()

	err := intent.validate()
	if err != nil {
		return none, err
	}

	relayFeePerKb := intent.relayFee()

	targetTotal := sumOutputValues(intent.Targets)

	// The input-less shell carries the tx overhead and the targets; its
	// fee is owed by every subset alike.
	shellVSize, err := txsizes.EstimateVirtualSize(
		nil, outputScripts(intent.Targets),
	)
	if err != nil {
		return none, err
	}

	shellFee := intent.FeeRate.FeeForVByteRoundUp(shellVSize)
	selectionTarget := targetTotal + shellFee

	candidates, err := effectiveCandidates(intent)
	if err != nil {
		return none, err
	}

	// Suffix sums of the candidate effective values, used to prune
	// branches that can no longer reach the target.
	remaining := make([]btcutil.Amount, len(candidates)+1)
	for i := len(candidates) - 1; i >= 0; i-- {
		remaining[i] = remaining[i+1] + candidates[i].effValue
	}

	if remaining[0] < selectionTarget {
		log.Debugf("Insufficient funds: %v of effective value "+
			"available, %v needed", remaining[0], selectionTarget)

		return none, nil
	}

	// A subset whose excess stays below the cost of creating and later
	// spending a change output is treated as an exact match: the change
	// is not worth making.
	changeVSize := btcunit.NewVByte(uint64(
		txsizes.OutputSize(intent.ChangeScript),
	))
	window := intent.FeeRate.FeeForVByteRoundUp(changeVSize) +
		txrules.GetDustThreshold(intent.ChangeScript, relayFeePerKb)

	exact, fallback := searchSubsets(
		candidates, selectionTarget, window, remaining,
		intent.maxTries(),
	)

	best := exact
	if best == nil {
		best = fallback
	}
	if best == nil {
		log.Debugf("No viable subset found within %d tries",
			intent.maxTries())

		return none, nil
	}

	log.Tracef("Branch and bound selected subset: %v",
		spew.Sdump(best.indices))

	result, err := buildResult(
		intent.UTXOs, best.indices, intent.Targets,
		intent.ChangeScript, intent.FeeRate, relayFeePerKb,
	)
	if err != nil {
		return none, err
	}

	return fn.Some(result), nil
}

// effectiveCandidates filters the intent's UTXOs down to the ones whose
// value exceeds their own fee cost at the requested rate and orders them by
// effective value, descending. The sort is stable so equal candidates keep
// their original relative order.
func effectiveCandidates(intent *SelectionIntent) ([]candidate, error) {
	candidates := make([]candidate, 0, len(intent.UTXOs))

	for i, utxo := range intent.UTXOs {
		effValue, err := EffectiveValue(utxo, intent.FeeRate)
		if err != nil {
			return nil, err
		}

		if effValue <= 0 {
			log.Debugf("Skipping UTXO %d: value %d does not "+
				"cover its own input fee", i, utxo.Value)

			continue
		}

		candidates = append(candidates, candidate{
			index:    i,
			effValue: effValue,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].effValue > candidates[j].effValue
	})

	return candidates, nil
}

// searchSubsets runs the bounded depth-first search over candidate subsets.
// It returns the best subset whose excess over the target fits within the
// exact-match window, and the best subset reaching the target at all, either
// of which may be nil. The search walks an explicit inclusion vector rather
// than recursing, and stops after maxTries steps.
func searchSubsets(candidates []candidate, selectionTarget,
	window btcutil.Amount, remaining []btcutil.Amount,
	maxTries int) (*selection, *selection) {

	var (
		exact    *selection
		fallback *selection

		currValue btcutil.Amount

		// included is the inclusion vector of the current branch:
		// included[i] reports whether candidates[i] is part of the
		// running subset. Its length is the current search depth.
		included = make([]bool, 0, len(candidates))
	)

	record := func() {
		recorded := &selection{
			indices: includedIndices(candidates, included),
			excess:  currValue - selectionTarget,
		}

		if recorded.excess <= window && recorded.better(exact) {
			exact = recorded
		}

		if recorded.better(fallback) {
			fallback = recorded
		}
	}

	for tries := 0; tries < maxTries; tries++ {
		backtrack := false

		switch {
		// The rest of the candidates cannot lift this branch to the
		// target anymore.
		case currValue+remaining[len(included)] < selectionTarget:
			backtrack = true

		// Reached the target. Adding more candidates only grows the
		// excess, so record the subset and backtrack.
		case currValue >= selectionTarget:
			record()
			backtrack = true

		case len(included) == len(candidates):
			backtrack = true

		// Extend the branch by including the next candidate.
		default:
			included = append(included, true)
			currValue += candidates[len(included)-1].effValue
		}

		if !backtrack {
			continue
		}

		// Unwind trailing omissions, then turn the most recent
		// inclusion into an omission.
		for len(included) > 0 && !included[len(included)-1] {
			included = included[:len(included)-1]
		}

		// Every branch has been explored.
		if len(included) == 0 {
			return exact, fallback
		}

		included[len(included)-1] = false
		currValue -= candidates[len(included)-1].effValue
	}

	log.Debugf("Search budget of %d tries exhausted", maxTries)

	return exact, fallback
}

// includedIndices maps an inclusion vector back to the original UTXO
// indices, sorted ascending so the eventual selection preserves the caller's
// order.
func includedIndices(candidates []candidate, included []bool) []int {
	indices := make([]int, 0, len(included))
	for i, ok := range included {
		if ok {
			indices = append(indices, candidates[i].index)
		}
	}

	sort.Ints(indices)

	return indices
}
