// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/coinselect/txsizes"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// AccumulateCoins selects UTXOs in the caller's order until the accumulated
// value covers the targets plus the fee of the growing transaction. The fee
// is recomputed after every addition since each input enlarges the
// transaction. UTXOs whose value does not cover their own fee cost are
// skipped rather than accumulated, as including them would only push the
// goal further away.
//
// The greedy walk trades optimality for predictability: callers that order
// their UTXOs by preference (age, confirmation count, privacy) get exactly
// that preference honored. An infeasible request yields fn.None and no
// error.
func AccumulateCoins(intent *SelectionIntent) (fn.Option[*Result], error) {
	none := fn.None[*Result]()

	err := intent.validate()
	if err != nil {
		return none, err
	}

	relayFeePerKb := intent.relayFee()

	targetTotal := sumOutputValues(intent.Targets)
	targetScripts := outputScripts(intent.Targets)

	var (
		selectedTotal btcutil.Amount
		indices       []int
		inScripts     [][]byte
	)

	for i, utxo := range intent.UTXOs {
		effValue, err := EffectiveValue(utxo, intent.FeeRate)
		if err != nil {
			return none, err
		}

		if effValue <= 0 {
			log.Debugf("Skipping UTXO %d: value %d does not "+
				"cover its own input fee", i, utxo.Value)

			continue
		}

		indices = append(indices, i)
		inScripts = append(inScripts, utxo.PkScript)
		selectedTotal += btcutil.Amount(utxo.Value)

		vsize, err := txsizes.EstimateVirtualSize(
			inScripts, targetScripts,
		)
		if err != nil {
			return none, err
		}

		fee := intent.FeeRate.FeeForVByteRoundUp(vsize)
		if selectedTotal < targetTotal+fee {
			continue
		}

		result, err := buildResult(
			intent.UTXOs, indices, intent.Targets,
			intent.ChangeScript, intent.FeeRate, relayFeePerKb,
		)
		if err != nil {
			return none, err
		}

		return fn.Some(result), nil
	}

	log.Debugf("Accumulated %v across %d UTXOs, not enough to fund %v "+
		"plus fees", selectedTotal, len(indices), targetTotal)

	return none, nil
}
