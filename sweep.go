// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/coinselect/txrules"
	"github.com/btcsuite/coinselect/txsizes"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// SweepCoins drains the intent's UTXOs into a single recipient output,
// sending everything that remains after fees. UTXOs that cost more to spend
// than they contribute are pruned first: each one is measured by the
// marginal fee its input adds to the full sweep, and dropped when its value
// does not exceed that fee. Sweeping such outputs would shrink the amount
// delivered.
//
// When every UTXO survives pruning the result aliases the caller's slice.
// The sweep is infeasible, yielding fn.None and no error, when the swept
// amount would be zero, negative, or dust on the recipient script.
func SweepCoins(intent *SweepIntent) (fn.Option[*Result], error) {
	none := fn.None[*Result]()

	err := ValidateOutputValues(intent.UTXOs)
	if err != nil {
		return none, err
	}

	if len(intent.RecipientScript) == 0 {
		return none, ErrMissingRecipientScript
	}

	err = ValidateFeeRate(intent.FeeRate)
	if err != nil {
		return none, err
	}

	relayFeePerKb := intent.relayFee()
	recipientScripts := [][]byte{intent.RecipientScript}

	allScripts := outputScripts(intent.UTXOs)

	fullVSize, err := txsizes.EstimateVirtualSize(
		allScripts, recipientScripts,
	)
	if err != nil {
		return none, err
	}

	fullFee := intent.FeeRate.FeeForVByteRoundUp(fullVSize)

	// Prune UTXOs whose value does not exceed the marginal fee their
	// input adds to the sweep.
	var (
		retained      []*wire.TxOut
		indices       []int
		retainedTotal btcutil.Amount
	)

	for i, utxo := range intent.UTXOs {
		withoutVSize, err := txsizes.EstimateVirtualSize(
			append(allScripts[:i:i], allScripts[i+1:]...),
			recipientScripts,
		)
		if err != nil {
			return none, err
		}

		marginalFee := fullFee -
			intent.FeeRate.FeeForVByteRoundUp(withoutVSize)

		if btcutil.Amount(utxo.Value) <= marginalFee {
			log.Debugf("Pruning UTXO %d from sweep: value %d "+
				"does not exceed its marginal fee of %v", i,
				utxo.Value, marginalFee)

			continue
		}

		retained = append(retained, utxo)
		indices = append(indices, i)
		retainedTotal += btcutil.Amount(utxo.Value)
	}

	if len(retained) == 0 {
		log.Debugf("Sweep of %d UTXOs left nothing to spend",
			len(intent.UTXOs))

		return none, nil
	}

	// Keep the caller's slice when nothing was pruned.
	if len(retained) == len(intent.UTXOs) {
		retained = intent.UTXOs
	}

	sweepVSize, err := txsizes.EstimateVirtualSize(
		outputScripts(retained), recipientScripts,
	)
	if err != nil {
		return none, err
	}

	sweepFee := intent.FeeRate.FeeForVByteRoundUp(sweepVSize)
	amount := retainedTotal - sweepFee

	if amount <= 0 {
		log.Debugf("Sweep amount %v after fee %v is not positive",
			amount, sweepFee)

		return none, nil
	}

	if txrules.IsDustAmount(
		amount, intent.RecipientScript, relayFeePerKb,
	) {
		log.Debugf("Sweep amount %v is dust on the recipient script",
			amount)

		return none, nil
	}

	outputs := []*wire.TxOut{
		wire.NewTxOut(int64(amount), intent.RecipientScript),
	}

	fee, vsize, err := ValidatedFeeAndVSize(retained, outputs, intent.FeeRate)
	if err != nil {
		return none, err
	}

	return fn.Some(&Result{
		Inputs:       retained,
		InputIndices: indices,
		Outputs:      outputs,
		ChangeIndex:  -1,
		Fee:          fee,
		VSize:        vsize,
	}), nil
}
