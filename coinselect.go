// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/btcsuite/coinselect/txrules"
	"github.com/btcsuite/coinselect/txsizes"
)

// MaxOutputValue is the largest output value accepted by the validators.
// Values above this bound are rejected as nonsensical before any selection
// runs, guarding the integer arithmetic against overflow.
const MaxOutputValue btcutil.Amount = 1e14

var (
	// MinFeeRate is the lowest fee rate a selection may request. Anything
	// below one satoshi per vbyte is not relayable by default policies.
	MinFeeRate = btcunit.NewSatPerVByte(1)

	// DefaultMaxFeeRate is the default maximum fee rate the selectors
	// consider sane. This is currently set to 1000 sat/vb, matching the
	// wallet default, and prevents callers from accidentally paying
	// exorbitant fees through a misplaced decimal point.
	DefaultMaxFeeRate = btcunit.NewSatPerVByte(1000)
)

// SelectionIntent bundles the parameters of a selection request into a
// single, coherent structure. The zero values of the optional fields fall
// back to package defaults.
type SelectionIntent struct {
	// UTXOs is the set of spendable outputs available for selection. The
	// slice is never reordered or mutated; selected outputs are reported
	// together with their positions in this slice. This field is
	// required.
	UTXOs []*wire.TxOut

	// Targets specifies the recipients and amounts the selection must
	// fund. This field is required.
	Targets []*wire.TxOut

	// ChangeScript is the output script of the change output the
	// selectors may append when the leftover value is economical. This
	// field is required.
	ChangeScript []byte

	// FeeRate is the fee rate the funded transaction must meet or
	// exceed. This field is required.
	FeeRate btcunit.SatPerVByte

	// RelayFeePerKb is the relay fee rate used for dust decisions. If
	// zero, txrules.DefaultRelayFeePerKb is used.
	RelayFeePerKb btcutil.Amount

	// MaxTries bounds the number of branch and bound search steps. If
	// zero, DefaultMaxTries is used. The accumulative selector ignores
	// this field.
	MaxTries int
}

// relayFee returns the relay fee rate in effect for this intent.
func (i *SelectionIntent) relayFee() btcutil.Amount {
	if i.RelayFeePerKb == 0 {
		return txrules.DefaultRelayFeePerKb
	}

	return i.RelayFeePerKb
}

// maxTries returns the search budget in effect for this intent.
func (i *SelectionIntent) maxTries() int {
	if i.MaxTries == 0 {
		return DefaultMaxTries
	}

	return i.MaxTries
}

// validate performs the shared sanity checks on the intent before any
// selection logic runs.
func (i *SelectionIntent) validate() error {
	err := ValidateOutputValues(i.UTXOs)
	if err != nil {
		return err
	}

	err = ValidateOutputValues(i.Targets)
	if err != nil {
		return err
	}

	if len(i.ChangeScript) == 0 {
		return ErrMissingChangeScript
	}

	err = ValidateFeeRate(i.FeeRate)
	if err != nil {
		return err
	}

	return ValidateDust(i.Targets, i.relayFee())
}

// SweepIntent bundles the parameters of a sweep request, which spends an
// entire UTXO set into a single recipient output.
type SweepIntent struct {
	// UTXOs is the set of outputs to sweep. Outputs whose value does not
	// cover their own fee cost are pruned. This field is required.
	UTXOs []*wire.TxOut

	// RecipientScript is the output script receiving the swept funds.
	// This field is required.
	RecipientScript []byte

	// FeeRate is the fee rate the sweep transaction must meet or exceed.
	// This field is required.
	FeeRate btcunit.SatPerVByte

	// RelayFeePerKb is the relay fee rate used for dust decisions. If
	// zero, txrules.DefaultRelayFeePerKb is used.
	RelayFeePerKb btcutil.Amount
}

// relayFee returns the relay fee rate in effect for this intent.
func (i *SweepIntent) relayFee() btcutil.Amount {
	if i.RelayFeePerKb == 0 {
		return txrules.DefaultRelayFeePerKb
	}

	return i.RelayFeePerKb
}

// Result describes a successful selection.
type Result struct {
	// Inputs holds the selected UTXOs in their original relative order.
	Inputs []*wire.TxOut

	// InputIndices holds the position of each selected UTXO in the
	// caller's original slice, aligned with Inputs. This is the stable
	// identity callers use to map a selection back to their own
	// references.
	InputIndices []int

	// Outputs holds the final target outputs. When a change output was
	// added it is appended after the caller's targets.
	Outputs []*wire.TxOut

	// ChangeIndex is the index of the change output within Outputs, or
	// -1 if no change output was added.
	ChangeIndex int

	// Fee is the transaction fee implied by the selection. It always
	// equals the selected input total minus the output total.
	Fee btcutil.Amount

	// VSize is the estimated worst case virtual size of the funded
	// transaction.
	VSize btcunit.VByte
}

// EffectiveValue returns the value the given UTXO contributes toward a
// selection at the given fee rate: its nominal value minus the worst case
// fee cost of its own input. A non-positive effective value means spending
// the output costs more than it provides.
func EffectiveValue(utxo *wire.TxOut,
	feeRate btcunit.SatPerVByte) (btcutil.Amount, error) {

	inputVSize, err := txsizes.InputVirtualSize(utxo.PkScript)
	if err != nil {
		return 0, err
	}

	inputFee := feeRate.FeeForVByteRoundUp(inputVSize)

	return btcutil.Amount(utxo.Value) - inputFee, nil
}

// sumOutputValues returns the total value of the given outputs.
func sumOutputValues(outputs []*wire.TxOut) btcutil.Amount {
	var total btcutil.Amount
	for _, output := range outputs {
		total += btcutil.Amount(output.Value)
	}

	return total
}

// outputScripts collects the scripts of the given outputs.
func outputScripts(outputs []*wire.TxOut) [][]byte {
	scripts := make([][]byte, len(outputs))
	for i, output := range outputs {
		scripts[i] = output.PkScript
	}

	return scripts
}

// buildResult assembles the Result for the UTXOs at the given indices,
// appending a change output when the leftover value is economical and
// folding it into the fee otherwise. The final fee and rate are verified
// before the result is returned.
func buildResult(utxos []*wire.TxOut, indices []int, targets []*wire.TxOut,
	changeScript []byte, feeRate btcunit.SatPerVByte,
	relayFeePerKb btcutil.Amount) (*Result, error) {

	selected := make([]*wire.TxOut, len(indices))
	for i, utxoIdx := range indices {
		selected[i] = utxos[utxoIdx]
	}

	selectedTotal := sumOutputValues(selected)
	targetTotal := sumOutputValues(targets)

	inScripts := outputScripts(selected)
	outScripts := append(outputScripts(targets), changeScript)

	vsizeWithChange, err := txsizes.EstimateVirtualSize(
		inScripts, outScripts,
	)
	if err != nil {
		return nil, err
	}

	feeWithChange := feeRate.FeeForVByteRoundUp(vsizeWithChange)
	changeValue := selectedTotal - targetTotal - feeWithChange

	outputs := make([]*wire.TxOut, len(targets), len(targets)+1)
	copy(outputs, targets)

	changeIndex := -1

	switch {
	case changeValue > 0 && !txrules.IsDustAmount(
		changeValue, changeScript, relayFeePerKb,
	):
		outputs = append(outputs, wire.NewTxOut(
			int64(changeValue), changeScript,
		))
		changeIndex = len(outputs) - 1

	case changeValue > 0:
		// The leftover is not worth a change output. Let it go to
		// fees instead.
		log.Debugf("Folding dust change of %v into fee", changeValue)
	}

	fee, vsize, err := ValidatedFeeAndVSize(selected, outputs, feeRate)
	if err != nil {
		return nil, err
	}

	return &Result{
		Inputs:       selected,
		InputIndices: indices,
		Outputs:      outputs,
		ChangeIndex:  changeIndex,
		Fee:          fee,
		VSize:        vsize,
	}, nil
}
