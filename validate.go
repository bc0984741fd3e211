// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/btcsuite/coinselect/txrules"
	"github.com/btcsuite/coinselect/txsizes"
)

// ValidateOutputValues checks that the given group of valued outputs is not
// empty and that every value is a positive integer no larger than
// MaxOutputValue.
func ValidateOutputValues(outputs []*wire.TxOut) error {
	if len(outputs) == 0 {
		return ErrEmptyOutputGroup
	}

	for i, output := range outputs {
		if output.Value <= 0 {
			return fmt.Errorf("%w: output %d has non-positive "+
				"value %d", ErrInvalidValue, i, output.Value)
		}

		if btcutil.Amount(output.Value) > MaxOutputValue {
			return fmt.Errorf("%w: output %d value %d exceeds "+
				"maximum of %d", ErrInvalidValue, i,
				output.Value, MaxOutputValue)
		}
	}

	return nil
}

// ValidateFeeRate checks that the given fee rate lies within the sane
// interval [MinFeeRate, DefaultMaxFeeRate]. Non-finite rates cannot be
// constructed in the first place, see btcunit.NewSatPerVByteFromFloat.
func ValidateFeeRate(rate btcunit.SatPerVByte) error {
	if rate.LessThan(MinFeeRate) {
		return fmt.Errorf("%w: %v is below the minimum of %v",
			ErrInvalidFeeRate, rate, MinFeeRate)
	}

	if rate.GreaterThan(DefaultMaxFeeRate) {
		return fmt.Errorf("%w: %v is above the maximum of %v",
			ErrInvalidFeeRate, rate, DefaultMaxFeeRate)
	}

	return nil
}

// ValidateDust checks every target against the dust policy at the given
// relay fee rate and reports the first offender through a DustTargetError
// carrying its position.
func ValidateDust(targets []*wire.TxOut,
	relayFeePerKb btcutil.Amount) error {

	for i, target := range targets {
		if txrules.IsDustOutput(target, relayFeePerKb) {
			return &DustTargetError{
				Index: i,
				Value: btcutil.Amount(target.Value),
			}
		}
	}

	return nil
}

// ValidatedFeeAndVSize computes the fee implied by spending the given UTXOs
// into the given outputs, estimates the virtual size of that transaction,
// and checks that the realized fee rate meets the requested rate while
// staying within the sane rate bounds. The fee is the exact integer
// difference of the totals; there is no rounding drift.
func ValidatedFeeAndVSize(utxos, outputs []*wire.TxOut,
	feeRate btcunit.SatPerVByte) (btcutil.Amount, btcunit.VByte, error) {

	vsize, err := txsizes.EstimateVirtualSize(
		outputScripts(utxos), outputScripts(outputs),
	)
	if err != nil {
		return 0, btcunit.VByte{}, err
	}

	fee := sumOutputValues(utxos) - sumOutputValues(outputs)
	if fee < 0 {
		return 0, btcunit.VByte{}, fmt.Errorf("%w: outputs exceed "+
			"inputs by %v", ErrInsufficientFee, -fee)
	}

	realized := btcunit.CalcSatPerVByte(fee, vsize)
	if realized.LessThan(feeRate) {
		return 0, btcunit.VByte{}, fmt.Errorf("%w: realized rate %v "+
			"is below requested rate %v", ErrInsufficientFee,
			realized, feeRate)
	}

	err = ValidateFeeRate(realized)
	if err != nil {
		return 0, btcunit.VByte{}, err
	}

	return fee, vsize, nil
}
