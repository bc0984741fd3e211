// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/btcsuite/coinselect/txrules"
	"github.com/btcsuite/coinselect/txsizes"
	"github.com/stretchr/testify/require"
)

// TestValidateOutputValues checks the group and value bounds shared by every
// selector entry point.
func TestValidateOutputValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		outputs []*wire.TxOut
		wantErr error
	}{
		{
			name:    "nil group",
			outputs: nil,
			wantErr: ErrEmptyOutputGroup,
		},
		{
			name:    "empty group",
			outputs: []*wire.TxOut{},
			wantErr: ErrEmptyOutputGroup,
		},
		{
			name:    "zero value",
			outputs: p2wpkhOutputs(100_000, 0),
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative value",
			outputs: p2wpkhOutputs(-1),
			wantErr: ErrInvalidValue,
		},
		{
			name:    "value above maximum",
			outputs: p2wpkhOutputs(int64(MaxOutputValue) + 1),
			wantErr: ErrInvalidValue,
		},
		{
			name:    "value at maximum",
			outputs: p2wpkhOutputs(int64(MaxOutputValue)),
			wantErr: nil,
		},
		{
			name:    "valid group",
			outputs: p2wpkhOutputs(1, 100_000),
			wantErr: nil,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateOutputValues(tc.outputs)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

// TestValidateFeeRate checks the sane fee rate interval.
func TestValidateFeeRate(t *testing.T) {
	t.Parallel()

	halfRate, err := btcunit.NewSatPerVByteFromFloat(0.5)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		rate    btcunit.SatPerVByte
		wantErr error
	}{
		{
			name:    "below minimum",
			rate:    halfRate,
			wantErr: ErrInvalidFeeRate,
		},
		{
			name:    "zero rate",
			rate:    btcunit.ZeroSatPerVByte,
			wantErr: ErrInvalidFeeRate,
		},
		{
			name:    "above maximum",
			rate:    btcunit.NewSatPerVByte(1001),
			wantErr: ErrInvalidFeeRate,
		},
		{
			name: "minimum",
			rate: MinFeeRate,
		},
		{
			name: "maximum",
			rate: DefaultMaxFeeRate,
		},
		{
			name: "typical",
			rate: btcunit.NewSatPerVByte(25),
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateFeeRate(tc.rate)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

// TestValidateDust checks that dust targets are reported with their position
// in the caller's list.
func TestValidateDust(t *testing.T) {
	t.Parallel()

	t.Run("dust target reports its index", func(t *testing.T) {
		t.Parallel()

		targets := p2wpkhOutputs(1)
		err := ValidateDust(targets, txrules.DefaultRelayFeePerKb)
		require.Error(t, err)

		var dustErr *DustTargetError
		require.ErrorAs(t, err, &dustErr)
		require.Equal(t, 0, dustErr.Index)
		require.Equal(t, btcutil.Amount(1), dustErr.Value)
	})

	t.Run("second target dust", func(t *testing.T) {
		t.Parallel()

		targets := p2wpkhOutputs(100_000, 293)
		err := ValidateDust(targets, txrules.DefaultRelayFeePerKb)

		var dustErr *DustTargetError
		require.ErrorAs(t, err, &dustErr)
		require.Equal(t, 1, dustErr.Index)
	})

	t.Run("threshold value is not dust", func(t *testing.T) {
		t.Parallel()

		targets := p2wpkhOutputs(294, 100_000)
		require.NoError(t, ValidateDust(
			targets, txrules.DefaultRelayFeePerKb,
		))
	})
}

// TestValidatedFeeAndVSize checks the final fee and realized rate
// verification applied to every selection result.
func TestValidatedFeeAndVSize(t *testing.T) {
	t.Parallel()

	rate := btcunit.NewSatPerVByte(1)

	t.Run("fee and vsize of a simple spend", func(t *testing.T) {
		t.Parallel()

		utxos := p2wpkhOutputs(100_000)
		outputs := p2wpkhOutputs(99_890)

		fee, vsize, err := ValidatedFeeAndVSize(utxos, outputs, rate)
		require.NoError(t, err)
		require.Equal(t, btcutil.Amount(110), fee)
		require.EqualValues(t, 110, vsize.Val())
	})

	t.Run("outputs exceeding inputs", func(t *testing.T) {
		t.Parallel()

		utxos := p2wpkhOutputs(100_000)
		outputs := p2wpkhOutputs(200_000)

		_, _, err := ValidatedFeeAndVSize(utxos, outputs, rate)
		require.ErrorIs(t, err, ErrInsufficientFee)
	})

	t.Run("fee below requested rate", func(t *testing.T) {
		t.Parallel()

		// A 110 vbyte spend paying a 109 satoshi fee misses the one
		// sat/vb rate.
		utxos := p2wpkhOutputs(100_000)
		outputs := p2wpkhOutputs(99_891)

		_, _, err := ValidatedFeeAndVSize(utxos, outputs, rate)
		require.ErrorIs(t, err, ErrInsufficientFee)
	})

	t.Run("realized rate above sane maximum", func(t *testing.T) {
		t.Parallel()

		// Spending 100m sats into a tiny output realizes a rate far
		// beyond DefaultMaxFeeRate.
		utxos := p2wpkhOutputs(100_000_000)
		outputs := p2wpkhOutputs(1_000)

		_, _, err := ValidatedFeeAndVSize(utxos, outputs, rate)
		require.ErrorIs(t, err, ErrInvalidFeeRate)
	})
}

// TestEffectiveValue checks the per-UTXO contribution arithmetic shared by
// the selectors.
func TestEffectiveValue(t *testing.T) {
	t.Parallel()

	rate := btcunit.NewSatPerVByte(1)

	t.Run("p2wpkh input cost", func(t *testing.T) {
		t.Parallel()

		// A P2WPKH input weighs 69 vbytes.
		effValue, err := EffectiveValue(p2wpkhOutputs(1_000)[0], rate)
		require.NoError(t, err)
		require.Equal(t, btcutil.Amount(931), effValue)
	})

	t.Run("negative for uneconomical output", func(t *testing.T) {
		t.Parallel()

		effValue, err := EffectiveValue(p2wpkhOutputs(50)[0], rate)
		require.NoError(t, err)
		require.Negative(t, effValue)
	})

	t.Run("unsupported script", func(t *testing.T) {
		t.Parallel()

		utxo := wire.NewTxOut(1_000, []byte{0x6a})
		_, err := EffectiveValue(utxo, rate)
		require.ErrorIs(t, err, txsizes.ErrUnsupportedScript)
	})
}
