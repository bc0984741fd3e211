// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txsizes estimates the worst case virtual size of unsigned
// transactions from the shapes of the scripts they spend and create. The
// estimates are deterministic upper bounds: maximum length signatures and
// pubkeys are assumed for every input, so a signed transaction never exceeds
// the estimate.
package txsizes

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/coinselect/pkg/btcunit"
)

// ErrUnsupportedScript is returned when an input script shape has no known
// size model.
var ErrUnsupportedScript = errors.New("unsupported script type")

// Worst case script and input/output sizes, in bytes unless stated otherwise.
const (
	// RedeemP2PKHSigScriptSize is the worst case (largest) serialize size
	// of a signature script to redeem a compressed P2PKH output: one data
	// push of a maximum DER signature plus the sighash flag (73 bytes),
	// and one data push of a compressed pubkey (33 bytes).
	RedeemP2PKHSigScriptSize = 1 + 73 + 1 + 33

	// RedeemP2PKHInputSize is the worst case size of a transaction input
	// redeeming a compressed P2PKH output: outpoint (36), script varint
	// (1), signature script, and sequence (4).
	RedeemP2PKHInputSize = 32 + 4 + 1 + RedeemP2PKHSigScriptSize + 4

	// RedeemNestedP2WPKHScriptSize is the worst case size of a signature
	// script redeeming a P2SH nested P2WPKH output: a single data push of
	// the serialized P2WPKH witness program.
	RedeemNestedP2WPKHScriptSize = 1 + 1 + 1 + 20

	// RedeemNestedP2WPKHInputSize is the worst case size of a transaction
	// input redeeming a nested P2WPKH output.
	RedeemNestedP2WPKHInputSize = 32 + 4 + 1 +
		RedeemNestedP2WPKHScriptSize + 4

	// RedeemP2WPKHInputSize is the base size of a transaction input
	// redeeming a native P2WPKH output: outpoint (36), empty signature
	// script varint (1), and sequence (4). The signature data lives in
	// the witness.
	RedeemP2WPKHInputSize = 32 + 4 + 1 + 4

	// RedeemP2WPKHInputWitnessWeight is the worst case weight of the
	// witness redeeming a P2WPKH output: item count (1), DER signature
	// with sighash flag (1+73), and compressed pubkey (1+33).
	RedeemP2WPKHInputWitnessWeight = 1 + 1 + 73 + 1 + 33

	// RedeemP2TRInputWitnessWeight is the worst case weight of the witness
	// redeeming a taproot output through the key spend path: item count
	// (1) and a 64-byte schnorr signature (1+64). The default sighash
	// type is assumed, which does not append a sighash flag byte.
	RedeemP2TRInputWitnessWeight = 1 + 1 + 64

	// P2PKHPkScriptSize is the size of a P2PKH output script: OP_DUP,
	// OP_HASH160, a 20 byte hash push, OP_EQUALVERIFY and OP_CHECKSIG.
	P2PKHPkScriptSize = 1 + 1 + 1 + 20 + 1 + 1

	// P2SHPkScriptSize is the size of a P2SH output script: OP_HASH160, a
	// 20 byte hash push and OP_EQUAL.
	P2SHPkScriptSize = 1 + 1 + 20 + 1

	// P2WPKHPkScriptSize is the size of a native P2WPKH output script:
	// OP_0 and a 20 byte witness program push.
	P2WPKHPkScriptSize = 1 + 1 + 20

	// P2WSHPkScriptSize is the size of a P2WSH output script: OP_0 and a
	// 32 byte witness program push.
	P2WSHPkScriptSize = 1 + 1 + 32

	// P2TRPkScriptSize is the size of a taproot output script: OP_1 and a
	// 32 byte taproot key push.
	P2TRPkScriptSize = 1 + 1 + 32

	// baseTxOverhead is the serialize size of the shape independent parts
	// of a transaction: version (4) and locktime (4). The input and
	// output count varints are accounted for separately.
	baseTxOverhead = 4 + 4

	// witnessOverheadWeight is the weight of the witness marker and flag
	// bytes present when any input carries witness data.
	witnessOverheadWeight = 2
)

// InputSize returns the worst case base serialize size and witness weight of
// a transaction input spending the given output script. An error is returned
// if the script shape has no known size model.
func InputSize(pkScript []byte) (int, int, error) {
	switch {
	case txscript.IsPayToPubKeyHash(pkScript):
		return RedeemP2PKHInputSize, 0, nil

	// Nested P2WPKH is assumed for P2SH outputs, the only P2SH shape the
	// estimator models.
	case txscript.IsPayToScriptHash(pkScript):
		return RedeemNestedP2WPKHInputSize,
			RedeemP2WPKHInputWitnessWeight, nil

	case txscript.IsPayToWitnessPubKeyHash(pkScript):
		return RedeemP2WPKHInputSize,
			RedeemP2WPKHInputWitnessWeight, nil

	case txscript.IsPayToTaproot(pkScript):
		return RedeemP2WPKHInputSize, RedeemP2TRInputWitnessWeight,
			nil

	default:
		return 0, 0, fmt.Errorf("%w: %x", ErrUnsupportedScript,
			pkScript)
	}
}

// OutputSize returns the serialize size of a transaction output carrying the
// given script: value (8), script length varint, and the script itself. Any
// script is accepted since outputs serialize verbatim.
func OutputSize(pkScript []byte) int {
	return 8 + wire.VarIntSerializeSize(uint64(len(pkScript))) +
		len(pkScript)
}

// EstimateVirtualSize returns the worst case virtual size of an unsigned
// transaction spending the given input scripts and creating the given output
// scripts. The weight is computed as four times the base size plus the total
// witness weight (including the marker and flag bytes when any witness is
// present), then converted to vbytes rounding up.
func EstimateVirtualSize(inputs, outputs [][]byte) (btcunit.VByte, error) {
	baseSize := baseTxOverhead +
		wire.VarIntSerializeSize(uint64(len(inputs))) +
		wire.VarIntSerializeSize(uint64(len(outputs)))

	witnessWeight := 0
	for _, pkScript := range inputs {
		inputSize, inputWitness, err := InputSize(pkScript)
		if err != nil {
			return btcunit.VByte{}, err
		}

		baseSize += inputSize
		witnessWeight += inputWitness
	}

	for _, pkScript := range outputs {
		baseSize += OutputSize(pkScript)
	}

	weight := baseSize * blockchain.WitnessScaleFactor
	if witnessWeight > 0 {
		weight += witnessWeight + witnessOverheadWeight
	}

	return btcunit.NewWeightUnit(uint64(weight)).ToVB(), nil
}

// InputVirtualSize returns the worst case virtual size contribution of a
// single input spending the given output script, rounded up to a full vbyte.
func InputVirtualSize(pkScript []byte) (btcunit.VByte, error) {
	inputSize, inputWitness, err := InputSize(pkScript)
	if err != nil {
		return btcunit.VByte{}, err
	}

	weight := inputSize*blockchain.WitnessScaleFactor + inputWitness

	return btcunit.NewWeightUnit(uint64(weight)).ToVB(), nil
}
