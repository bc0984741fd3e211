// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txrules provides the relay policy rules that transaction authors
// must follow for wide mempool acceptance. The dust decisions defer to the
// btcd mempool policy so the classification here can never disagree with the
// network the transaction is relayed to.
package txrules

import (
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/mempool"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// DefaultRelayFeePerKb is the default minimum relay fee policy for a mempool,
// in satoshis per kilo-vbyte.
const DefaultRelayFeePerKb btcutil.Amount = 1e3

const (
	// dustSpendSize is the size credited to a future transaction input
	// redeeming an output when computing its dust threshold: a worst case
	// signature script for a compressed P2PKH spend (107) plus the
	// outpoint, script varint, and sequence (41). Witness spends discount
	// the signature data by the witness scale factor. These constants
	// mirror the relay policy in the btcd mempool.
	dustSpendSize = 107

	dustInputOverhead = 41

	// dustRelayMultiplier scales the relay cost of creating plus spending
	// an output into the minimum economical output value.
	dustRelayMultiplier = 3
)

// GetDustThreshold returns the minimum value an output carrying the given
// script must hold to not be considered dust at the given relay fee rate.
// Outputs at or above the threshold are never classified dust by
// IsDustAmount at the same rate.
func GetDustThreshold(pkScript []byte,
	relayFeePerKb btcutil.Amount) btcutil.Amount {

	spendSize := dustSpendSize
	if txscript.IsWitnessProgram(pkScript) {
		spendSize = dustSpendSize / blockchain.WitnessScaleFactor
	}

	totalSize := 8 + wire.VarIntSerializeSize(uint64(len(pkScript))) +
		len(pkScript) + dustInputOverhead + spendSize

	return dustRelayMultiplier * btcutil.Amount(totalSize) *
		relayFeePerKb / 1000
}

// IsDustAmount determines whether an output of the given value and script
// shape is uneconomical to spend later at the given relay fee rate. The
// decision is delegated to the btcd mempool policy.
func IsDustAmount(amount btcutil.Amount, pkScript []byte,
	relayFeePerKb btcutil.Amount) bool {

	txOut := wire.TxOut{
		Value:    int64(amount),
		PkScript: pkScript,
	}

	return mempool.IsDust(&txOut, relayFeePerKb)
}

// IsDustOutput determines whether a transaction output is considered dust.
// Transactions with dust outputs are not standard and are rejected by
// mempools with default policies.
func IsDustOutput(output *wire.TxOut, relayFeePerKb btcutil.Amount) bool {
	// Unspendable outputs which solely carry data are not checked for
	// dust.
	if txscript.GetScriptClass(output.PkScript) == txscript.NullDataTy {
		return false
	}

	return mempool.IsDust(output, relayFeePerKb)
}
