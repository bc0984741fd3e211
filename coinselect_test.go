// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// p2wpkhScript returns a pay-to-witness-pubkey-hash script with a zeroed
// key hash. The selectors only inspect script shape, never the payload.
func p2wpkhScript() []byte {
	script := make([]byte, 22)
	script[0] = txscript.OP_0
	script[1] = txscript.OP_DATA_20

	return script
}

// p2pkhScript returns a pay-to-pubkey-hash script with a zeroed key hash.
func p2pkhScript() []byte {
	script := make([]byte, 25)
	script[0] = txscript.OP_DUP
	script[1] = txscript.OP_HASH160
	script[2] = txscript.OP_DATA_20
	script[23] = txscript.OP_EQUALVERIFY
	script[24] = txscript.OP_CHECKSIG

	return script
}

// p2trScript returns a pay-to-taproot script with a zeroed output key.
func p2trScript() []byte {
	script := make([]byte, 34)
	script[0] = txscript.OP_1
	script[1] = txscript.OP_DATA_32

	return script
}

// p2wpkhOutputs builds one P2WPKH output per given value.
func p2wpkhOutputs(values ...int64) []*wire.TxOut {
	outputs := make([]*wire.TxOut, len(values))
	for i, value := range values {
		outputs[i] = wire.NewTxOut(value, p2wpkhScript())
	}

	return outputs
}
