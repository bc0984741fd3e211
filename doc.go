// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinselect decides which unspent transaction outputs to spend in
// order to fund a set of target outputs at a required fee rate. It offers
// three strategies: a branch and bound search that minimizes excess input
// value, a greedy accumulative selector that respects the caller's input
// order, and a sweep selector that drains a whole UTXO set into a single
// recipient.
//
// The package is purely computational. It never builds, signs, or broadcasts
// transactions; callers map the selected outputs back to their own references
// through the indices carried in the Result. All entry points are reentrant
// and safe for concurrent use.
//
// Validation failures are reported as errors. A request that is valid but
// cannot be satisfied by any subset of the supplied UTXOs is not an error:
// the selectors return fn.None to signal infeasibility.
package coinselect
