// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

var (
	// ErrEmptyOutputGroup is returned when a group of valued outputs that
	// must not be empty is empty.
	ErrEmptyOutputGroup = errors.New("output group cannot be empty")

	// ErrInvalidValue is returned when an output value is not a positive
	// integer or exceeds MaxOutputValue.
	ErrInvalidValue = errors.New("invalid output value")

	// ErrInvalidFeeRate is returned when a fee rate is below the minimum
	// relayable rate or above the configured maximum.
	ErrInvalidFeeRate = errors.New("invalid fee rate")

	// ErrInsufficientFee is returned when the fee implied by a selection
	// does not meet the requested fee rate.
	ErrInsufficientFee = errors.New("insufficient fee")

	// ErrMissingChangeScript is returned when a selection that may need a
	// change output is requested without a change script.
	ErrMissingChangeScript = errors.New("change script cannot be empty")

	// ErrMissingRecipientScript is returned when a sweep is requested
	// without a recipient script.
	ErrMissingRecipientScript = errors.New(
		"recipient script cannot be empty",
	)
)

// DustTargetError is returned when a target output is classified as dust at
// the relay fee rate in effect. It reports the position of the offending
// target in the caller's list.
type DustTargetError struct {
	// Index is the position of the dust target in the supplied targets.
	Index int

	// Value is the value of the dust target.
	Value btcutil.Amount
}

// Error returns a human-readable string describing the error.
func (e *DustTargetError) Error() string {
	return fmt.Sprintf("target output %d with value %v is dust",
		e.Index, e.Value)
}
