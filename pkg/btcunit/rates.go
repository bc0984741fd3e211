// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcunit provides a set of types for dealing with bitcoin units.
package btcunit

import (
	"errors"
	"math"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	// kilo is a generic multiplier for kilo units.
	kilo = 1000

	// floatStringPrecision is the number of decimal places to use when
	// converting a fee rate to a string. We use 3 decimal places to ensure
	// that low fee rates (e.g., 1 sat/kvb = 0.001 sat/vbyte) are displayed
	// with sufficient precision and not rounded to zero.
	floatStringPrecision = 3
)

var (
	// ZeroSatPerVByte is a fee rate of 0 sat/vb.
	ZeroSatPerVByte = NewSatPerVByte(0)

	// ZeroSatPerKVByte is a fee rate of 0 sat/kvb.
	ZeroSatPerKVByte = NewSatPerKVByte(0)

	// ErrNonFiniteRate is returned when a fee rate is constructed from a
	// float that is NaN or infinite.
	ErrNonFiniteRate = errors.New("fee rate must be finite")
)

// baseFeeRate stores the canonical representation of a fee rate, which is
// satoshis per kilo-weight-unit (sat/kwu). All other fee rate units are
// derived from this.
type baseFeeRate struct {
	// satsPerKWU is the fee rate in satoshis per kilo-weight-unit. This is
	// the canonical representation for all fee rates within this package,
	// chosen for its direct alignment with Bitcoin's weight unit for fee
	// calculations and to minimize rounding errors.
	satsPerKWU *big.Rat
}

// rat returns the canonical rate, treating the zero value as a zero rate so
// uninitialized fee rates are safe to compare and compute with.
func (f baseFeeRate) rat() *big.Rat {
	if f.satsPerKWU == nil {
		return big.NewRat(0, 1)
	}

	return f.satsPerKWU
}

// newBaseFeeRate creates a new baseFeeRate with the given numerator and
// denominator. It handles the zero denominator case by returning a zero fee
// rate.
func newBaseFeeRate(numerator btcutil.Amount, denominator uint64) baseFeeRate {
	if denominator == 0 {
		return baseFeeRate{satsPerKWU: big.NewRat(0, 1)}
	}

	return baseFeeRate{satsPerKWU: big.NewRat(
		int64(numerator),
		safeUint64ToInt64(denominator),
	)}
}

// ToSatPerVByte converts the fee rate to sat/vb.
func (f baseFeeRate) ToSatPerVByte() SatPerVByte {
	return SatPerVByte{f}
}

// ToSatPerKVByte converts the fee rate to sat/kvb.
func (f baseFeeRate) ToSatPerKVByte() SatPerKVByte {
	return SatPerKVByte{f}
}

// FeeForVByte calculates the fee resulting from this fee rate and the given
// size in vbytes (vb). The resulting fee is rounded down (truncated).
func (f baseFeeRate) FeeForVByte(vb VByte) btcutil.Amount {
	num, denom := f.feeRat(vb)

	// Perform integer division to truncate the result (round down).
	quotient := big.NewInt(0)
	quotient.Div(num, denom)

	return btcutil.Amount(quotient.Int64())
}

// FeeForVByteRoundUp calculates the fee resulting from this fee rate and the
// given size in vbytes (vb), rounding up to the nearest satoshi. A fee
// computed this way always meets or exceeds the rate when divided by the
// integer vbyte count again.
func (f baseFeeRate) FeeForVByteRoundUp(vb VByte) btcutil.Amount {
	num, denom := f.feeRat(vb)

	// Apply the ceiling division formula:
	// (numerator + denominator - 1) / denominator.
	result := big.NewInt(0)
	result.Add(num, denom)
	result.Sub(result, big.NewInt(1))
	result.Div(result, denom)

	return btcutil.Amount(result.Int64())
}

// feeRat returns the fee for the given size as an unreduced rational,
// expressed as a numerator and denominator. The size is taken as the rounded
// integer vbyte count so that fee checks against `fee / vsize` ratios are
// exact.
func (f baseFeeRate) feeRat(vb VByte) (*big.Int, *big.Int) {
	// The fee rate is stored as satoshis per kilo-weight-unit (sat/kwu).
	// The integer vbyte count corresponds to 4 wu per vbyte.
	wu := vb.Val() * blockchain.WitnessScaleFactor

	feeRateRational := big.NewRat(0, 1)
	feeRateRational.Mul(
		f.rat(),
		big.NewRat(safeUint64ToInt64(wu), kilo),
	)

	return feeRateRational.Num(), feeRateRational.Denom()
}

// equal returns true if the fee rate is equal to the other fee rate.
func (f baseFeeRate) equal(other baseFeeRate) bool {
	return f.rat().Cmp(other.rat()) == 0
}

// greaterThan returns true if the fee rate is greater than the other fee rate.
func (f baseFeeRate) greaterThan(other baseFeeRate) bool {
	return f.rat().Cmp(other.rat()) > 0
}

// lessThan returns true if the fee rate is less than the other fee rate.
func (f baseFeeRate) lessThan(other baseFeeRate) bool {
	return f.rat().Cmp(other.rat()) < 0
}

// greaterThanOrEqual returns true if the fee rate is greater than or equal to
// the other fee rate.
func (f baseFeeRate) greaterThanOrEqual(other baseFeeRate) bool {
	return f.rat().Cmp(other.rat()) >= 0
}

// lessThanOrEqual returns true if the fee rate is less than or equal to the
// other fee rate.
func (f baseFeeRate) lessThanOrEqual(other baseFeeRate) bool {
	return f.rat().Cmp(other.rat()) <= 0
}

// SatPerVByte represents a fee rate in sat/vbyte. Internally, all fee rates
// are stored and operated on as satoshis per kilo-weight-unit (sat/kwu).
// Conversions to other units and fee calculations are performed using this
// canonical internal representation. The `String()` method is the only one
// that presents the fee rate in its specific sat/vbyte unit.
type SatPerVByte struct {
	baseFeeRate
}

// NewSatPerVByte creates a new fee rate in sat/vb.
func NewSatPerVByte(rate btcutil.Amount) SatPerVByte {
	return CalcSatPerVByte(rate, NewVByte(1))
}

// NewSatPerVByteFromFloat creates a new fee rate in sat/vb from a floating
// point rate. NaN and infinite rates are rejected with ErrNonFiniteRate.
func NewSatPerVByteFromFloat(rate float64) (SatPerVByte, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ZeroSatPerVByte, ErrNonFiniteRate
	}

	rat := new(big.Rat)
	if rat.SetFloat64(rate) == nil {
		return ZeroSatPerVByte, ErrNonFiniteRate
	}

	// Convert sat/vb to the canonical sat/kwu representation:
	// rate * 1000 / 4.
	rat.Mul(rat, big.NewRat(kilo, blockchain.WitnessScaleFactor))

	return SatPerVByte{baseFeeRate{satsPerKWU: rat}}, nil
}

// CalcSatPerVByte calculates the fee rate in sat/vb for a given fee and size.
// The size is taken as the rounded integer vbyte count, matching how fee
// rates of real transactions are quoted.
func CalcSatPerVByte(fee btcutil.Amount, vb VByte) SatPerVByte {
	// To convert the rate to the canonical sat/kwu unit, we use the
	// formula: (fee * 1000) / size_in_wu.
	numerator := fee * kilo
	denominator := vb.Val() * blockchain.WitnessScaleFactor

	return SatPerVByte{newBaseFeeRate(numerator, denominator)}
}

// String returns a human-readable string of the fee rate.
func (s SatPerVByte) String() string {
	// Calculate the fee rate in sat/vb from the canonical sat/kwu.
	// The WitnessScaleFactor (4) is used to convert weight units to vbytes.
	// The `kilo` constant is used to scale kilo-weight-units.
	kwToVbRate := big.NewRat(0, 1)
	kwToVbRate.Mul(s.rat(),
		big.NewRat(blockchain.WitnessScaleFactor, kilo),
	)

	// Format the rational number to a string with the specified precision.
	return kwToVbRate.FloatString(floatStringPrecision) + " sat/vb"
}

// Equal returns true if the fee rate is equal to the other fee rate.
func (s SatPerVByte) Equal(other SatPerVByte) bool {
	return s.equal(other.baseFeeRate)
}

// GreaterThan returns true if the fee rate is greater than the other fee rate.
func (s SatPerVByte) GreaterThan(other SatPerVByte) bool {
	return s.greaterThan(other.baseFeeRate)
}

// LessThan returns true if the fee rate is less than the other fee rate.
func (s SatPerVByte) LessThan(other SatPerVByte) bool {
	return s.lessThan(other.baseFeeRate)
}

// GreaterThanOrEqual returns true if the fee rate is greater than or equal to
// the other fee rate.
func (s SatPerVByte) GreaterThanOrEqual(other SatPerVByte) bool {
	return s.greaterThanOrEqual(other.baseFeeRate)
}

// LessThanOrEqual returns true if the fee rate is less than or equal to the
// other fee rate.
func (s SatPerVByte) LessThanOrEqual(other SatPerVByte) bool {
	return s.lessThanOrEqual(other.baseFeeRate)
}

// SatPerKVByte represents a fee rate in sat/kvb. Internally, all fee rates
// are stored and operated on as satoshis per kilo-weight-unit (sat/kwu).
// Conversions to other units and fee calculations are performed using this
// canonical internal representation. The `String()` method is the only one
// that presents the fee rate in its specific sat/kvb unit.
type SatPerKVByte struct {
	baseFeeRate
}

// NewSatPerKVByte creates a new fee rate in sat/kvb.
func NewSatPerKVByte(rate btcutil.Amount) SatPerKVByte {
	// To convert the rate to the canonical sat/kwu unit, we use the
	// formula: rate / 4, since one kvb is 4 kwu.
	return SatPerKVByte{newBaseFeeRate(
		rate, blockchain.WitnessScaleFactor,
	)}
}

// String returns a human-readable string of the fee rate.
func (s SatPerKVByte) String() string {
	// Calculate the fee rate in sat/kvb from the canonical sat/kwu.
	// The WitnessScaleFactor (4) is used to convert weight units to vbytes.
	// No `kilo` division here as we are converting to *kilo*-vbytes.
	kwToKvbRate := big.NewRat(0, 1)
	kwToKvbRate.Mul(s.rat(),
		big.NewRat(blockchain.WitnessScaleFactor, 1),
	)

	// Format the rational number to a string with the specified precision.
	return kwToKvbRate.FloatString(floatStringPrecision) +
		" sat/kvb"
}

// Equal returns true if the fee rate is equal to the other fee rate.
func (s SatPerKVByte) Equal(other SatPerKVByte) bool {
	return s.equal(other.baseFeeRate)
}

// GreaterThan returns true if the fee rate is greater than the other fee rate.
func (s SatPerKVByte) GreaterThan(other SatPerKVByte) bool {
	return s.greaterThan(other.baseFeeRate)
}

// LessThan returns true if the fee rate is less than the other fee rate.
func (s SatPerKVByte) LessThan(other SatPerKVByte) bool {
	return s.lessThan(other.baseFeeRate)
}

// safeUint64ToInt64 converts a uint64 to an int64, capping at math.MaxInt64.
// In practice the values being converted are transaction weights or sizes,
// which are limited by consensus rules and are not expected to overflow an
// int64.
func safeUint64ToInt64(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(u)
}
