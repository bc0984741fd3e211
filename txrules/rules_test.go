package txrules

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func p2pkhScript() []byte {
	script := make([]byte, 25)
	script[0] = txscript.OP_DUP
	script[1] = txscript.OP_HASH160
	script[2] = txscript.OP_DATA_20
	script[23] = txscript.OP_EQUALVERIFY
	script[24] = txscript.OP_CHECKSIG

	return script
}

func p2wpkhScript() []byte {
	script := make([]byte, 22)
	script[0] = txscript.OP_0
	script[1] = txscript.OP_DATA_20

	return script
}

// TestGetDustThreshold checks the dust thresholds of the common script
// shapes at the default relay fee. The expected values are the well known
// network policy numbers.
func TestGetDustThreshold(t *testing.T) {
	t.Parallel()

	// P2PKH: 3 * (34 + 41 + 107) = 546.
	require.EqualValues(
		t, 546, GetDustThreshold(p2pkhScript(), DefaultRelayFeePerKb),
	)

	// P2WPKH: 3 * (31 + 41 + 26) = 294.
	require.EqualValues(
		t, 294, GetDustThreshold(p2wpkhScript(), DefaultRelayFeePerKb),
	)

	// The threshold scales linearly with the relay fee.
	require.EqualValues(
		t, 588, GetDustThreshold(p2wpkhScript(), 2*DefaultRelayFeePerKb),
	)
}

// TestIsDustAmount checks that the classification agrees with the threshold
// exactly at the boundary.
func TestIsDustAmount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		amount   int64
		pkScript []byte
		dust     bool
	}{
		{
			name:     "p2wpkh below threshold",
			amount:   293,
			pkScript: p2wpkhScript(),
			dust:     true,
		},
		{
			name:     "p2wpkh at threshold",
			amount:   294,
			pkScript: p2wpkhScript(),
		},
		{
			name:     "p2pkh below threshold",
			amount:   545,
			pkScript: p2pkhScript(),
			dust:     true,
		},
		{
			name:     "p2pkh at threshold",
			amount:   546,
			pkScript: p2pkhScript(),
		},
		{
			name:     "tiny value",
			amount:   1,
			pkScript: p2wpkhScript(),
			dust:     true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dust := IsDustAmount(
				btcutil.Amount(tc.amount), tc.pkScript,
				DefaultRelayFeePerKb,
			)
			require.Equal(t, tc.dust, dust)
		})
	}
}

// TestIsDustOutput checks that data carrier outputs are exempt from the dust
// check.
func TestIsDustOutput(t *testing.T) {
	t.Parallel()

	nullData := []byte{txscript.OP_RETURN}
	require.False(t, IsDustOutput(
		&wire.TxOut{Value: 0, PkScript: nullData},
		DefaultRelayFeePerKb,
	))

	require.True(t, IsDustOutput(
		&wire.TxOut{Value: 100, PkScript: p2wpkhScript()},
		DefaultRelayFeePerKb,
	))
}
