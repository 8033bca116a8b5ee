package transaction

import (
	"encoding/base64"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/stretchr/testify/require"
)

// A GAS transfer signed by a single account, as found on MainNet.
const benchTxB64 = "AK9KzFu0P5gAAAAAAIjOEgAAAAAA7jAAAAGIDdjSt7aj2J+dktSobkC9j0/CJwEAWwsCAMLrCwwUtXfkIuockX9HAVMNeEuQMxMlYkMMFIgN2NK3tqPYn52S1KhuQL2PT8InFMAfDAh0cmFuc2ZlcgwUz3bii9AGLEpHjuNVYQETGfPPpNJBYn1bUjkBQgxAUiZNae4OTSu2EOGW+6fwslLIpVsczOAR9o6R796tFf2KG+nLzs709tCQ7NELZOQ7zUzfF19ADLvH/efNT4v9LygMIQNT96/wFdPSBO7NUI9Kpn9EffTRXsS6ZJ9PqRvbenijVEFW57Mn"

func benchTx(b *testing.B) *Transaction {
	raw, err := base64.StdEncoding.DecodeString(benchTxB64)
	require.NoError(b, err)
	tx, err := NewTransactionFromBytes(raw)
	require.NoError(b, err)
	return tx
}

func BenchmarkNewTransactionFromBytes(b *testing.B) {
	raw := benchTx(b).Bytes()
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_, err := NewTransactionFromBytes(raw)
		require.NoError(b, err)
	}
}

func BenchmarkTransactionHash(b *testing.B) {
	tx := benchTx(b)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		tx.Invalidate()
		_ = tx.Hash()
	}
}

func BenchmarkTransactionValidate(b *testing.B) {
	tx := benchTx(b)
	b.ResetTimer()
	for range b.N {
		require.NoError(b, tx.Validate())
	}
}

func BenchmarkTransactionSize(b *testing.B) {
	tx := benchTx(b)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = io.GetSize(tx)
	}
}

func BenchmarkTransactionJSON(b *testing.B) {
	tx := benchTx(b)
	data, err := tx.MarshalJSON()
	require.NoError(b, err)
	b.ResetTimer()
	for range b.N {
		require.NoError(b, new(Transaction).UnmarshalJSON(data))
	}
}
