package common

import (
	"testing"

	"github.com/privacybydesign/zkscript/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCommit(t *testing.T) {
	hashA := HashCommit([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	hashB := HashCommit([]*big.Int{big.NewInt(1), nil, big.NewInt(3)})
	hashC := HashCommit([]*big.Int{big.NewInt(1), big.NewInt(2)})
	require.NotNil(t, hashA)
	require.NotNil(t, hashB)
	require.NotNil(t, hashC)

	assert.NotZero(t, hashA.Cmp(hashB), "Hashes for A and B coincide")
	assert.NotZero(t, hashA.Cmp(hashC), "Hashes for A and C coincide")
	assert.NotZero(t, hashB.Cmp(hashC), "Hashes for B and C coincide")

	again := HashCommit([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	assert.Zero(t, hashA.Cmp(again), "HashCommit is not deterministic")
}

func TestHashNumber(t *testing.T) {
	list := []*big.Int{
		HashNumber(nil, 80),
		HashNumber([]*big.Int{big.NewInt(1)}, 80),
		HashNumber([]*big.Int{big.NewInt(2)}, 80),
		HashNumber([]*big.Int{big.NewInt(1), big.NewInt(2)}, 80),
	}
	for i, vi := range list {
		for j, vj := range list {
			if i != j {
				assert.NotZero(t, vi.Cmp(vj), "%v and %v coincide", i, j)
			}
		}
	}

	for _, bits := range []uint{10, 256, 1000} {
		h := HashNumber([]*big.Int{big.NewInt(7)}, bits)
		assert.LessOrEqual(t, h.BitLen(), int(bits))
		// With overwhelming probability the top bits are not all zero
		assert.Greater(t, h.BitLen(), int(bits)-32)
	}
}
