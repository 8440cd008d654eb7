package common

import (
	"crypto/sha256"
	"encoding/asn1"

	"github.com/privacybydesign/zkscript/big"

	gobig "math/big"
)

// HashCommit computes the sha256 hash over the asn1 representation of a slice
// of big integers and returns a positive big integer that can be represented
// with that hash. Nil entries are encoded as zero.
func HashCommit(values []*big.Int) *big.Int {
	// The first element is the number of elements
	tmp := make([]interface{}, len(values)+1)
	tmp[0] = gobig.NewInt(int64(len(values)))
	for i, v := range values {
		if v == nil {
			tmp[i+1] = gobig.NewInt(0)
			continue
		}
		tmp[i+1] = v.Go()
	}
	r, err := asn1.Marshal(tmp)
	if err != nil {
		panic(err) // Marshal should never error, so panic if it does
	}

	sha := sha256.Sum256(r)
	return new(big.Int).SetBytes(sha[:])
}

// HashNumber stretches HashCommit over a counter until at least bitlen bits are
// available, then truncates the result to exactly bitlen bits.
func HashNumber(values []*big.Int, bitlen uint) *big.Int {
	tmp := make([]*big.Int, len(values)+1)
	copy(tmp, values)
	counter := big.NewInt(0)
	tmp[len(values)] = counter

	res := big.NewInt(0)
	for k := uint(0); k < bitlen; k += 256 {
		cur := HashCommit(tmp)
		cur.Lsh(cur, k)
		res.Add(res, cur)
		counter.Add(counter, bigONE)
	}

	mask := new(big.Int).Lsh(bigONE, bitlen)
	mask.Sub(mask, bigONE)
	return res.And(res, mask)
}
