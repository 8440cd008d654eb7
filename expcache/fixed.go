// Package expcache contains precomputed tables that speed up repeated modular
// exponentiations of fixed bases.
//
// A FixedBaseTable serves base^e mod m for one base using the comb method: row r,
// entry w holds base^(w * 2^(r*k)), so that base^e is the product over the rows of
// the entry indexed by the r-th k-bit window of e. A MultiBaseTable does the same
// for the product of 2 to 4 bases, packing one window of each exponent into a
// single index. Both are built once and are safe for concurrent reads afterwards.
//
// The caches fall back to direct exponentiation whenever a table cannot serve a
// query: unknown base names, a modulus other than the one the table was built for,
// negative exponents, or exponents longer than the table's bit bound.
package expcache

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
)

// FixedBaseTable is a comb-method table for one base and modulus.
type FixedBaseTable struct {
	base    *big.Int
	modulus *big.Int
	bits    uint
	k       uint
	rows    [][]*big.Int
}

// NewFixedBaseTable precomputes ceil(bits/k)+1 rows of 2^k entries for base modulo modulus.
func NewFixedBaseTable(base, modulus *big.Int, bits, k uint) (*FixedBaseTable, error) {
	if k == 0 || k > 16 {
		return nil, errors.Errorf("invalid window size %d", k)
	}
	if modulus.Sign() <= 0 {
		return nil, errors.New("modulus must be positive")
	}
	t := &FixedBaseTable{
		base:    new(big.Int).Set(base),
		modulus: new(big.Int).Set(modulus),
		bits:    bits,
		k:       k,
		rows:    make([][]*big.Int, (bits+k-1)/k+1),
	}

	size := 1 << k
	rowBase := new(big.Int).Mod(base, modulus)
	for r := range t.rows {
		row := make([]*big.Int, size)
		row[0] = big.NewInt(1)
		for w := 1; w < size; w++ {
			row[w] = new(big.Int).Mul(row[w-1], rowBase)
			row[w].Mod(row[w], modulus)
		}
		t.rows[r] = row
		// base^(2^((r+1)k))
		rowBase = new(big.Int).Mul(row[size-1], rowBase)
		rowBase.Mod(rowBase, modulus)
	}
	return t, nil
}

// Matches reports whether the table was built for this base and modulus.
func (t *FixedBaseTable) Matches(base, modulus *big.Int) bool {
	return t.modulus.Cmp(modulus) == 0 && (base == nil || t.base.Cmp(base) == 0)
}

// Bits returns the largest exponent bit length the table was built for.
func (t *FixedBaseTable) Bits() uint {
	return t.bits
}

// Exp computes base^e mod modulus from the table. It returns false if e is negative
// or too long for the table.
func (t *FixedBaseTable) Exp(e *big.Int) (*big.Int, bool) {
	if e.Sign() < 0 || e.BitLen() > len(t.rows)*int(t.k) {
		return nil, false
	}
	result := big.NewInt(1)
	for r := 0; r*int(t.k) < e.BitLen(); r++ {
		if w := window(e, r, t.k); w != 0 {
			result.Mul(result, t.rows[r][w])
			result.Mod(result, t.modulus)
		}
	}
	return result, true
}

// window returns the r-th k-bit window of e.
func window(e *big.Int, r int, k uint) int {
	w := 0
	start := r * int(k)
	for j := int(k) - 1; j >= 0; j-- {
		w = w<<1 | int(e.Bit(start+j))
	}
	return w
}

// FixedBaseCache holds one FixedBaseTable per base name.
type FixedBaseCache struct {
	bits uint
	k    uint

	mu     sync.RWMutex
	tables map[string]*FixedBaseTable
}

// NewFixedBaseCache returns an empty cache whose tables serve exponents of up to bits bits
// with windows of k bits.
func NewFixedBaseCache(bits, k uint) *FixedBaseCache {
	return &FixedBaseCache{
		bits:   bits,
		k:      k,
		tables: map[string]*FixedBaseTable{},
	}
}

// Store builds the table for name. It is a no-op when a table for name already exists.
func (c *FixedBaseCache) Store(name string, base, modulus *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; ok {
		return nil
	}
	t, err := NewFixedBaseTable(base, modulus, c.bits, c.k)
	if err != nil {
		return err
	}
	c.tables[name] = t
	return nil
}

// Has reports whether a table for name exists.
func (c *FixedBaseCache) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[name]
	return ok
}

// Table returns the table stored for name.
func (c *FixedBaseCache) Table(name string) (*FixedBaseTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	return t, ok
}

// ModPow computes base^e mod modulus, from the table stored for name when it can.
func (c *FixedBaseCache) ModPow(name string, base, e, modulus *big.Int) (*big.Int, error) {
	t, ok := c.Table(name)
	switch {
	case !ok:
	case !t.Matches(base, modulus):
		Logger.Debugf("fixed-base table %s built for another base or modulus, falling back", name)
	default:
		if r, ok := t.Exp(e); ok {
			return r, nil
		}
	}
	return common.ModPow(base, e, modulus)
}
