package expcache

import (
	"strings"
	"sync"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
)

// MaxMultiBases is the largest number of bases a MultiBaseTable combines.
const MaxMultiBases = 4

// MultiBaseTable is a simultaneous-exponentiation table for 2 to 4 bases.
// Entry idx of row r holds the product of bases[i]^(w_i * 2^(r*k)), where w_i is
// the k-bit field of idx at bit offset i*k.
type MultiBaseTable struct {
	bases   []*big.Int
	modulus *big.Int
	bits    uint
	k       uint
	rows    [][]*big.Int
}

// NewMultiBaseTable precomputes ceil(bits/k)+1 rows of 2^(k*len(bases)) entries.
func NewMultiBaseTable(bases []*big.Int, modulus *big.Int, bits, k uint) (*MultiBaseTable, error) {
	n := len(bases)
	if n < 2 || n > MaxMultiBases {
		return nil, errors.Errorf("multi-base tables combine 2 to %d bases, not %d", MaxMultiBases, n)
	}
	if k == 0 || k*uint(n) > 16 {
		return nil, errors.Errorf("invalid window size %d for %d bases", k, n)
	}
	if modulus.Sign() <= 0 {
		return nil, errors.New("modulus must be positive")
	}

	t := &MultiBaseTable{
		bases:   make([]*big.Int, n),
		modulus: new(big.Int).Set(modulus),
		bits:    bits,
		k:       k,
		rows:    make([][]*big.Int, (bits+k-1)/k+1),
	}
	for i, b := range bases {
		t.bases[i] = new(big.Int).Mod(b, modulus)
	}

	size := 1 << (k * uint(n))
	mask := 1<<k - 1
	row := make([]*big.Int, size)
	row[0] = big.NewInt(1)
	for idx := 1; idx < size; idx++ {
		// decrement the lowest non-zero field and multiply by its base
		i := 0
		for (idx>>(uint(i)*k))&mask == 0 {
			i++
		}
		row[idx] = new(big.Int).Mul(row[idx-1<<(uint(i)*k)], t.bases[i])
		row[idx].Mod(row[idx], modulus)
	}
	t.rows[0] = row

	for r := 1; r < len(t.rows); r++ {
		prev := t.rows[r-1]
		row = make([]*big.Int, size)
		for idx := range row {
			row[idx] = new(big.Int).Set(prev[idx])
			for j := uint(0); j < k; j++ {
				row[idx].Mul(row[idx], row[idx])
				row[idx].Mod(row[idx], modulus)
			}
		}
		t.rows[r] = row
	}
	return t, nil
}

// Matches reports whether the table was built for these bases and modulus.
func (t *MultiBaseTable) Matches(bases []*big.Int, modulus *big.Int) bool {
	if t.modulus.Cmp(modulus) != 0 || len(bases) != len(t.bases) {
		return false
	}
	for i, b := range bases {
		if new(big.Int).Mod(b, modulus).Cmp(t.bases[i]) != 0 {
			return false
		}
	}
	return true
}

// Exp computes the product of the table's bases raised to exps. It returns false if
// the number of exponents is wrong, or any exponent is negative or too long.
func (t *MultiBaseTable) Exp(exps []*big.Int) (*big.Int, bool) {
	if len(exps) != len(t.bases) {
		return nil, false
	}
	maxlen := 0
	for _, e := range exps {
		if e.Sign() < 0 || e.BitLen() > len(t.rows)*int(t.k) {
			return nil, false
		}
		if e.BitLen() > maxlen {
			maxlen = e.BitLen()
		}
	}

	result := big.NewInt(1)
	for r := 0; r*int(t.k) < maxlen; r++ {
		idx := 0
		for i, e := range exps {
			idx |= window(e, r, t.k) << (uint(i) * t.k)
		}
		if idx != 0 {
			result.Mul(result, t.rows[r][idx])
			result.Mod(result, t.modulus)
		}
	}
	return result, true
}

type multiKey struct {
	n     int
	names [MaxMultiBases]string
}

func newMultiKey(names []string) (multiKey, bool) {
	var key multiKey
	if len(names) < 2 || len(names) > MaxMultiBases {
		return key, false
	}
	key.n = len(names)
	copy(key.names[:], names)
	return key, true
}

// MultiBaseCache holds one MultiBaseTable per ordered list of base names.
type MultiBaseCache struct {
	bits uint
	k    uint

	mu     sync.RWMutex
	tables map[multiKey]*MultiBaseTable
}

// NewMultiBaseCache returns an empty cache whose tables serve exponents of up to bits bits
// with windows of k bits per base.
func NewMultiBaseCache(bits, k uint) *MultiBaseCache {
	return &MultiBaseCache{
		bits:   bits,
		k:      k,
		tables: map[multiKey]*MultiBaseTable{},
	}
}

// Store builds the table for the ordered names. It is a no-op when that table already exists.
func (c *MultiBaseCache) Store(names []string, bases []*big.Int, modulus *big.Int) error {
	if len(names) != len(bases) {
		return errors.Errorf("%d names but %d bases", len(names), len(bases))
	}
	key, ok := newMultiKey(names)
	if !ok {
		return errors.Errorf("multi-base tables combine 2 to %d bases, not %d", MaxMultiBases, len(names))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[key]; ok {
		return nil
	}
	t, err := NewMultiBaseTable(bases, modulus, c.bits, c.k)
	if err != nil {
		return err
	}
	c.tables[key] = t
	return nil
}

// Has reports whether a table for the ordered names exists.
func (c *MultiBaseCache) Has(names []string) bool {
	_, ok := c.table(names)
	return ok
}

func (c *MultiBaseCache) table(names []string) (*MultiBaseTable, bool) {
	key, ok := newMultiKey(names)
	if !ok {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[key]
	return t, ok
}

// ModPow computes the product of bases[i]^exps[i] mod modulus, from the table stored
// for names when it can, and with MultiExp otherwise.
func (c *MultiBaseCache) ModPow(names []string, bases, exps []*big.Int, modulus *big.Int) (*big.Int, error) {
	t, ok := c.table(names)
	switch {
	case !ok:
	case !t.Matches(bases, modulus):
		Logger.Debugf("multi-base table (%s) built for other bases or modulus, falling back", strings.Join(names, ","))
	default:
		if r, ok := t.Exp(exps); ok {
			return r, nil
		}
	}
	return MultiExp(bases, exps, modulus)
}
