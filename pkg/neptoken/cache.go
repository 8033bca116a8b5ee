/*
Package neptoken contains a cache of NEP-11 and NEP-17 token metadata.

Metadata is fetched via a caller-supplied Fetcher (usually backed by some RPC
client) and kept until it's explicitly invalidated or evicted, every Cache
instance is independent and owned by its creator.
*/
package neptoken

import (
	"fmt"
	"math/big"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"go.uber.org/zap"
)

const (
	// MaxValidDecimals is the maximum value 'decimals' contract method can
	// return to be considered as valid. It's log10(2^256), higher values
	// don't make any sense on a VM with 256-bit integers.
	MaxValidDecimals = 77

	// DefaultCacheSize is the number of tokens kept by the Cache if no size
	// is given.
	DefaultCacheSize = 128
)

// Metadata validation errors.
var (
	ErrInvalidDecimals = fmt.Errorf("%w: invalid token decimals", errkind.ErrValidation)
	ErrInvalidSymbol   = fmt.Errorf("%w: invalid token symbol", errkind.ErrValidation)
	ErrInvalidSupply   = fmt.Errorf("%w: invalid token total supply", errkind.ErrValidation)
)

// Info is token metadata.
type Info struct {
	Hash        util.Uint160
	Symbol      string
	Decimals    int
	TotalSupply *big.Int
}

// Fetcher retrieves token metadata from the chain.
type Fetcher interface {
	FetchInfo(hash util.Uint160) (*Info, error)
}

// FetcherFunc is an adapter to use ordinary functions as Fetcher.
type FetcherFunc func(hash util.Uint160) (*Info, error)

// FetchInfo implements the Fetcher interface.
func (f FetcherFunc) FetchInfo(hash util.Uint160) (*Info, error) {
	return f(hash)
}

// Cache is an LRU cache of token metadata. It's safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	tokens  *lru.Cache
	log     *zap.Logger
}

// NewCache creates a Cache holding up to size tokens (DefaultCacheSize if
// size is not positive). Logger can be nil.
func NewCache(f Fetcher, size int, log *zap.Logger) (*Cache, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: no fetcher", errkind.ErrConfiguration)
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	tokens, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		fetcher: f,
		tokens:  tokens,
		log:     log,
	}, nil
}

// Get returns metadata of the given token, it's fetched only if there is no
// cached copy.
func (c *Cache) Get(hash util.Uint160) (*Info, error) {
	if v, ok := c.tokens.Get(hash); ok {
		return v.(*Info).Copy(), nil
	}
	return c.Refresh(hash)
}

// Refresh fetches metadata of the given token unconditionally and updates
// the cache. Invalid metadata is not cached and a previously cached copy is
// dropped in this case.
func (c *Cache) Refresh(hash util.Uint160) (*Info, error) {
	info, err := c.fetcher.FetchInfo(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token %s: %w", hash.StringLE(), err)
	}
	if info == nil {
		c.tokens.Remove(hash)
		return nil, fmt.Errorf("%w: no metadata for token %s", errkind.ErrValidation, hash.StringLE())
	}
	info = info.Copy()
	info.Hash = hash
	if err := info.Validate(); err != nil {
		c.tokens.Remove(hash)
		return nil, fmt.Errorf("token %s: %w", hash.StringLE(), err)
	}
	if c.tokens.Add(hash, info) {
		c.log.Debug("token metadata evicted", zap.Int("size", c.tokens.Len()))
	}
	c.log.Debug("token metadata cached",
		zap.String("hash", hash.StringLE()),
		zap.String("symbol", info.Symbol),
		zap.Int("decimals", info.Decimals))
	return info.Copy(), nil
}

// Invalidate drops the cached metadata of the given token, it returns true
// if there was any.
func (c *Cache) Invalidate(hash util.Uint160) bool {
	return c.tokens.Remove(hash)
}

// Purge drops all cached metadata.
func (c *Cache) Purge() {
	c.tokens.Purge()
}

// Len returns the number of cached tokens.
func (c *Cache) Len() int {
	return c.tokens.Len()
}

// Validate checks that decimals are in [0, MaxValidDecimals] range, symbol
// is printable ASCII and total supply (if known) is not negative.
func (i *Info) Validate() error {
	if i.Decimals < 0 || i.Decimals > MaxValidDecimals {
		return fmt.Errorf("%w: %d", ErrInvalidDecimals, i.Decimals)
	}
	if len(i.Symbol) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}
	for _, c := range []byte(i.Symbol) {
		if c < 32 || c >= 127 {
			return fmt.Errorf("%w: %q", ErrInvalidSymbol, i.Symbol)
		}
	}
	if i.TotalSupply != nil && i.TotalSupply.Sign() < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSupply, i.TotalSupply)
	}
	return nil
}

// Copy returns a deep copy of the metadata.
func (i *Info) Copy() *Info {
	res := *i
	if i.TotalSupply != nil {
		res.TotalSupply = new(big.Int).Set(i.TotalSupply)
	}
	return &res
}
