package patterns

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheSize is the number of runtime-built expressions kept compiled.
const CacheSize = 256

type cacheKey struct {
	expr  string
	group int
}

var (
	cacheOnce sync.Once
	exprCache *lru.Cache[cacheKey, *Pattern]
)

func expressions() *lru.Cache[cacheKey, *Pattern] {
	cacheOnce.Do(func() {
		// Only fails for a non-positive size.
		exprCache, _ = lru.New[cacheKey, *Pattern](CacheSize)
	})
	return exprCache
}

// Cached compiles expr on first use and returns the same Pattern for later
// calls with the same expression and group. Failed compilations are not
// cached.
func Cached(expr string, group int) (*Pattern, error) {
	key := cacheKey{expr: expr, group: group}
	cache := expressions()

	if p, ok := cache.Get(key); ok {
		return p, nil
	}

	p, err := Compile(expr, group)
	if err != nil {
		return nil, err
	}
	cache.Add(key, p)
	return p, nil
}

// CacheLen returns the number of expressions currently cached.
func CacheLen() int {
	return expressions().Len()
}
