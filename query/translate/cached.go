package translate

import (
	"github.com/satishbabariya/sqlshim/query/cache"
	"github.com/satishbabariya/sqlshim/query/normalize"
)

// DefaultCacheSize is the number of plans Cached keeps.
const DefaultCacheSize = 512

// CachedTranslator memoizes successful translations by statement text.
// Plans handed out are shared and must not be modified.
type CachedTranslator struct {
	next  Translator
	plans *cache.LRU[Plan]
}

// Cached wraps t with an LRU of size plans.
func Cached(t Translator, size int) *CachedTranslator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedTranslator{next: t, plans: cache.New[Plan](size, 0)}
}

// Translate implements Translator.
func (c *CachedTranslator) Translate(sql string) (Plan, error) {
	key := cache.Key(sql)
	if plan, ok := c.plans.Get(key); ok {
		return plan, nil
	}
	plan, err := c.next.Translate(sql)
	if err != nil {
		return Plan{}, err
	}
	c.plans.Set(key, plan, 0)
	return plan, nil
}

// FixResults forwards to the wrapped translator when it adjusts rows.
func (c *CachedTranslator) FixResults(rows []normalize.Row) []normalize.Row {
	if fixer, ok := c.next.(ResultFixer); ok {
		return fixer.FixResults(rows)
	}
	return rows
}

// Stats reports cache hits and misses.
func (c *CachedTranslator) Stats() cache.Stats { return c.plans.Stats() }
