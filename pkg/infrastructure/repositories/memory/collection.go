package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// collection stores records in load order with an index by key
type collection[T any] struct {
	mu    sync.RWMutex
	kind  string
	key   func(*T) string
	items []T
	index map[string]int
}

func newCollection[T any](kind string, expected int, key func(*T) string) *collection[T] {
	return &collection[T]{
		kind:  kind,
		key:   key,
		items: make([]T, 0, expected),
		index: make(map[string]int, expected),
	}
}

// load adds all records or none. Keys repeated within the batch or
// already present are reported together.
func (c *collection[T]) load(records []*T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(records))
	var duplicates []string
	for _, r := range records {
		k := c.key(r)
		if _, exists := c.index[k]; exists || seen[k] {
			duplicates = append(duplicates, k)
		}
		seen[k] = true
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("duplicate %s keys found: %s", c.kind, strings.Join(duplicates, ", "))
	}

	for _, r := range records {
		c.index[c.key(r)] = len(c.items)
		c.items = append(c.items, *r)
	}
	return nil
}

func (c *collection[T]) add(record T) error {
	return c.load([]*T{&record})
}

func (c *collection[T]) get(key string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, exists := c.index[key]
	if !exists {
		return nil, fmt.Errorf("%s %q: %w", c.kind, key, repositories.ErrNotFound)
	}
	record := c.items[i]
	return &record, nil
}

// all returns copies of the records in load order
func (c *collection[T]) all() []*T {
	return c.filter(func(*T) bool { return true })
}

func (c *collection[T]) filter(keep func(*T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*T, 0, len(c.items))
	for i := range c.items {
		if keep(&c.items[i]) {
			record := c.items[i]
			out = append(out, &record)
		}
	}
	return out
}

func (c *collection[T]) count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
