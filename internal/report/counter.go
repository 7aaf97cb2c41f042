package report

import "sort"

// Counter counts occurrences per key and remembers first-seen order, so
// renderers can break count ties by insertion order.
type Counter[K comparable, V any] struct {
	order  []K
	values map[K]V
	counts map[K]int
	total  int
}

// NewCounter returns an empty counter.
func NewCounter[K comparable, V any]() *Counter[K, V] {
	return &Counter[K, V]{
		values: make(map[K]V),
		counts: make(map[K]int),
	}
}

// Inc adds one to key. The value is recorded only on first sight of key.
func (c *Counter[K, V]) Inc(key K, value V) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
		c.values[key] = value
	}
	c.counts[key]++
	c.total++
}

// Total is the sum of all counts.
func (c *Counter[K, V]) Total() int {
	return c.total
}

// Len is the number of distinct keys.
func (c *Counter[K, V]) Len() int {
	return len(c.order)
}

// Count returns the count for key.
func (c *Counter[K, V]) Count(key K) int {
	return c.counts[key]
}

// Entry is one key of a counter with its recorded value and count.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
	Count int
}

// Entries returns the counter's entries in insertion order.
func (c *Counter[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Entry[K, V]{Key: k, Value: c.values[k], Count: c.counts[k]})
	}
	return out
}

// ByCountDesc returns entries sorted by descending count, ties kept in
// insertion order.
func (c *Counter[K, V]) ByCountDesc() []Entry[K, V] {
	out := c.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
