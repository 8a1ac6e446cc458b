package matching

// MultiMap is a hash map from a key to every value added under it.
// Add never overwrites or deduplicates: adding the same value twice stores
// it twice, and one value may be added under many keys. Insertion order is
// preserved both per key and across keys.
type MultiMap[K comparable, V any] struct {
	buckets map[K][]V
	keys    []K
	size    int
}

// NewMultiMap creates an empty multi-map
func NewMultiMap[K comparable, V any]() *MultiMap[K, V] {
	return &MultiMap[K, V]{buckets: make(map[K][]V)}
}

// Add appends v to the bucket of k
func (m *MultiMap[K, V]) Add(k K, v V) {
	if _, ok := m.buckets[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.buckets[k] = append(m.buckets[k], v)
	m.size++
}

// Get returns the values stored under k. The slice must not be modified.
func (m *MultiMap[K, V]) Get(k K) []V {
	return m.buckets[k]
}

// Keys returns the distinct keys in first-insertion order
func (m *MultiMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of stored values, counting duplicates
func (m *MultiMap[K, V]) Len() int {
	return m.size
}

// KeyCount returns the number of distinct keys
func (m *MultiMap[K, V]) KeyCount() int {
	return len(m.keys)
}

// Each calls fn for every stored value in insertion order per key
func (m *MultiMap[K, V]) Each(fn func(K, V)) {
	for _, k := range m.keys {
		for _, v := range m.buckets[k] {
			fn(k, v)
		}
	}
}
