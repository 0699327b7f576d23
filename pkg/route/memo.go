package route

import "hash/fnv"

// prefixMemo records ordering prefixes that previously led to rip-up
// exhaustion. Orderings sharing a memoized prefix are skipped without
// simulation. Prefixes are stored as FNV-1a fingerprints of the ordered
// net-id tuple.
type prefixMemo struct {
	seen map[uint64]struct{}
}

func newPrefixMemo() *prefixMemo {
	return &prefixMemo{seen: make(map[uint64]struct{})}
}

// insert memoizes the exact prefix. Empty prefixes are ignored: they
// would match every future ordering.
func (m *prefixMemo) insert(prefix []string) {
	if len(prefix) == 0 {
		return
	}
	h := fnv.New64a()
	for _, id := range prefix {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	m.seen[h.Sum64()] = struct{}{}
}

// matches reports whether any prefix of the ordering has been memoized.
// The hash is built incrementally, so the check is a single pass.
func (m *prefixMemo) matches(ordering []string) bool {
	if len(m.seen) == 0 {
		return false
	}
	h := fnv.New64a()
	for _, id := range ordering {
		h.Write([]byte(id))
		h.Write([]byte{0})
		if _, hit := m.seen[h.Sum64()]; hit {
			return true
		}
	}
	return false
}

// size returns the number of memoized prefixes.
func (m *prefixMemo) size() int {
	return len(m.seen)
}
