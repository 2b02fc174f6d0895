// Package collision resolves xxHash64 collisions among the block-stream dictionary's
// (consensus, bitmask, residues) candidate triples (see internal/hash). Unlike a
// content-addressed cache keyed purely by hash, the dictionary builder needs an exact
// per-distinct-triple frequency count, so two different triples that happen to hash
// identically must never be folded into one bucket.
package collision

// Tracker deduplicates dictionary candidate triples by hash while guarding against
// collisions: a hash that was first observed for one triple and is then observed again
// for a genuinely different triple is resolved to a fresh key instead of merging the
// two into the same frequency bucket.
type Tracker struct {
	seen       map[uint64]triple
	collisions int
}

type triple struct {
	consensus byte
	bitmask   string
	residues  string
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[uint64]triple)}
}

// Resolve returns the frequency-counting key to use for the given triple, given its
// xxHash64 hash. If hash is unused, or was already used for an equal triple, hash
// itself is returned. If hash was already used for a different triple, Resolve probes
// forward (hash+1, hash+2, ...) until it finds an unused key or one already assigned to
// an equal triple, and returns that key. Each key probed past counts as one collision
// when the triple is first placed; re-resolving an already placed triple adds none.
// Because the full triple
// is always available here (unlike a hash-only metric-ID lookup), no error is ever
// raised; the rare collision is just resolved to a different bucket.
func (t *Tracker) Resolve(hash uint64, consensus byte, bitmask, residues []byte) uint64 {
	cand := triple{consensus: consensus, bitmask: string(bitmask), residues: string(residues)}

	key := hash
	steps := 0
	for {
		existing, ok := t.seen[key]
		if !ok {
			t.seen[key] = cand
			t.collisions += steps
			return key
		}
		if existing == cand {
			return key
		}
		steps++
		key++
	}
}

// HasCollision reports whether any hash collision has been resolved so far.
func (t *Tracker) HasCollision() bool {
	return t.collisions > 0
}

// CollisionCount returns the number of collisions resolved so far.
func (t *Tracker) CollisionCount() int {
	return t.collisions
}

// Count returns the number of distinct triples tracked so far.
func (t *Tracker) Count() int {
	return len(t.seen)
}

// Reset clears all tracked triples and the collision count, preserving the underlying
// map's allocated capacity for reuse.
func (t *Tracker) Reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
	t.collisions = 0
}
