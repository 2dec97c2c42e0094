package meshgraph

// Orientation relates a supplied node cycle to its canonical form.
// The zero value is the identity.
type Orientation struct {
	Rotation int
	Flipped  bool
}

// Sign is +1 for a cycle that runs in the canonical direction, -1 otherwise
func (o Orientation) Sign() int8 {
	if o.Flipped {
		return -1
	}
	return 1
}

// Canonicalize returns the lexicographically smallest rotation or reflection
// of nodes and the orientation of nodes relative to it. Node ids within a
// cycle are distinct, so the winner starts at the smallest id and the
// direction is decided by the smaller of its two cycle neighbors.
func Canonicalize(nodes []NodeID) (key []NodeID, o Orientation) {
	n := len(nodes)
	key = make([]NodeID, n)
	if n == 0 {
		return key, o
	}
	best := -1
	for i := 0; i < n; i++ {
		if best < 0 || nodes[i] < nodes[best] {
			best = i
		}
	}
	next, prev := nodes[(best+1)%n], nodes[(best-1+n)%n]
	o.Rotation = best
	if n > 2 && prev < next {
		o.Flipped = true
	}
	for k := 0; k < n; k++ {
		if o.Flipped {
			key[k] = nodes[((best-k)%n+n)%n]
		} else {
			key[k] = nodes[(best+k)%n]
		}
	}
	if n == 2 {
		// Edges have no rotation, only direction
		o = Orientation{Flipped: nodes[0] > nodes[1]}
	}
	return key, o
}

// Alternate reconstructs the node cycle that has orientation o relative to key
func Alternate(key []NodeID, o Orientation) []NodeID {
	n := len(key)
	nodes := make([]NodeID, n)
	if n == 2 {
		if o.Flipped {
			nodes[0], nodes[1] = key[1], key[0]
		} else {
			copy(nodes, key)
		}
		return nodes
	}
	for j := 0; j < n; j++ {
		if o.Flipped {
			nodes[j] = key[((o.Rotation-j)%n+n)%n]
		} else {
			nodes[j] = key[((j-o.Rotation)%n+n)%n]
		}
	}
	return nodes
}

// CanonicalEdge returns the ascending node pair and +1 when a->b is already ascending
func CanonicalEdge(a, b NodeID) ([2]NodeID, int8) {
	if a < b {
		return [2]NodeID{a, b}, 1
	}
	return [2]NodeID{b, a}, -1
}
