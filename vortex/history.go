package vortex

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/lucasb-eyer/go-colorful"
)

// History accumulates the transition matrices of a data set and assigns
// global ids that persist while an object continues unchanged
type History struct {
	seq      *Sequence
	matrices *treemap.Map // T0 -> *TransitionMatrix
	gids     map[int][]int
	issued   int // Ids drawn from seq by this history
}

// NewHistory creates an empty history drawing ids from seq
func NewHistory(seq *Sequence) *History {
	return &History{
		seq:      seq,
		matrices: treemap.NewWithIntComparator(),
		gids:     make(map[int][]int),
	}
}

// AddMatrix stores tm and numbers the objects of tm.T1. An object of T1
// inherits the id of its single parent when that parent has no other child;
// every other object starts a new id.
func (h *History) AddMatrix(tm *TransitionMatrix) {
	h.matrices.Put(tm.T0, tm)

	n0, n1 := tm.Dims()
	ids0, ok := h.gids[tm.T0]
	if !ok || len(ids0) != n0 {
		ids0 = make([]int, n0)
		for i := range ids0 {
			ids0[i] = h.nextID()
		}
		h.gids[tm.T0] = ids0
	}

	ids1 := make([]int, n1)
	for j := 0; j < n1; j++ {
		ids1[j] = -1
		if tm.colLinks(j) != 1 {
			continue
		}
		for i := 0; i < n0; i++ {
			if tm.At(i, j) > 0 && tm.rowLinks(i) == 1 {
				ids1[j] = ids0[i]
			}
		}
	}
	for j := range ids1 {
		if ids1[j] < 0 {
			ids1[j] = h.nextID()
		}
	}
	h.gids[tm.T1] = ids1
}

// Matrix returns the matrix that starts at time step t0
func (h *History) Matrix(t0 int) (*TransitionMatrix, bool) {
	v, ok := h.matrices.Get(t0)
	if !ok {
		return nil, false
	}
	return v.(*TransitionMatrix), true
}

// TimeSteps lists the starting steps of all stored matrices in order
func (h *History) TimeSteps() []int {
	keys := h.matrices.Keys()
	steps := make([]int, len(keys))
	for i, k := range keys {
		steps[i] = k.(int)
	}
	return steps
}

// GlobalID returns the global id of local object lid at step t, or -1
func (h *History) GlobalID(t, lid int) int {
	ids := h.gids[t]
	if lid < 0 || lid >= len(ids) {
		return -1
	}
	return ids[lid]
}

// SequenceIdx returns the local id at step t of global id gid, or -1
func (h *History) SequenceIdx(t, gid int) int {
	for lid, id := range h.gids[t] {
		if id == gid {
			return lid
		}
	}
	return -1
}

func (h *History) nextID() int {
	h.issued++
	return h.seq.Next()
}

// NumGlobal is the number of global ids this history has handed out. The
// sequence may start anywhere and may be shared with other histories.
func (h *History) NumGlobal() int {
	return h.issued
}

// goldenAngle spreads consecutive hues around the color wheel
const goldenAngle = 137.50776405003785

// SequenceColor returns a stable display color for a global id
func SequenceColor(gid int) (r, g, b uint8) {
	hue := math.Mod(float64(gid)*goldenAngle, 360)
	if hue < 0 {
		hue += 360
	}
	return colorful.Hsv(hue, 0.65, 0.95).RGB255()
}
